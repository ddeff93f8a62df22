package productcontroller

import (
	"net/http"
	"strings"

	"github.com/Adi-Narayan/Hashira/controllers"
	"github.com/Adi-Narayan/Hashira/models"
	"github.com/Adi-Narayan/Hashira/service"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cast"
)

// GetProducts lists the catalog.
// Query: category, subCategory, bestseller=true, search
func GetProducts(catalog *service.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter := models.ProductFilter{
			Category:    strings.TrimSpace(c.Query("category")),
			SubCategory: strings.TrimSpace(c.Query("subCategory")),
			Bestseller:  cast.ToBool(c.Query("bestseller")),
			Search:      strings.TrimSpace(c.Query("search")),
		}

		products, err := catalog.List(c.Request.Context(), filter)
		if err != nil {
			controllers.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "products": products})
	}
}
