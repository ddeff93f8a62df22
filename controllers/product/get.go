package productcontroller

import (
	"net/http"

	"github.com/Adi-Narayan/Hashira/controllers"
	"github.com/Adi-Narayan/Hashira/service"
	"github.com/gin-gonic/gin"
)

// GetProductByID returns a single product.
// URL param: /api/product/:id
func GetProductByID(catalog *service.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		if id == "" {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Product ID is required"})
			return
		}

		product, err := catalog.Get(c.Request.Context(), id)
		if err != nil {
			controllers.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "product": product})
	}
}
