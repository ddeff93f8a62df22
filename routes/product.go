package routes

import (
	productcontroller "github.com/Adi-Narayan/Hashira/controllers/product"
	"github.com/gin-gonic/gin"
)

// SetupProductRoutes registers the public catalog.
func SetupProductRoutes(api *gin.RouterGroup, d Deps) {
	products := api.Group("/product")
	{
		products.GET("/list", productcontroller.GetProducts(d.Catalog))
		products.GET("/:id", productcontroller.GetProductByID(d.Catalog))
	}
}
