package routes

import (
	cartControllers "github.com/Adi-Narayan/Hashira/controllers/cart"
	"github.com/Adi-Narayan/Hashira/middleware"
	"github.com/gin-gonic/gin"
)

// SetupCartRoutes registers all "/api/cart/*" endpoints. Requires a user token.
func SetupCartRoutes(api *gin.RouterGroup, d Deps) {
	cartGroup := api.Group("/cart")
	cartGroup.Use(middleware.UserAuth(d.Issuer))
	{
		cartGroup.POST("/add", cartControllers.AddToCart(d.Carts))
		cartGroup.POST("/update", cartControllers.UpdateCartItem(d.Carts))
		cartGroup.GET("/get", cartControllers.GetUserCart(d.Carts))
		cartGroup.POST("/get", cartControllers.GetUserCart(d.Carts))
	}
}
