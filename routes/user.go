package routes

import (
	userControllers "github.com/Adi-Narayan/Hashira/controllers/user"
	"github.com/Adi-Narayan/Hashira/middleware"
	"github.com/gin-gonic/gin"
)

// SetupUserRoutes registers all "/api/user/*" endpoints.
func SetupUserRoutes(api *gin.RouterGroup, d Deps) {
	userGroup := api.Group("/user")
	{
		userGroup.POST("/register", userControllers.Register(d.Accounts))
		userGroup.POST("/login", userControllers.Login(d.Accounts))
		userGroup.POST("/admin", userControllers.AdminLogin(d.Accounts))
		userGroup.POST("/forgot-password", userControllers.ForgotPassword(d.Accounts))

		profile := userGroup.Group("/profile", middleware.UserAuth(d.Issuer))
		profile.GET("", userControllers.GetUser(d.Accounts))
		profile.PUT("", userControllers.UpdateUser(d.Accounts))
	}
}
