package routes

import (
	orderControllers "github.com/Adi-Narayan/Hashira/controllers/order"
	"github.com/Adi-Narayan/Hashira/middleware"
	"github.com/gin-gonic/gin"
)

func SetupOrderRoutes(api *gin.RouterGroup, d Deps) {
	orders := api.Group("/order")
	{
		// Gateway callback, authenticated by the PayU reverse hash
		orders.POST("/verifyPayU", middleware.PayUCallbackAuth(d.Gateway), orderControllers.VerifyPayUHandler(d.Orders))

		user := orders.Group("", middleware.UserAuth(d.Issuer))
		user.POST("/place", orderControllers.PlaceOrderHandler(d.Orders))
		user.POST("/payu", orderControllers.PlacePayUOrderHandler(d.Orders))
		user.POST("/userorders", orderControllers.GetUserOrdersHandler(d.Orders))

		admin := orders.Group("", middleware.AdminAuth(d.Issuer))
		admin.POST("/list", orderControllers.GetAllOrdersHandler(d.Orders))
		admin.POST("/status", orderControllers.UpdateOrderStatusHandler(d.Orders))
		admin.GET("/export", orderControllers.ExportOrdersToExcel(d.Orders))

		// websocket endpoint for real-time order updates
		upgrader := orderControllers.NewUpgrader(d.AllowedOrigins)
		admin.GET("/ws", orderControllers.OrderWebSocketHandler(d.Hub, upgrader))
	}
}
