package routes

import (
	"net/http"

	"github.com/Adi-Narayan/Hashira/auth"
	"github.com/Adi-Narayan/Hashira/payu"
	"github.com/Adi-Narayan/Hashira/realtime"
	"github.com/Adi-Narayan/Hashira/service"
	"github.com/gin-gonic/gin"
)

// Deps carries what the route groups hand to their controllers.
type Deps struct {
	Issuer         *auth.Issuer
	Gateway        *payu.Gateway
	Hub            *realtime.Hub
	Accounts       *service.AccountService
	Carts          *service.CartService
	Orders         *service.OrderService
	Catalog        *service.CatalogService
	AllowedOrigins []string
}

// SetupRoutes is the single entry-point that wires up every route group.
func SetupRoutes(r *gin.Engine, d Deps) {
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "API Working")
	})

	api := r.Group("/api")

	SetupUserRoutes(api, d)
	SetupProductRoutes(api, d)
	SetupCartRoutes(api, d)
	SetupOrderRoutes(api, d)
}
