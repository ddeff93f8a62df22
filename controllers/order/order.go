package orderControllers

import (
	"errors"
	"io"
	"net/http"

	"github.com/Adi-Narayan/Hashira/controllers"
	"github.com/Adi-Narayan/Hashira/middleware"
	"github.com/Adi-Narayan/Hashira/models"
	"github.com/Adi-Narayan/Hashira/service"
	"github.com/gin-gonic/gin"
)

// -------- Request Structs --------
type PlaceOrderRequest struct {
	Items   []models.OrderItem `json:"items"`
	Amount  float64            `json:"amount"`
	Address models.Address     `json:"address"`
}

func (r PlaceOrderRequest) input() service.PlaceOrderInput {
	return service.PlaceOrderInput{Items: r.Items, Amount: r.Amount, Address: r.Address}
}

type ListOrdersRequest struct {
	UserID string `json:"userId"`
}

type UpdateOrderStatusRequest struct {
	OrderID string `json:"orderId"`
	Status  string `json:"status"`
}

// POST /api/order/place
func PlaceOrderHandler(orders *service.OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req PlaceOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			controllers.BadRequest(c, err)
			return
		}

		order, err := orders.PlaceCOD(c.Request.Context(), middleware.UserID(c), req.input())
		if err != nil {
			controllers.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Order Placed", "orderId": order.ID})
	}
}

// POST /api/order/payu
func PlacePayUOrderHandler(orders *service.OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req PlaceOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			controllers.BadRequest(c, err)
			return
		}

		order, payment, err := orders.PlacePayU(c.Request.Context(), middleware.UserID(c), req.input())
		if err != nil {
			controllers.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"payuUrl": payment.URL,
			"params":  payment.Params,
			"orderId": order.ID,
		})
	}
}

// POST /api/order/verifyPayU
// The gateway posts the payment result here; the customer is redirected to the
// frontend verify page either way.
func VerifyPayUHandler(orders *service.OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		cb, ok := middleware.PayUCallback(c)
		if !ok {
			c.Redirect(http.StatusSeeOther, orders.FailureURL(""))
			return
		}

		target, err := orders.ConfirmPayU(c.Request.Context(), cb)
		if err != nil {
			_ = c.Error(err)
		}
		c.Redirect(http.StatusSeeOther, target)
	}
}

// POST /api/order/userorders
func GetUserOrdersHandler(orders *service.OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := orders.UserOrders(c.Request.Context(), middleware.UserID(c))
		if err != nil {
			controllers.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "orders": list})
	}
}

// POST /api/order/list (admin)
// An optional userId narrows the listing to one customer.
func GetAllOrdersHandler(orders *service.OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ListOrdersRequest
		if c.Request.Body != nil && c.Request.Body != http.NoBody {
			// An empty body lists every order.
			if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
				controllers.BadRequest(c, err)
				return
			}
		}

		list, err := orders.List(c.Request.Context(), req.UserID)
		if err != nil {
			controllers.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "orders": list})
	}
}

// POST /api/order/status (admin)
func UpdateOrderStatusHandler(orders *service.OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdateOrderStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			controllers.BadRequest(c, err)
			return
		}

		if _, err := orders.UpdateStatus(c.Request.Context(), req.OrderID, req.Status); err != nil {
			controllers.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Status Updated"})
	}
}
