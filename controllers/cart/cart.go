package cartControllers

import (
	"net/http"

	"github.com/Adi-Narayan/Hashira/controllers"
	"github.com/Adi-Narayan/Hashira/middleware"
	"github.com/Adi-Narayan/Hashira/service"
	"github.com/gin-gonic/gin"
)

type CartItemInput struct {
	ItemID string `json:"itemId"`
	Size   string `json:"size"`
}

type CartUpdateInput struct {
	ItemID   string `json:"itemId"`
	Size     string `json:"size"`
	Quantity *int   `json:"quantity"`
}

// POST /api/cart/add
func AddToCart(carts *service.CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input CartItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			controllers.BadRequest(c, err)
			return
		}

		if err := carts.Add(c.Request.Context(), middleware.UserID(c), input.ItemID, input.Size); err != nil {
			controllers.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Added To Cart"})
	}
}

// POST /api/cart/update
// A quantity of zero or less removes the size from the cart.
func UpdateCartItem(carts *service.CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input CartUpdateInput
		if err := c.ShouldBindJSON(&input); err != nil {
			controllers.BadRequest(c, err)
			return
		}
		if input.Quantity == nil {
			controllers.Fail(c, service.ErrInvalidCartItem)
			return
		}

		err := carts.Update(c.Request.Context(), middleware.UserID(c), input.ItemID, input.Size, *input.Quantity)
		if err != nil {
			controllers.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Cart Updated"})
	}
}

// GET|POST /api/cart/get
func GetUserCart(carts *service.CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		cart, err := carts.Get(c.Request.Context(), middleware.UserID(c))
		if err != nil {
			controllers.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "cartData": cart})
	}
}
