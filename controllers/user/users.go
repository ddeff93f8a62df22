package userControllers

import (
	"net/http"

	"github.com/Adi-Narayan/Hashira/controllers"
	"github.com/Adi-Narayan/Hashira/middleware"
	"github.com/Adi-Narayan/Hashira/service"
	"github.com/gin-gonic/gin"
)

type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ForgotPasswordInput struct {
	Email       string `json:"email"`
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

type UpdateUserInput struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// POST /api/user/register
func Register(accounts *service.AccountService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input RegisterInput
		if err := c.ShouldBindJSON(&input); err != nil {
			controllers.BadRequest(c, err)
			return
		}

		token, err := accounts.Register(c.Request.Context(), input.Name, input.Email, input.Password)
		if err != nil {
			controllers.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "token": token})
	}
}

// POST /api/user/login
func Login(accounts *service.AccountService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input LoginInput
		if err := c.ShouldBindJSON(&input); err != nil {
			controllers.BadRequest(c, err)
			return
		}

		token, err := accounts.Login(c.Request.Context(), input.Email, input.Password)
		if err != nil {
			controllers.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "token": token})
	}
}

// POST /api/user/admin
func AdminLogin(accounts *service.AccountService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input LoginInput
		if err := c.ShouldBindJSON(&input); err != nil {
			controllers.BadRequest(c, err)
			return
		}

		token, err := accounts.AdminLogin(input.Email, input.Password)
		if err != nil {
			controllers.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "token": token})
	}
}

// POST /api/user/forgot-password
// Without a token the request mails a reset link; with one it sets the new password.
func ForgotPassword(accounts *service.AccountService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input ForgotPasswordInput
		if err := c.ShouldBindJSON(&input); err != nil {
			controllers.BadRequest(c, err)
			return
		}

		ctx := c.Request.Context()
		if input.Token != "" {
			if err := accounts.ResetPassword(ctx, input.Token, input.NewPassword); err != nil {
				controllers.Fail(c, err)
				return
			}
			c.JSON(http.StatusOK, gin.H{"success": true, "message": "Password updated"})
			return
		}

		if err := accounts.RequestPasswordReset(ctx, input.Email); err != nil {
			controllers.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "If the account exists, a reset link has been sent"})
	}
}

// GET /api/user/profile
func GetUser(accounts *service.AccountService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := accounts.Profile(c.Request.Context(), middleware.UserID(c))
		if err != nil {
			controllers.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
	}
}

// PUT /api/user/profile
func UpdateUser(accounts *service.AccountService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input UpdateUserInput
		if err := c.ShouldBindJSON(&input); err != nil {
			controllers.BadRequest(c, err)
			return
		}

		user, err := accounts.UpdateProfile(c.Request.Context(), middleware.UserID(c), service.ProfileUpdate{
			Name:  input.Name,
			Email: input.Email,
			Phone: input.Phone,
		})
		if err != nil {
			controllers.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
	}
}
