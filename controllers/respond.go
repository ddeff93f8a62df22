// Package controllers holds the response helpers shared by the handler packages.
package controllers

import (
	"errors"
	"net/http"

	"github.com/Adi-Narayan/Hashira/payu"
	"github.com/Adi-Narayan/Hashira/service"
	"github.com/Adi-Narayan/Hashira/store"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// StatusFor maps a service or store error to an HTTP status.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidCartItem),
		errors.Is(err, service.ErrInvalidOrder),
		errors.Is(err, service.ErrInvalidEmail),
		errors.Is(err, service.ErrWeakPassword),
		errors.Is(err, service.ErrMissingName),
		errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrInvalidResetToken):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case service.IsNotFound(err):
		return http.StatusNotFound
	case errors.Is(err, store.ErrDuplicateEmail):
		return http.StatusConflict
	case errors.Is(err, service.ErrPaymentUnavailable), errors.Is(err, payu.ErrNotConfigured):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Fail writes the {success:false,message} envelope. Internal errors are
// logged and replaced with a generic message.
func Fail(c *gin.Context, err error) {
	status := StatusFor(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		zap.L().Error("request failed",
			zap.String("namespace", "http"),
			zap.String("path", c.FullPath()),
			zap.Error(err))
		message = "Something went wrong, please try again"
	}
	_ = c.Error(err)
	c.JSON(status, gin.H{"success": false, "message": message})
}

// BadRequest reports a body that could not be bound.
func BadRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid input: " + err.Error()})
}
