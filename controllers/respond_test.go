package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Adi-Narayan/Hashira/service"
	"github.com/Adi-Narayan/Hashira/store"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{service.ErrInvalidCartItem, http.StatusBadRequest},
		{service.ErrWeakPassword, http.StatusBadRequest},
		{service.ErrInvalidCredentials, http.StatusUnauthorized},
		{store.ErrUserNotFound, http.StatusNotFound},
		{fmt.Errorf("wrapped: %w", store.ErrOrderNotFound), http.StatusNotFound},
		{store.ErrDuplicateEmail, http.StatusConflict},
		{service.ErrPaymentUnavailable, http.StatusServiceUnavailable},
		{errors.New("connection reset"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, StatusFor(tc.err), tc.err.Error())
	}
}

func TestFailHidesInternalErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	Fail(c, errors.New("dial tcp 10.0.0.5:27017: connection refused"))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "10.0.0.5")
	assert.Contains(t, w.Body.String(), `"success":false`)

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	Fail(c, service.ErrWeakPassword)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), service.ErrWeakPassword.Error())
}
