package middleware

import (
	"net/http"

	"github.com/Adi-Narayan/Hashira/payu"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const PayUCallbackKey = "payu_callback"

// PayUCallbackAuth parses the gateway form post and verifies its reverse hash.
// Unsigned or tampered callbacks are redirected to the failure page and never
// reach the handler.
func PayUCallbackAuth(gateway *payu.Gateway) gin.HandlerFunc {
	return func(c *gin.Context) {
		var cb payu.Callback
		if err := c.ShouldBind(&cb); err != nil {
			zap.L().Warn("failed to parse payu callback", zap.String("namespace", "payu"), zap.Error(err))
			c.Redirect(http.StatusSeeOther, gateway.FailureURL(""))
			c.Abort()
			return
		}

		if err := gateway.Verify(cb); err != nil {
			zap.L().Warn("payu callback signature rejected",
				zap.String("namespace", "payu"),
				zap.String("txnid", cb.TxnID),
				zap.String("client_ip", c.ClientIP()),
				zap.Error(err))
			c.Redirect(http.StatusSeeOther, gateway.FailureURL(cb.TxnID))
			c.Abort()
			return
		}

		c.Set(PayUCallbackKey, cb)
		c.Next()
	}
}

// PayUCallback returns the callback verified by PayUCallbackAuth.
func PayUCallback(c *gin.Context) (payu.Callback, bool) {
	v, ok := c.Get(PayUCallbackKey)
	if !ok {
		return payu.Callback{}, false
	}
	cb, ok := v.(payu.Callback)
	return cb, ok
}
