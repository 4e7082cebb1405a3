package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetPayPalConfig exposes the payment-provider client id to the
// frontend checkout flow.
func GetPayPalConfig(clientID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"clientId": clientID})
	}
}
