package handlers

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type updateAddressRequest struct {
	Country        string `json:"country" binding:"required"`
	City           string `json:"city" binding:"required"`
	StreetAndHouse string `json:"streetAndHouse" binding:"required"`
	PostalCode     string `json:"postalCode" binding:"required"`
}

// UpdateAddress sets all four address fields of the caller's record in
// one update, so concurrent requests never observe a partially written
// address.
func UpdateAddress(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Not authorized, no token"})
			return
		}

		var req updateAddressRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "country, city, streetAndHouse and postalCode are required"})
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		_, err := db.Collection("users").UpdateByID(ctx, user.ID, bson.M{
			"$set": bson.M{
				"country":        strings.TrimSpace(req.Country),
				"city":           strings.TrimSpace(req.City),
				"streetAndHouse": strings.TrimSpace(req.StreetAndHouse),
				"postalCode":     strings.TrimSpace(req.PostalCode),
				"updatedAt":      time.Now(),
			},
		})
		if err != nil {
			log.Println("[ADDRESS] [ERROR] update failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "db error"})
			return
		}

		log.Println("[ADDRESS] [INFO] address updated for user:", user.ID.Hex())
		c.JSON(http.StatusOK, gin.H{"message": "Address updated"})
	}
}
