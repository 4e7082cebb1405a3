package handlers

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"storefront/internal/models"
)

type addToCartRequest struct {
	ProductID string  `json:"productId" binding:"required"`
	Qty       int     `json:"qty" binding:"required"`
	Size      int     `json:"size"`
	Name      string  `json:"name" binding:"required"`
	Price     float64 `json:"price"`
}

// AddToCart appends a cart line to the caller's cart. Lines are never
// merged, adding the same product and size twice yields two lines.
func AddToCart(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Not authorized, no token"})
			return
		}

		var req addToCartRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid body"})
			return
		}

		productID, err := primitive.ObjectIDFromHex(strings.TrimSpace(req.ProductID))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid productId"})
			return
		}

		if req.Qty <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"message": "qty must be greater than zero"})
			return
		}

		item := models.CartItem{
			ID:        primitive.NewObjectID(),
			ProductID: productID,
			Name:      strings.TrimSpace(req.Name),
			Price:     req.Price,
			Size:      req.Size,
			Qty:       req.Qty,
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		_, err = db.Collection("users").UpdateByID(ctx, user.ID, bson.M{
			"$push": bson.M{"cart": item},
			"$set":  bson.M{"updatedAt": time.Now()},
		})
		if err != nil {
			log.Println("[CART] [ERROR] add item failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "db error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Saved", "item": item})
	}
}

// removeCartItemFilter matches the user only while the cart line is
// present, so MatchedCount distinguishes a missing line from a
// successful removal.
func removeCartItemFilter(userID, itemID primitive.ObjectID) bson.M {
	return bson.M{
		"_id":      userID,
		"cart._id": itemID,
	}
}

func removeCartItemUpdate(itemID primitive.ObjectID) bson.M {
	return bson.M{
		"$pull": bson.M{"cart": bson.M{"_id": itemID}},
		"$set":  bson.M{"updatedAt": time.Now()},
	}
}

// RemoveFromCart deletes one cart line by its embedded id.
func RemoveFromCart(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Not authorized, no token"})
			return
		}

		itemID, err := primitive.ObjectIDFromHex(strings.TrimSpace(c.Param("id")))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid item id"})
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		res, err := db.Collection("users").UpdateOne(ctx,
			removeCartItemFilter(user.ID, itemID),
			removeCartItemUpdate(itemID),
		)
		if err != nil {
			log.Println("[CART] [ERROR] remove item failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "db error"})
			return
		}
		if res.MatchedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"message": "Cart item not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Item removed"})
	}
}

// ClearCart empties the caller's cart in a single set.
func ClearCart(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Not authorized, no token"})
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		_, err := db.Collection("users").UpdateByID(ctx, user.ID, bson.M{
			"$set": bson.M{
				"cart":      []models.CartItem{},
				"updatedAt": time.Now(),
			},
		})
		if err != nil {
			log.Println("[CART] [ERROR] clear cart failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "db error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
	}
}
