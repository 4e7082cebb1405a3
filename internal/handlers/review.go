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

type addReviewRequest struct {
	Rating  int    `json:"rating" binding:"required"`
	Comment string `json:"comment"`
}

// hasReviewed reports whether the user already contributed a review.
func hasReviewed(reviews []models.Review, userID primitive.ObjectID) bool {
	for _, review := range reviews {
		if review.UserID == userID {
			return true
		}
	}
	return false
}

// meanRating is the arithmetic mean of all review ratings.
func meanRating(reviews []models.Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	sum := 0
	for _, review := range reviews {
		sum += review.Rating
	}
	return float64(sum) / float64(len(reviews))
}

// AddReview appends the caller's review and recomputes the aggregate
// rating. One review per user per product.
func AddReview(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Not authorized, no token"})
			return
		}

		productID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "Product not found"})
			return
		}

		var req addReviewRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "rating is required"})
			return
		}
		if req.Rating < 1 || req.Rating > 5 {
			c.JSON(http.StatusBadRequest, gin.H{"message": "rating must be between 1 and 5"})
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		var product models.Product
		if err := db.Collection("products").FindOne(ctx, bson.M{"_id": productID}).Decode(&product); err != nil {
			if err == mongo.ErrNoDocuments {
				c.JSON(http.StatusNotFound, gin.H{"message": "Product not found"})
				return
			}
			log.Println("[REVIEW] [ERROR] product lookup failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "db error"})
			return
		}

		if hasReviewed(product.Reviews, user.ID) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Product already reviewed"})
			return
		}

		review := models.Review{
			ID:        primitive.NewObjectID(),
			UserID:    user.ID,
			Name:      user.Name,
			Rating:    req.Rating,
			Comment:   strings.TrimSpace(req.Comment),
			CreatedAt: time.Now(),
		}

		reviews := append(product.Reviews, review)
		_, err = db.Collection("products").UpdateByID(ctx, productID, bson.M{
			"$set": bson.M{
				"reviews":    reviews,
				"numReviews": len(reviews),
				"rating":     meanRating(reviews),
				"updatedAt":  time.Now(),
			},
		})
		if err != nil {
			log.Println("[REVIEW] [ERROR] append failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "db error"})
			return
		}

		log.Println("[REVIEW] [INFO] review added to product:", productID.Hex())
		c.JSON(http.StatusCreated, gin.H{"message": "Review added"})
	}
}
