package handlers

import (
	"log"
	"math"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"storefront/internal/models"
)

const productPageSize = 8

type productUpdateRequest struct {
	Name         string  `json:"name"`
	Price        float64 `json:"price"`
	Description  string  `json:"description"`
	Brand        string  `json:"brand"`
	CountInStock int     `json:"countInStock"`
}

// searchFilter builds the case-insensitive name match for a keyword
// search. An empty keyword matches everything.
func searchFilter(keyword string) bson.M {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return bson.M{}
	}
	return bson.M{"name": bson.M{"$regex": regexp.QuoteMeta(keyword), "$options": "i"}}
}

// pageCount computes the total page count for a match count.
func pageCount(total int64, pageSize int64) int64 {
	if total <= 0 {
		return 0
	}
	return int64(math.Ceil(float64(total) / float64(pageSize)))
}

func parsePageNumber(raw string) int64 {
	page, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// GetProducts is the public paginated keyword search. The count and page
// queries are separate reads, so the two can diverge under concurrent
// writes.
func GetProducts(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		page := parsePageNumber(c.Query("pageNumber"))
		filter := searchFilter(c.Query("keyword"))

		ctx, cancel := requestContext(c)
		defer cancel()

		total, err := db.Collection("products").CountDocuments(ctx, filter)
		if err != nil {
			log.Println("[PRODUCT] [ERROR] count failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "db error"})
			return
		}

		opts := options.Find().
			SetSort(bson.D{{Key: "createdAt", Value: -1}}).
			SetSkip(productPageSize * (page - 1)).
			SetLimit(productPageSize)

		cursor, err := db.Collection("products").Find(ctx, filter, opts)
		if err != nil {
			log.Println("[PRODUCT] [ERROR] search failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "db error"})
			return
		}
		defer cursor.Close(ctx)

		products := make([]models.Product, 0)
		if err := cursor.All(ctx, &products); err != nil {
			log.Println("[PRODUCT] [ERROR] decode failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "db error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"products": products,
			"page":     page,
			"pages":    pageCount(total, productPageSize),
		})
	}
}

// GetProductsForAdmin returns the full unpaginated catalog for the admin
// listing screen.
func GetProductsForAdmin(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
		cursor, err := db.Collection("products").Find(ctx, bson.M{}, opts)
		if err != nil {
			log.Println("[PRODUCT] [ERROR] admin list failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "db error"})
			return
		}
		defer cursor.Close(ctx)

		products := make([]models.Product, 0)
		if err := cursor.All(ctx, &products); err != nil {
			log.Println("[PRODUCT] [ERROR] decode failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "db error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"products": products})
	}
}

func GetProductByID(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "Product not found"})
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		var product models.Product
		if err := db.Collection("products").FindOne(ctx, bson.M{"_id": id}).Decode(&product); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "Product not found"})
			return
		}

		c.JSON(http.StatusOK, product)
	}
}

// GetTopProducts returns the 3 highest-rated products.
func GetTopProducts(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		opts := options.Find().
			SetSort(bson.D{{Key: "rating", Value: -1}}).
			SetLimit(3)

		cursor, err := db.Collection("products").Find(ctx, bson.M{}, opts)
		if err != nil {
			log.Println("[PRODUCT] [ERROR] top list failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "db error"})
			return
		}
		defer cursor.Close(ctx)

		products := make([]models.Product, 0, 3)
		if err := cursor.All(ctx, &products); err != nil {
			log.Println("[PRODUCT] [ERROR] decode failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "db error"})
			return
		}

		c.JSON(http.StatusOK, products)
	}
}

// CreateProduct inserts a placeholder record owned by the caller, meant
// to be filled in by a follow-up update.
func CreateProduct(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Not authorized, no token"})
			return
		}

		now := time.Now()
		product := models.Product{
			UserID:      user.ID,
			Name:        "Sample Name",
			Price:       0,
			Brand:       "Sample Brand",
			Description: "Sample Description",
			Reviews:     []models.Review{},
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		res, err := db.Collection("products").InsertOne(ctx, product)
		if err != nil {
			log.Println("[PRODUCT] [ERROR] create failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "db error"})
			return
		}

		product.ID, _ = res.InsertedID.(primitive.ObjectID)
		c.JSON(http.StatusCreated, product)
	}
}

// UpdateProduct overwrites the editable fields. The image is managed by
// the upload endpoints and left untouched here.
func UpdateProduct(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "Product not found"})
			return
		}

		var req productUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid body"})
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		res := db.Collection("products").FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{
			"$set": bson.M{
				"name":         strings.TrimSpace(req.Name),
				"price":        req.Price,
				"description":  strings.TrimSpace(req.Description),
				"brand":        strings.TrimSpace(req.Brand),
				"countInStock": req.CountInStock,
				"updatedAt":    time.Now(),
			},
		}, options.FindOneAndUpdate().SetReturnDocument(options.After))

		var product models.Product
		if err := res.Decode(&product); err != nil {
			if err == mongo.ErrNoDocuments {
				c.JSON(http.StatusNotFound, gin.H{"message": "Product not found"})
				return
			}
			log.Println("[PRODUCT] [ERROR] update failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "db error"})
			return
		}

		c.JSON(http.StatusOK, product)
	}
}

func DeleteProduct(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "Product not found"})
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		res, err := db.Collection("products").DeleteOne(ctx, bson.M{"_id": id})
		if err != nil {
			log.Println("[PRODUCT] [ERROR] delete failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "db error"})
			return
		}
		if res.DeletedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"message": "Product not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Product removed"})
	}
}
