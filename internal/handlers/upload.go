package handlers

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const maxImageSize = 32 << 20

var allowedImageExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
}

// validateImageFilename checks the upload by filename extension only,
// content is not sniffed.
func validateImageFilename(filename string) error {
	extension := strings.ToLower(filepath.Ext(filename))
	if extension == "" {
		return fmt.Errorf("image file extension is required")
	}
	if _, ok := allowedImageExtensions[extension]; !ok {
		return fmt.Errorf("unsupported image type: %s", extension)
	}
	return nil
}

// UploadProductImage stores the raw image bytes on the product record.
func UploadProductImage(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "Product not found"})
			return
		}

		file, err := c.FormFile("image")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "image file is required"})
			return
		}

		if err := validateImageFilename(file.Filename); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}

		if file.Size > maxImageSize {
			c.JSON(http.StatusBadRequest, gin.H{"message": "image file too large"})
			return
		}

		src, err := file.Open()
		if err != nil {
			log.Println("[UPLOAD] [ERROR] open upload failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "upload failed"})
			return
		}
		defer src.Close()

		data, err := io.ReadAll(src)
		if err != nil {
			log.Println("[UPLOAD] [ERROR] read upload failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "upload failed"})
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		res, err := db.Collection("products").UpdateByID(ctx, productID, bson.M{
			"$set": bson.M{
				"image":     data,
				"updatedAt": time.Now(),
			},
		})
		if err != nil {
			log.Println("[UPLOAD] [ERROR] store image failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "db error"})
			return
		}
		if res.MatchedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"message": "Product not found"})
			return
		}

		log.Printf("[UPLOAD] [INFO] image stored for product %s (%d bytes)", productID.Hex(), len(data))
		c.JSON(http.StatusOK, gin.H{"message": "Image uploaded"})
	}
}

// GetProductImage streams the stored image bytes back. Content type is
// fixed, the bytes were stored verbatim.
func GetProductImage(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "Product not found"})
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		var product struct {
			Image []byte `bson:"image"`
		}
		if err := db.Collection("products").FindOne(ctx, bson.M{"_id": productID}).Decode(&product); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "Product not found"})
			return
		}
		if len(product.Image) == 0 {
			c.JSON(http.StatusNotFound, gin.H{"message": "Image not found"})
			return
		}

		c.Data(http.StatusOK, "image/png", product.Image)
	}
}
