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
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"

	"storefront/internal/models"
)

type registerRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type updateProfileRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type adminUpdateUserRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"isAdmin"`
}

// emailConflict reports whether a write failed on the unique email
// index. Duplicate registrations racing past the pre-insert count check
// land here and must still surface as a conflict.
func emailConflict(err error) bool {
	return mongo.IsDuplicateKeyError(err)
}

func Register(db *mongo.Database, jwtSecret string, tokenTTL time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req registerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "name, email and password are required"})
			return
		}

		email := strings.ToLower(strings.TrimSpace(req.Email))
		name := strings.TrimSpace(req.Name)
		if email == "" || name == "" || strings.TrimSpace(req.Password) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"message": "name, email and password are required"})
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		count, err := db.Collection("users").CountDocuments(ctx, bson.M{"email": email})
		if err != nil {
			log.Println("[USER] [ERROR] register lookup failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "db error"})
			return
		}
		if count > 0 {
			c.JSON(http.StatusConflict, gin.H{"message": "User already exists"})
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			log.Println("[USER] [ERROR] register password hash failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "password hash failed"})
			return
		}

		now := time.Now()
		user := models.User{
			Name:         name,
			Email:        email,
			PasswordHash: string(hash),
			Cart:         []models.CartItem{},
			CreatedAt:    now,
			UpdatedAt:    now,
		}

		res, err := db.Collection("users").InsertOne(ctx, user)
		if err != nil {
			if emailConflict(err) {
				c.JSON(http.StatusConflict, gin.H{"message": "User already exists"})
				return
			}
			log.Println("[USER] [ERROR] register insert failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "db error"})
			return
		}

		id, _ := res.InsertedID.(primitive.ObjectID)
		token, err := issueToken(id, email, jwtSecret, tokenTTL)
		if err != nil {
			log.Println("[USER] [ERROR] register token generation failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "token generation failed"})
			return
		}

		log.Println("[USER] [INFO] user registered:", email)
		c.JSON(http.StatusCreated, gin.H{
			"id":      id.Hex(),
			"name":    name,
			"email":   email,
			"isAdmin": false,
			"token":   token,
		})
	}
}

func Login(db *mongo.Database, jwtSecret string, tokenTTL time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "email and password are required"})
			return
		}

		email := strings.ToLower(strings.TrimSpace(req.Email))

		ctx, cancel := requestContext(c)
		defer cancel()

		var user models.User
		if err := db.Collection("users").FindOne(ctx, bson.M{"email": email}).Decode(&user); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid email or password"})
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid email or password"})
			return
		}

		token, err := issueToken(user.ID, user.Email, jwtSecret, tokenTTL)
		if err != nil {
			log.Println("[USER] [ERROR] login token generation failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "token generation failed"})
			return
		}

		log.Println("[USER] [INFO] user login succeeded:", user.Email)
		c.JSON(http.StatusOK, gin.H{
			"id":             user.ID.Hex(),
			"name":           user.Name,
			"email":          user.Email,
			"isAdmin":        user.IsAdmin,
			"cart":           user.Cart,
			"country":        user.Country,
			"city":           user.City,
			"streetAndHouse": user.StreetAndHouse,
			"postalCode":     user.PostalCode,
			"token":          token,
			"createdAt":      user.CreatedAt,
			"updatedAt":      user.UpdatedAt,
		})
	}
}

func GetProfile() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Not authorized, no token"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"id":             user.ID.Hex(),
			"name":           user.Name,
			"email":          user.Email,
			"isAdmin":        user.IsAdmin,
			"cart":           user.Cart,
			"country":        user.Country,
			"city":           user.City,
			"streetAndHouse": user.StreetAndHouse,
			"postalCode":     user.PostalCode,
			"createdAt":      user.CreatedAt,
			"updatedAt":      user.UpdatedAt,
		})
	}
}

func UpdateProfile(db *mongo.Database, jwtSecret string, tokenTTL time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Not authorized, no token"})
			return
		}

		var req updateProfileRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid body"})
			return
		}

		set := bson.M{"updatedAt": time.Now()}
		if name := strings.TrimSpace(req.Name); name != "" {
			user.Name = name
			set["name"] = name
		}
		if email := strings.ToLower(strings.TrimSpace(req.Email)); email != "" {
			user.Email = email
			set["email"] = email
		}
		if password := strings.TrimSpace(req.Password); password != "" {
			hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
			if err != nil {
				log.Println("[USER] [ERROR] profile password hash failed:", err)
				c.JSON(http.StatusInternalServerError, gin.H{"message": "password hash failed"})
				return
			}
			set["passwordHash"] = string(hash)
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		if _, err := db.Collection("users").UpdateByID(ctx, user.ID, bson.M{"$set": set}); err != nil {
			if emailConflict(err) {
				c.JSON(http.StatusConflict, gin.H{"message": "Email already in use"})
				return
			}
			log.Println("[USER] [ERROR] profile update failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "db error"})
			return
		}

		token, err := issueToken(user.ID, user.Email, jwtSecret, tokenTTL)
		if err != nil {
			log.Println("[USER] [ERROR] profile token generation failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "token generation failed"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"id":      user.ID.Hex(),
			"name":    user.Name,
			"email":   user.Email,
			"isAdmin": user.IsAdmin,
			"token":   token,
		})
	}
}

func GetUsers(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
		cursor, err := db.Collection("users").Find(ctx, bson.M{}, opts)
		if err != nil {
			log.Println("[USER] [ERROR] list users failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "db error"})
			return
		}
		defer cursor.Close(ctx)

		users := make([]models.User, 0)
		if err := cursor.All(ctx, &users); err != nil {
			log.Println("[USER] [ERROR] decode users failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "db error"})
			return
		}

		c.JSON(http.StatusOK, users)
	}
}

func GetUserByID(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid id"})
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		var user models.User
		if err := db.Collection("users").FindOne(ctx, bson.M{"_id": id}).Decode(&user); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
			return
		}

		c.JSON(http.StatusOK, user)
	}
}

func UpdateUser(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid id"})
			return
		}

		var req adminUpdateUserRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid body"})
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		var user models.User
		if err := db.Collection("users").FindOne(ctx, bson.M{"_id": id}).Decode(&user); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
			return
		}

		if name := strings.TrimSpace(req.Name); name != "" {
			user.Name = name
		}
		if email := strings.ToLower(strings.TrimSpace(req.Email)); email != "" {
			user.Email = email
		}
		user.IsAdmin = req.IsAdmin

		_, err = db.Collection("users").UpdateByID(ctx, id, bson.M{"$set": bson.M{
			"name":      user.Name,
			"email":     user.Email,
			"isAdmin":   user.IsAdmin,
			"updatedAt": time.Now(),
		}})
		if err != nil {
			log.Println("[USER] [ERROR] admin update failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "db error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"id":      user.ID.Hex(),
			"name":    user.Name,
			"email":   user.Email,
			"isAdmin": user.IsAdmin,
		})
	}
}

func DeleteUser(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid id"})
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		res, err := db.Collection("users").DeleteOne(ctx, bson.M{"_id": id})
		if err != nil {
			log.Println("[USER] [ERROR] delete failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "db error"})
			return
		}
		if res.DeletedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "User removed"})
	}
}
