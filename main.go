package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/handlers"
	"storefront/internal/middleware"
)

func main() {
	config.Load()

	client, err := database.Connect(config.AppEnv.MongoURI)
	if err != nil {
		log.Fatal(err)
	}

	db := client.Database(config.AppEnv.DBName)
	log.Println("MongoDB connected to:", db.Name())

	if err := database.EnsureUserIndexes(db); err != nil {
		log.Printf("user index warning: %v", err)
	}
	if err := database.EnsureProductIndexes(db); err != nil {
		log.Printf("product index warning: %v", err)
	}
	if err := database.EnsureOrderIndexes(db); err != nil {
		log.Printf("order index warning: %v", err)
	}

	secret := config.AppEnv.JWTSecret
	tokenTTL := config.AppEnv.AccessTokenTTL

	auth := middleware.RequireAuth(db, secret)
	admin := middleware.AdminOnly()

	r := gin.Default()
	r.Use(cors.Default())
	r.Static("/uploads", "./uploads")

	r.GET("/api/config/paypal", handlers.GetPayPalConfig(config.AppEnv.PayPalClientID))

	products := r.Group("/api/products")
	{
		products.GET("", handlers.GetProducts(db))
		products.GET("/top", handlers.GetTopProducts(db))
		products.GET("/admin", auth, admin, handlers.GetProductsForAdmin(db))
		products.GET("/:id", handlers.GetProductByID(db))
		products.POST("", auth, admin, handlers.CreateProduct(db))
		products.PUT("/:id", auth, admin, handlers.UpdateProduct(db))
		products.DELETE("/:id", auth, admin, handlers.DeleteProduct(db))
		products.POST("/:id/reviews", auth, handlers.AddReview(db))
	}

	users := r.Group("/api/users")
	{
		users.POST("", handlers.Register(db, secret, tokenTTL))
		users.POST("/login", handlers.Login(db, secret, tokenTTL))
		users.GET("/profile-edit", auth, handlers.GetProfile())
		users.PUT("/profile-edit", auth, handlers.UpdateProfile(db, secret, tokenTTL))
		users.POST("/addtocart", auth, handlers.AddToCart(db))
		users.DELETE("/deletefromcart/:id", auth, handlers.RemoveFromCart(db))
		users.POST("/cleanthecart", auth, handlers.ClearCart(db))
		users.POST("/add_address", auth, handlers.UpdateAddress(db))
		users.GET("", auth, admin, handlers.GetUsers(db))
		users.GET("/:id", auth, admin, handlers.GetUserByID(db))
		users.PUT("/:id", auth, admin, handlers.UpdateUser(db))
		users.DELETE("/:id", auth, admin, handlers.DeleteUser(db))
	}

	orders := r.Group("/api/orders")
	{
		orders.POST("", auth, handlers.CreateOrder(db))
		orders.GET("/myorders", auth, handlers.GetMyOrders(db))
		orders.GET("/:id", auth, handlers.GetOrderByID(db))
		orders.PUT("/:id/pay", auth, handlers.MarkPaid(db))
		orders.PUT("/:id/deliver", auth, admin, handlers.MarkDelivered(db))
		orders.GET("", auth, admin, handlers.GetOrders(db))
	}

	upload := r.Group("/api/upload")
	{
		upload.POST("/:id", auth, admin, handlers.UploadProductImage(db))
		upload.GET("/products/:id/image", handlers.GetProductImage(db))
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"message": fmt.Sprintf("Not Found - %s", c.Request.URL.Path)})
	})

	log.Println("Server running on port", config.AppEnv.Port)
	if err := r.Run(":" + config.AppEnv.Port); err != nil {
		log.Fatal(err)
	}
}
