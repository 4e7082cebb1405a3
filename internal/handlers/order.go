package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"storefront/internal/models"
)

type createOrderItemRequest struct {
	ProductID string  `json:"productId" binding:"required"`
	Name      string  `json:"name"`
	Qty       int     `json:"qty" binding:"required"`
	Price     float64 `json:"price"`
}

type createOrderRequest struct {
	OrderItems      []createOrderItemRequest `json:"orderItems"`
	ShippingAddress models.ShippingAddress   `json:"shippingAddress"`
	TotalPrice      float64                  `json:"totalPrice"`
}

type paymentResultRequest struct {
	ID           string `json:"id"`
	Status       string `json:"status"`
	UpdateTime   string `json:"updateTime"`
	EmailAddress string `json:"emailAddress"`
}

// orderUpdateError maps a failed status-update decode to the response
// status and message. The order can vanish between the ownership read
// and the update, which must still surface as not found.
func orderUpdateError(err error) (int, string) {
	if err == mongo.ErrNoDocuments {
		return http.StatusNotFound, "Order not found"
	}
	return http.StatusInternalServerError, "db error"
}

// orderOwner is the public identity attached to order responses.
type orderOwner struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email,omitempty"`
	IsAdmin *bool  `json:"isAdmin,omitempty"`
}

func buildOrderItems(items []createOrderItemRequest) ([]models.OrderItem, error) {
	if len(items) == 0 {
		return nil, errors.New("no order items")
	}

	out := make([]models.OrderItem, 0, len(items))
	for _, item := range items {
		productID, err := primitive.ObjectIDFromHex(strings.TrimSpace(item.ProductID))
		if err != nil {
			return nil, errors.New("invalid productId")
		}
		if item.Qty <= 0 {
			return nil, errors.New("qty must be greater than zero")
		}
		out = append(out, models.OrderItem{
			ProductID: productID,
			Name:      strings.TrimSpace(item.Name),
			Qty:       item.Qty,
			Price:     item.Price,
		})
	}
	return out, nil
}

func CreateOrder(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Not authorized, no token"})
			return
		}

		var req createOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid body"})
			return
		}

		items, err := buildOrderItems(req.OrderItems)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}

		now := time.Now()
		order := models.Order{
			UserID:          user.ID,
			OrderItems:      items,
			ShippingAddress: req.ShippingAddress,
			TotalPrice:      req.TotalPrice,
			CreatedAt:       now,
			UpdatedAt:       now,
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		res, err := db.Collection("orders").InsertOne(ctx, order)
		if err != nil {
			log.Println("[ORDER] [ERROR] create failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "db error"})
			return
		}

		order.ID, _ = res.InsertedID.(primitive.ObjectID)
		log.Println("[ORDER] [INFO] order created for user:", user.ID.Hex())
		c.JSON(http.StatusCreated, order)
	}
}

func GetOrderByID(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "Order not found"})
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		var order models.Order
		if err := db.Collection("orders").FindOne(ctx, bson.M{"_id": id}).Decode(&order); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "Order not found"})
			return
		}

		var owner *orderOwner
		var purchaser models.User
		if err := db.Collection("users").FindOne(ctx, bson.M{"_id": order.UserID}).Decode(&purchaser); err == nil {
			isAdmin := purchaser.IsAdmin
			owner = &orderOwner{
				ID:      purchaser.ID.Hex(),
				Name:    purchaser.Name,
				Email:   purchaser.Email,
				IsAdmin: &isAdmin,
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"order": order,
			"user":  owner,
		})
	}
}

// MarkPaid records the payment metadata supplied by the payment
// provider callback. Only the purchaser or an admin may flip the flag.
func MarkPaid(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Not authorized, no token"})
			return
		}

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "Order not found"})
			return
		}

		var req paymentResultRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid body"})
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		var order models.Order
		if err := db.Collection("orders").FindOne(ctx, bson.M{"_id": id}).Decode(&order); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "Order not found"})
			return
		}

		if order.UserID != user.ID && !user.IsAdmin {
			c.JSON(http.StatusForbidden, gin.H{"message": "Not authorized to pay this order"})
			return
		}

		now := time.Now()
		res := db.Collection("orders").FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{
			"$set": bson.M{
				"isPaid": true,
				"paidAt": now,
				"paymentResult": models.PaymentResult{
					ID:           req.ID,
					Status:       req.Status,
					UpdateTime:   req.UpdateTime,
					EmailAddress: req.EmailAddress,
				},
				"updatedAt": now,
			},
		}, options.FindOneAndUpdate().SetReturnDocument(options.After))

		if err := res.Decode(&order); err != nil {
			log.Println("[ORDER] [ERROR] mark paid failed:", err)
			status, message := orderUpdateError(err)
			c.JSON(status, gin.H{"message": message})
			return
		}

		log.Println("[ORDER] [INFO] order marked paid:", id.Hex())
		c.JSON(http.StatusOK, order)
	}
}

// MarkDelivered sets the delivered flag. Independent of payment state.
func MarkDelivered(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "Order not found"})
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		now := time.Now()
		res := db.Collection("orders").FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{
			"$set": bson.M{
				"isDelivered": true,
				"deliveredAt": now,
				"updatedAt":   now,
			},
		}, options.FindOneAndUpdate().SetReturnDocument(options.After))

		var order models.Order
		if err := res.Decode(&order); err != nil {
			log.Println("[ORDER] [ERROR] mark delivered failed:", err)
			status, message := orderUpdateError(err)
			c.JSON(status, gin.H{"message": message})
			return
		}

		log.Println("[ORDER] [INFO] order marked delivered:", id.Hex())
		c.JSON(http.StatusOK, order)
	}
}

func GetMyOrders(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Not authorized, no token"})
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		cursor, err := db.Collection("orders").Find(ctx, bson.M{"userId": user.ID})
		if err != nil {
			log.Println("[ORDER] [ERROR] list own failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "db error"})
			return
		}
		defer cursor.Close(ctx)

		orders := make([]models.Order, 0)
		if err := cursor.All(ctx, &orders); err != nil {
			log.Println("[ORDER] [ERROR] decode failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "db error"})
			return
		}

		c.JSON(http.StatusOK, orders)
	}
}

// GetOrders lists every order for the admin screen, newest first, each
// annotated with the purchaser's id and name.
func GetOrders(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
		cursor, err := db.Collection("orders").Find(ctx, bson.M{}, opts)
		if err != nil {
			log.Println("[ORDER] [ERROR] list all failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "db error"})
			return
		}
		defer cursor.Close(ctx)

		orders := make([]models.Order, 0)
		if err := cursor.All(ctx, &orders); err != nil {
			log.Println("[ORDER] [ERROR] decode failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "db error"})
			return
		}

		ownerIDs := make([]primitive.ObjectID, 0, len(orders))
		seen := map[primitive.ObjectID]struct{}{}
		for _, order := range orders {
			if _, ok := seen[order.UserID]; ok {
				continue
			}
			seen[order.UserID] = struct{}{}
			ownerIDs = append(ownerIDs, order.UserID)
		}

		ownerByID := make(map[primitive.ObjectID]models.User, len(ownerIDs))
		if len(ownerIDs) > 0 {
			userCursor, err := db.Collection("users").Find(ctx, bson.M{"_id": bson.M{"$in": ownerIDs}})
			if err != nil {
				log.Println("[ORDER] [ERROR] purchaser lookup failed:", err)
				c.JSON(http.StatusInternalServerError, gin.H{"message": "db error"})
				return
			}
			defer userCursor.Close(ctx)

			users := make([]models.User, 0, len(ownerIDs))
			if err := userCursor.All(ctx, &users); err != nil {
				log.Println("[ORDER] [ERROR] purchaser decode failed:", err)
				c.JSON(http.StatusInternalServerError, gin.H{"message": "db error"})
				return
			}
			for _, u := range users {
				ownerByID[u.ID] = u
			}
		}

		annotated := make([]gin.H, 0, len(orders))
		for _, order := range orders {
			var owner *orderOwner
			if u, ok := ownerByID[order.UserID]; ok {
				owner = &orderOwner{ID: u.ID.Hex(), Name: u.Name}
			}
			annotated = append(annotated, gin.H{
				"order": order,
				"user":  owner,
			})
		}

		c.JSON(http.StatusOK, annotated)
	}
}
