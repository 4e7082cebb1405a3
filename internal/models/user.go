package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CartItem is a denormalized snapshot of a product taken at add-to-cart
// time. Duplicate product+size lines are allowed; each line carries its
// own id so it can be removed individually.
type CartItem struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	ProductID primitive.ObjectID `bson:"productId" json:"productId"`
	Name      string             `bson:"name" json:"name"`
	Price     float64            `bson:"price" json:"price"`
	Size      int                `bson:"size" json:"size"`
	Qty       int                `bson:"qty" json:"qty"`
}

// User represents the application user account. The password hash is
// never serialized to JSON.
type User struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name           string             `bson:"name" json:"name"`
	Email          string             `bson:"email" json:"email"`
	PasswordHash   string             `bson:"passwordHash" json:"-"`
	IsAdmin        bool               `bson:"isAdmin" json:"isAdmin"`
	Country        string             `bson:"country,omitempty" json:"country,omitempty"`
	City           string             `bson:"city,omitempty" json:"city,omitempty"`
	StreetAndHouse string             `bson:"streetAndHouse,omitempty" json:"streetAndHouse,omitempty"`
	PostalCode     string             `bson:"postalCode,omitempty" json:"postalCode,omitempty"`
	Cart           []CartItem         `bson:"cart" json:"cart"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
}
