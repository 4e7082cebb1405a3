package handlers

import (
	"errors"
	"net/http"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestBuildOrderItemsRejectsEmptyList(t *testing.T) {
	if _, err := buildOrderItems(nil); err == nil {
		t.Fatal("expected error for empty item list")
	}
}

func TestBuildOrderItemsRejectsInvalidProductID(t *testing.T) {
	items := []createOrderItemRequest{
		{ProductID: "not-an-id", Qty: 1},
	}
	if _, err := buildOrderItems(items); err == nil {
		t.Fatal("expected error for invalid productId")
	}
}

func TestBuildOrderItemsRejectsNonPositiveQty(t *testing.T) {
	items := []createOrderItemRequest{
		{ProductID: primitive.NewObjectID().Hex(), Qty: 0},
	}
	if _, err := buildOrderItems(items); err == nil {
		t.Fatal("expected error for zero qty")
	}
}

func TestOrderUpdateErrorVanishedOrderIsNotFound(t *testing.T) {
	status, message := orderUpdateError(mongo.ErrNoDocuments)
	if status != http.StatusNotFound {
		t.Fatalf("expected 404 for a vanished order, got %d", status)
	}
	if message != "Order not found" {
		t.Fatalf("expected order not found message, got %q", message)
	}
}

func TestOrderUpdateErrorOtherFailuresAreInternal(t *testing.T) {
	status, message := orderUpdateError(errors.New("connection reset"))
	if status != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", status)
	}
	if message != "db error" {
		t.Fatalf("expected db error message, got %q", message)
	}
}

func TestBuildOrderItemsKeepsSnapshotFields(t *testing.T) {
	productID := primitive.NewObjectID()
	items, err := buildOrderItems([]createOrderItemRequest{
		{ProductID: productID.Hex(), Name: " Keyboard ", Qty: 2, Price: 49.9},
	})
	if err != nil {
		t.Fatalf("buildOrderItems returned error: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if items[0].ProductID != productID {
		t.Fatalf("expected productId %s, got %s", productID.Hex(), items[0].ProductID.Hex())
	}
	if items[0].Name != "Keyboard" {
		t.Fatalf("expected trimmed name, got %q", items[0].Name)
	}
	if items[0].Qty != 2 || items[0].Price != 49.9 {
		t.Fatalf("expected qty=2 price=49.9, got %+v", items[0])
	}
}
