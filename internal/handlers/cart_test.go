package handlers

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestRemoveCartItemFilterAddressesEmbeddedLine(t *testing.T) {
	userID := primitive.NewObjectID()
	itemID := primitive.NewObjectID()

	filter := removeCartItemFilter(userID, itemID)

	if filter["_id"] != userID {
		t.Fatalf("expected filter on user id %s, got %v", userID.Hex(), filter["_id"])
	}
	// Matching on the embedded line id is what lets MatchedCount report
	// a line that was never in the cart.
	if filter["cart._id"] != itemID {
		t.Fatalf("expected filter on cart._id %s, got %v", itemID.Hex(), filter["cart._id"])
	}
}

func TestRemoveCartItemUpdatePullsOnlyTargetLine(t *testing.T) {
	itemID := primitive.NewObjectID()

	update := removeCartItemUpdate(itemID)

	pull, ok := update["$pull"].(bson.M)
	if !ok {
		t.Fatalf("expected $pull in update, got %v", update)
	}
	line, ok := pull["cart"].(bson.M)
	if !ok {
		t.Fatalf("expected cart pull condition, got %v", pull)
	}
	if line["_id"] != itemID {
		t.Fatalf("expected pull by line id %s, got %v", itemID.Hex(), line["_id"])
	}

	set, ok := update["$set"].(bson.M)
	if !ok {
		t.Fatalf("expected $set in update, got %v", update)
	}
	if _, ok := set["updatedAt"]; !ok {
		t.Fatal("expected updatedAt to be refreshed")
	}
}
