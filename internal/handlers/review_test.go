package handlers

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/internal/models"
)

func makeReview(userID primitive.ObjectID, rating int) models.Review {
	return models.Review{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		Name:      "Reviewer",
		Rating:    rating,
		CreatedAt: time.Now(),
	}
}

func TestMeanRatingEmpty(t *testing.T) {
	if got := meanRating(nil); got != 0 {
		t.Fatalf("expected 0 for no reviews, got %v", got)
	}
}

func TestMeanRatingIsArithmeticMean(t *testing.T) {
	reviews := []models.Review{
		makeReview(primitive.NewObjectID(), 5),
		makeReview(primitive.NewObjectID(), 4),
		makeReview(primitive.NewObjectID(), 2),
	}
	want := (5.0 + 4.0 + 2.0) / 3.0
	if got := meanRating(reviews); got != want {
		t.Fatalf("expected mean %v, got %v", want, got)
	}
}

func TestHasReviewedMatchesByUser(t *testing.T) {
	userID := primitive.NewObjectID()
	reviews := []models.Review{
		makeReview(primitive.NewObjectID(), 3),
		makeReview(userID, 5),
	}

	if !hasReviewed(reviews, userID) {
		t.Fatal("expected hasReviewed to be true for an existing reviewer")
	}
	if hasReviewed(reviews, primitive.NewObjectID()) {
		t.Fatal("expected hasReviewed to be false for a new reviewer")
	}
}
