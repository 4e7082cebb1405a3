package handlers

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestIssueTokenRoundTrip(t *testing.T) {
	userID := primitive.NewObjectID()
	secret := "test-secret"

	signed, err := issueToken(userID, "user@example.com", secret, time.Hour)
	if err != nil {
		t.Fatalf("issueToken returned error: %v", err)
	}

	token, err := jwt.Parse(signed, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil {
		t.Fatalf("expected token to verify, got err=%v", err)
	}
	if !token.Valid {
		t.Fatal("expected token to be valid")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		t.Fatal("expected MapClaims")
	}
	if claims["userId"] != userID.Hex() {
		t.Fatalf("expected userId %s, got %v", userID.Hex(), claims["userId"])
	}
	if claims["email"] != "user@example.com" {
		t.Fatalf("expected email claim, got %v", claims["email"])
	}
}

func TestIssueTokenExpiredIsRejected(t *testing.T) {
	userID := primitive.NewObjectID()
	secret := "test-secret"

	signed, err := issueToken(userID, "user@example.com", secret, -time.Minute)
	if err != nil {
		t.Fatalf("issueToken returned error: %v", err)
	}

	token, err := jwt.Parse(signed, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err == nil && token.Valid {
		t.Fatal("expected expired token to be rejected")
	}
}

func TestIssueTokenWrongSecretIsRejected(t *testing.T) {
	signed, err := issueToken(primitive.NewObjectID(), "user@example.com", "secret-a", time.Hour)
	if err != nil {
		t.Fatalf("issueToken returned error: %v", err)
	}

	token, err := jwt.Parse(signed, func(t *jwt.Token) (interface{}, error) {
		return []byte("secret-b"), nil
	})
	if err == nil && token.Valid {
		t.Fatal("expected token signed with another secret to be rejected")
	}
}
