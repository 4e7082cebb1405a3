package handlers

import (
	"errors"
	"fmt"
	"testing"

	"go.mongodb.org/mongo-driver/mongo"
)

func TestEmailConflictDetectsDuplicateKeyWrite(t *testing.T) {
	err := mongo.WriteException{
		WriteErrors: mongo.WriteErrors{
			{Code: 11000, Message: "E11000 duplicate key error collection: storefront.users index: email_unique"},
		},
	}

	if !emailConflict(err) {
		t.Fatal("expected a unique index violation to be reported as a conflict")
	}
}

func TestEmailConflictWrappedDuplicateKey(t *testing.T) {
	inner := mongo.WriteException{
		WriteErrors: mongo.WriteErrors{{Code: 11000}},
	}

	if !emailConflict(fmt.Errorf("insert failed: %w", inner)) {
		t.Fatal("expected a wrapped unique index violation to be reported as a conflict")
	}
}

func TestEmailConflictIgnoresOtherErrors(t *testing.T) {
	tests := []error{
		nil,
		errors.New("connection reset"),
		mongo.WriteException{WriteErrors: mongo.WriteErrors{{Code: 121}}},
	}

	for _, err := range tests {
		if emailConflict(err) {
			t.Fatalf("expected %v not to be reported as a conflict", err)
		}
	}
}
