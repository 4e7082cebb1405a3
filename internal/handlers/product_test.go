package handlers

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson"
)

func TestPageCount(t *testing.T) {
	tests := []struct {
		total int64
		want  int64
	}{
		{0, 0},
		{1, 1},
		{8, 1},
		{9, 2},
		{16, 2},
		{17, 3},
	}

	for _, tt := range tests {
		if got := pageCount(tt.total, productPageSize); got != tt.want {
			t.Fatalf("pageCount(%d) = %d, want %d", tt.total, got, tt.want)
		}
	}
}

func TestSearchFilterEmptyKeywordMatchesAll(t *testing.T) {
	filter := searchFilter("  ")
	if len(filter) != 0 {
		t.Fatalf("expected empty filter, got %v", filter)
	}
}

func TestSearchFilterCaseInsensitiveNameMatch(t *testing.T) {
	filter := searchFilter("abc")

	name, ok := filter["name"].(bson.M)
	if !ok {
		t.Fatalf("expected name filter, got %v", filter)
	}
	if name["$regex"] != "abc" {
		t.Fatalf("expected regex abc, got %v", name["$regex"])
	}
	if name["$options"] != "i" {
		t.Fatalf("expected case-insensitive option, got %v", name["$options"])
	}
}

func TestSearchFilterEscapesRegexMetacharacters(t *testing.T) {
	filter := searchFilter("c++")

	name := filter["name"].(bson.M)
	if name["$regex"] == "c++" {
		t.Fatal("expected regex metacharacters to be escaped")
	}
}

func TestParsePageNumberDefaultsToOne(t *testing.T) {
	tests := []string{"", "0", "-2", "abc"}
	for _, raw := range tests {
		if got := parsePageNumber(raw); got != 1 {
			t.Fatalf("parsePageNumber(%q) = %d, want 1", raw, got)
		}
	}
	if got := parsePageNumber("3"); got != 3 {
		t.Fatalf("parsePageNumber(3) = %d, want 3", got)
	}
}
