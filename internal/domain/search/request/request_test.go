package request

import (
	"strings"
	"testing"
)

func TestNewDefaults(t *testing.T) {
	r, err := New("who has pets", 0, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if r.Limit() != DefaultLimit {
		t.Errorf("limit = %d, want %d", r.Limit(), DefaultLimit)
	}
	if !r.UseVectorSearch() {
		t.Error("vector search should default to enabled")
	}
}

func TestNewValidation(t *testing.T) {
	if _, err := New("", 10, nil); err == nil {
		t.Error("empty query should fail")
	}
	if _, err := New(strings.Repeat("q", MaxQueryLength+1), 10, nil); err == nil {
		t.Error("oversized query should fail")
	}
}

func TestNewClampsLimit(t *testing.T) {
	r, err := New("q", MaxLimit+50, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if r.Limit() != MaxLimit {
		t.Errorf("limit = %d, want %d", r.Limit(), MaxLimit)
	}
}

func TestNewVectorSearchOverride(t *testing.T) {
	off := false
	r, err := New("q", 5, &off)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if r.UseVectorSearch() {
		t.Error("vector search should be disabled")
	}
}
