package interpret

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"
)

// --- Mocks ---

type mockExtractor struct {
	response string
	err      error
	prompt   string
}

func (m *mockExtractor) Extract(_ context.Context, _, prompt string) (string, error) {
	m.prompt = prompt
	return m.response, m.err
}

// --- Tests ---

func TestParse_StructuredExtraction(t *testing.T) {
	me := &mockExtractor{response: `{
		"type": "search",
		"filters": {"location": "Berlin", "has_pets": true},
		"explanation": "Looking for pet owners in Berlin"
	}`}
	svc := New(me, zap.NewNop())

	parsed := svc.Parse(context.Background(), "who has pets in Berlin?")

	if parsed.Filters.Location != "Berlin" {
		t.Errorf("location = %q, want Berlin", parsed.Filters.Location)
	}
	if parsed.Filters.HasPets == nil || !*parsed.Filters.HasPets {
		t.Error("expected has_pets = true")
	}
	if parsed.Explanation != "Looking for pet owners in Berlin" {
		t.Errorf("unexpected explanation %q", parsed.Explanation)
	}
	if !strings.Contains(me.prompt, `"who has pets in Berlin?"`) {
		t.Error("prompt does not embed the query")
	}
}

func TestParse_CodeFencedPayload(t *testing.T) {
	me := &mockExtractor{response: "```json\n{\"type\":\"search\",\"filters\":{\"name\":\"John\"},\"explanation\":\"x\"}\n```"}
	svc := New(me, zap.NewNop())

	parsed := svc.Parse(context.Background(), "find John")

	if parsed.Filters.Name != "John" {
		t.Errorf("name = %q, want John", parsed.Filters.Name)
	}
}

func TestParse_NoExtractorFallsBack(t *testing.T) {
	svc := New(nil, zap.NewNop())

	parsed := svc.Parse(context.Background(), "find musicians")

	if parsed.Filters.Keyword != "find musicians" {
		t.Errorf("keyword = %q, want raw query", parsed.Filters.Keyword)
	}
	if parsed.Explanation != "simple keyword search for: find musicians" {
		t.Errorf("unexpected explanation %q", parsed.Explanation)
	}
}

func TestParse_ExtractorErrorFallsBack(t *testing.T) {
	me := &mockExtractor{err: errors.New("rate limited")}
	svc := New(me, zap.NewNop())

	parsed := svc.Parse(context.Background(), "find musicians")

	if parsed.Filters.Keyword != "find musicians" {
		t.Errorf("keyword = %q, want raw query", parsed.Filters.Keyword)
	}
}

func TestParse_ProviderTimeoutFallsBack(t *testing.T) {
	me := &mockExtractor{err: context.DeadlineExceeded}
	svc := New(me, zap.NewNop())

	parsed := svc.Parse(context.Background(), "find musicians")

	if parsed.Filters.Keyword != "find musicians" {
		t.Errorf("keyword = %q, want raw query", parsed.Filters.Keyword)
	}
	if parsed.Explanation != "simple keyword search for: find musicians" {
		t.Errorf("unexpected explanation %q", parsed.Explanation)
	}
}

func TestParse_MalformedJSONFallsBack(t *testing.T) {
	me := &mockExtractor{response: "Sure! Here are your filters: location=Berlin"}
	svc := New(me, zap.NewNop())

	parsed := svc.Parse(context.Background(), "people in Berlin")

	if parsed.Filters.Keyword != "people in Berlin" {
		t.Errorf("keyword = %q, want raw query", parsed.Filters.Keyword)
	}
	if parsed.Filters.IsEmpty() {
		t.Error("fallback spec should carry the keyword")
	}
}

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"{}", "{}"},
		{"```json\n{}\n```", "{}"},
		{"```\n{}\n```", "{}"},
		{"  {\"a\":1}  ", "{\"a\":1}"},
	}
	for _, tc := range tests {
		if got := stripCodeFence(tc.in); got != tc.want {
			t.Errorf("stripCodeFence(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
