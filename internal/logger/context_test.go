package logger

import (
	"context"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestFromContext_RoundTrip(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	stored := zap.New(core)

	ctx := ContextWithLogger(context.Background(), stored)
	FromContext(ctx).Info("hello")

	if logs.Len() != 1 {
		t.Fatalf("log entries = %d, want 1", logs.Len())
	}
	if logs.All()[0].Message != "hello" {
		t.Errorf("message = %q", logs.All()[0].Message)
	}
}

func TestFromContext_MissingReturnsNop(t *testing.T) {
	l := FromContext(context.Background())
	if l == nil {
		t.Fatal("expected a non-nil logger")
	}
	// Must not panic.
	l.Info("discarded")
}
