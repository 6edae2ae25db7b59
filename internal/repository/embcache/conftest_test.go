package embcache

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/halcyon-cloud/contactdex/internal/domain"
)

// mockKV implements the consumer store interface for tests.
type mockKV struct {
	getFn func(ctx context.Context, key string) ([]byte, error)
	setFn func(ctx context.Context, key string, value []byte) error
}

func (m *mockKV) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	return nil, nil
}

func (m *mockKV) Set(ctx context.Context, key string, value []byte) error {
	if m.setFn != nil {
		return m.setFn(ctx, key, value)
	}
	return nil
}

// mockEmbedder is a canned inner embedder.
type mockEmbedder struct {
	result domain.EmbeddingResult
	err    error
	calls  int
}

func (m *mockEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	m.calls++
	return m.result, m.err
}

// mockCheckedEmbedder also reports backend liveness.
type mockCheckedEmbedder struct {
	mockEmbedder
	healthErr    error
	healthChecks int
}

func (m *mockCheckedEmbedder) HealthCheck(_ context.Context) error {
	m.healthChecks++
	return m.healthErr
}

func newTestCachedEmbedder(t *testing.T, inner domain.Embedder) (*CachedEmbedder, *mockKV) {
	t.Helper()
	ms := &mockKV{}
	return New(inner, ms, nil, zap.NewNop()), ms
}
