package redis

import (
	"strings"
	"testing"

	"github.com/halcyon-cloud/contactdex/internal/db"
)

func TestVectorBlobRoundTrip(t *testing.T) {
	vec := []float32{0.1, -2.5, 0, 42.42}

	blob := VectorToBlob(vec)
	if len(blob) != len(vec)*4 {
		t.Fatalf("blob length = %d, want %d", len(blob), len(vec)*4)
	}

	back, err := BlobToVector(blob)
	if err != nil {
		t.Fatalf("BlobToVector: %v", err)
	}
	if len(back) != len(vec) {
		t.Fatalf("decoded length = %d, want %d", len(back), len(vec))
	}
	for i := range vec {
		if back[i] != vec[i] {
			t.Errorf("element %d = %v, want %v", i, back[i], vec[i])
		}
	}
}

func TestBlobToVectorRejectsTruncated(t *testing.T) {
	if _, err := BlobToVector("abc"); err == nil {
		t.Error("truncated blob should fail")
	}
}

func TestBuildCreateArgsVectorIndex(t *testing.T) {
	def, err := db.NewIndex("contactdex:contacts:idx").
		Prefix("contactdex:contacts:").
		Numeric("contact_id").
		VectorHNSW("vector", 8, db.DistanceCosine, 32, 400).
		Build()
	if err != nil {
		t.Fatalf("index def: %v", err)
	}

	args, err := buildCreateArgs(def)
	if err != nil {
		t.Fatalf("buildCreateArgs: %v", err)
	}

	joined := strings.Join(args, " ")
	for _, want := range []string{
		"ON HASH",
		"PREFIX 1 contactdex:contacts:",
		"contact_id NUMERIC",
		"VECTOR HNSW",
		"DIM 8",
		"DISTANCE_METRIC COSINE",
		"M 32",
		"EF_CONSTRUCTION 400",
	} {
		if !strings.Contains(joined, want) {
			t.Errorf("args missing %q in %q", want, joined)
		}
	}
}
