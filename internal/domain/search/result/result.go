// Package result holds search hit and method types.
package result

// Method names the strategy that produced a set of results.
type Method string

const (
	// MethodVector marks results produced by nearest-neighbor retrieval.
	MethodVector Method = "vector_search"
	// MethodDatabase marks results produced by the structured predicate path.
	MethodDatabase Method = "database"
)

// DatabaseScore is the flat score assigned to every structured-path result.
// It deliberately sits inside the [0,1] similarity scale to read as a
// confident non-ranked match.
const DatabaseScore = 0.8

// DatabaseReason is the fixed match reason for structured-path results.
const DatabaseReason = "database query match"

// Hit is a single search hit before hydration.
type Hit struct {
	contactID   int64
	score       float64
	matchedText string
	metadata    map[string]string
}

// New creates a search hit.
func New(contactID int64, score float64, matchedText string, metadata map[string]string) Hit {
	return Hit{contactID: contactID, score: score, matchedText: matchedText, metadata: metadata}
}

// ContactID returns the matched contact's identifier.
func (h *Hit) ContactID() int64 { return h.contactID }

// Score returns the similarity score in [0,1].
func (h *Hit) Score() float64 { return h.score }

// MatchedText returns the indexed text the hit matched against.
func (h *Hit) MatchedText() string { return h.matchedText }

// Metadata returns the metadata stored alongside the vector.
func (h *Hit) Metadata() map[string]string { return h.metadata }
