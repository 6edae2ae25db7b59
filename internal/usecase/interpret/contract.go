package interpret

import "context"

// Extractor turns a prompt into raw model output text.
type Extractor interface {
	Extract(ctx context.Context, system, prompt string) (string, error)
}
