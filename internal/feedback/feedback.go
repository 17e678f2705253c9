// Package feedback produces AI-generated analysis for diary entries by
// calling an external chat-completion API.
package feedback

import (
	"context"

	"github.com/inkwell-app/inkwell-diary/internal/model"
)

// Generator returns a structured analysis for the given diary text.
// Implementations make a single attempt; the creating request waits.
type Generator interface {
	Generate(ctx context.Context, content string) (*model.AIAnalysis, error)
}
