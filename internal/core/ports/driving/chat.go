package driving

import (
	"context"

	"github.com/custodia-labs/oversight-cli/internal/core/domain"
)

// ChatService asks the workspace assistant questions.
type ChatService interface {
	// Ask streams the reply to onEvent (may be nil) and returns it assembled.
	Ask(ctx context.Context, message string, onEvent func(domain.ChatEvent)) (*domain.ChatReply, error)
}
