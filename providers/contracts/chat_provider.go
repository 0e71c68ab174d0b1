package contracts

import (
	"context"

	"github.com/askdir/askdir/providers/models"
)

// IChatAIProvider sends a full ordered conversation to a language model and
// streams the reply back over the returned channel. The channel is closed
// after a terminal StreamResponse (Done or Err) has been sent, so callers
// can treat one request as a single opaque call by draining the channel.
type IChatAIProvider interface {
	ChatCompletionRequest(ctx context.Context, messages []models.ChatMessage) <-chan models.StreamResponse
}
