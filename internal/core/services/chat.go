package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/custodia-labs/oversight-cli/internal/core/domain"
	"github.com/custodia-labs/oversight-cli/internal/core/ports/driven"
	"github.com/custodia-labs/oversight-cli/internal/core/ports/driving"
)

// Ensure ChatService implements the interface.
var _ driving.ChatService = (*ChatService)(nil)

// ChatService asks the workspace assistant questions.
type ChatService struct {
	api driven.ChatAPI
}

// NewChatService creates a new chat service.
func NewChatService(api driven.ChatAPI) *ChatService {
	return &ChatService{api: api}
}

// Ask streams the reply to onEvent and returns it assembled.
func (s *ChatService) Ask(ctx context.Context, message string, onEvent func(domain.ChatEvent)) (*domain.ChatReply, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, fmt.Errorf("message is required: %w", domain.ErrInvalidInput)
	}

	reply := &domain.ChatReply{ID: uuid.NewString()}
	err := s.api.Chat(ctx, message, func(ev domain.ChatEvent) error {
		reply.Append(ev)
		if onEvent != nil {
			onEvent(ev)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("chat: %w", err)
	}
	return reply, nil
}
