package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/oversight-cli/internal/core/domain"
)

func TestChatService_Ask(t *testing.T) {
	api := &mockChatAPI{events: []domain.ChatEvent{
		{Type: domain.ChatToolStart, Data: json.RawMessage(`{"name":"risk_summary"}`)},
		{Type: domain.ChatToolEnd, Data: json.RawMessage(`{}`)},
		{Type: domain.ChatText, Data: json.RawMessage(`"Two apps "`)},
		{Type: domain.ChatText, Data: json.RawMessage(`"are high risk."`)},
	}}
	service := NewChatService(api)

	var seen int
	reply, err := service.Ask(context.Background(), "  which apps are risky?  ", func(domain.ChatEvent) { seen++ })

	require.NoError(t, err)
	assert.Equal(t, "which apps are risky?", api.message)
	assert.Equal(t, "Two apps are high risk.", reply.Content)
	assert.Equal(t, []string{"risk_summary"}, reply.ToolsUsed)
	assert.NotEmpty(t, reply.ID)
	assert.Equal(t, 4, seen)
}

func TestChatService_Ask_Errors(t *testing.T) {
	service := NewChatService(&mockChatAPI{err: errors.New("stream broke")})

	_, err := service.Ask(context.Background(), "   ", nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = service.Ask(context.Background(), "hello", nil)
	assert.ErrorContains(t, err, "stream broke")
}
