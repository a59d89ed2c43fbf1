package api

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/oversight-cli/internal/core/domain"
)

const chatStream = `data: {"type":"llm_start","data":{}}

data: {"type":"tool_start","data":{"name":"list_apps"}}

data: {"type":"tool_end","data":{"name":"list_apps"}}

data: not json

data: {"type":"text","data":"You have "}

data: {"type":"text","data":"3 risky apps."}

data: {"type":"llm_end","data":{}}
`

func TestClient_Chat(t *testing.T) {
	m := &mockRequester{stream: chatStream}
	c := newTestClient(m)

	var reply domain.ChatReply
	var types []domain.ChatEventType
	err := c.Chat(context.Background(), "how risky are we?", func(ev domain.ChatEvent) error {
		types = append(types, ev.Type)
		reply.Append(ev)
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, []domain.ChatEventType{
		domain.ChatLLMStart, domain.ChatToolStart, domain.ChatToolEnd,
		domain.ChatText, domain.ChatText, domain.ChatLLMEnd,
	}, types)
	assert.Equal(t, "You have 3 risky apps.", reply.Content)
	assert.Equal(t, []string{"list_apps"}, reply.ToolsUsed)

	req := m.last()
	assert.True(t, req.Stream)
	assert.Equal(t, "/chat/", req.Path)
	assert.Equal(t, chatBody{Message: "how risky are we?"}, req.Body)
}

func TestClient_Chat_CallbackErrorStops(t *testing.T) {
	c := newTestClient(&mockRequester{stream: chatStream})
	stop := errors.New("stop")

	calls := 0
	err := c.Chat(context.Background(), "hi", func(domain.ChatEvent) error {
		calls++
		return stop
	})

	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 1, calls)
}

func TestDecodeEvents_TrailingEventWithoutBlankLine(t *testing.T) {
	var got []string
	err := decodeEvents(context.Background(), strings.NewReader(`data: {"type":"text","data":"tail"}`), func(ev domain.ChatEvent) error {
		got = append(got, ev.Text())
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"tail"}, got)
}

func TestDecodeEvents_IgnoresCommentsAndEventLines(t *testing.T) {
	input := ": keep-alive\nevent: message\ndata: {\"type\":\"text\",\"data\":\"x\"}\n\n"

	var got []domain.ChatEvent
	err := decodeEvents(context.Background(), strings.NewReader(input), func(ev domain.ChatEvent) error {
		got = append(got, ev)
		return nil
	})

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "x", got[0].Text())
}
