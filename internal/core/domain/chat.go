package domain

import "encoding/json"

// ChatEventType identifies a streamed assistant event.
type ChatEventType string

const (
	ChatText      ChatEventType = "text"
	ChatLLMStart  ChatEventType = "llm_start"
	ChatLLMEnd    ChatEventType = "llm_end"
	ChatToolStart ChatEventType = "tool_start"
	ChatToolEnd   ChatEventType = "tool_end"
)

// ChatEvent is a single event of a streamed assistant reply.
// Data is a JSON string for text events and an object for tool events.
type ChatEvent struct {
	Type ChatEventType   `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Text returns the text payload of a text event.
func (e ChatEvent) Text() string {
	var s string
	if err := json.Unmarshal(e.Data, &s); err != nil {
		return ""
	}
	return s
}

// ToolName returns the tool name of a tool_start event, or "tool".
func (e ChatEvent) ToolName() string {
	var obj struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(e.Data, &obj); err != nil || obj.Name == "" {
		return "tool"
	}
	return obj.Name
}

// ChatReply is the assembled assistant reply.
type ChatReply struct {
	ID      string
	Content string
	// ToolsUsed lists tool names in invocation order.
	ToolsUsed []string
}

// Append adds an event to the reply.
func (r *ChatReply) Append(e ChatEvent) {
	switch e.Type {
	case ChatText:
		r.Content += e.Text()
	case ChatToolStart:
		r.ToolsUsed = append(r.ToolsUsed, e.ToolName())
	}
}
