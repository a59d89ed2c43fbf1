package api

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/custodia-labs/oversight-cli/internal/core/domain"
	"github.com/custodia-labs/oversight-cli/internal/logger"
)

const pathChat = "/chat/"

// maxEventSize bounds a single streamed event.
const maxEventSize = 1 << 20

type chatBody struct {
	Message string `json:"message"`
}

// Chat sends message to the assistant and calls fn for every streamed event.
// Events that cannot be parsed are skipped. A non-nil error from fn stops
// the stream and is returned.
func (c *Client) Chat(ctx context.Context, message string, fn func(domain.ChatEvent) error) error {
	resp, err := c.call(ctx, &domain.Request{
		Method: http.MethodPost,
		Path:   pathChat,
		Body:   chatBody{Message: message},
		Stream: true,
	})
	if err != nil {
		return err
	}
	if resp.Stream == nil {
		return decodeEvents(ctx, bytes.NewReader(resp.Body), fn)
	}
	defer resp.Stream.Close()
	return decodeEvents(ctx, resp.Stream, fn)
}

// decodeEvents reads "data: {json}" server-sent events separated by blank lines.
func decodeEvents(ctx context.Context, r io.Reader, fn func(domain.ChatEvent) error) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxEventSize)

	var payload []string
	flush := func() error {
		if len(payload) == 0 {
			return nil
		}
		data := strings.Join(payload, "\n")
		payload = payload[:0]

		var ev domain.ChatEvent
		if err := json.Unmarshal([]byte(data), &ev); err != nil || ev.Type == "" {
			logger.From(ctx).Debug("chat: skipping unparsable event", "data", data)
			return nil
		}
		return fn(ev)
	}

	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case line == "":
			if err := flush(); err != nil {
				return err
			}
		case strings.HasPrefix(line, "data:"):
			payload = append(payload, strings.TrimPrefix(strings.TrimPrefix(line, "data:"), " "))
		}
	}
	if err := scanner.Err(); err != nil {
		if ctx.Err() != nil {
			return waitFailure(ctx.Err())
		}
		return &domain.Failure{Kind: domain.FailureNetwork, Message: domain.MessageNetwork, Err: fmt.Errorf("reading chat stream: %w", err)}
	}
	return flush()
}
