package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/oversight-cli/internal/core/domain"
)

// transportFailure classifies an error that produced no response.
// ctx is the caller's context, not the per-attempt one.
func transportFailure(ctx context.Context, err error) *domain.Failure {
	if isContextErr(ctx, err) && errors.Is(ctx.Err(), context.Canceled) {
		return &domain.Failure{Kind: domain.FailureNetwork, Message: domain.MessageNetwork, Err: ctx.Err()}
	}

	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return &domain.Failure{Kind: domain.FailureTimeout, Message: domain.MessageTimeout, Err: err}
	}
	return &domain.Failure{Kind: domain.FailureNetwork, Message: domain.MessageNetwork, Err: err}
}

// errorBody covers the envelope error member and the FastAPI detail forms.
type errorBody struct {
	Meta   domain.Meta       `json:"meta"`
	Error  *domain.ErrorBody `json:"error"`
	Detail json.RawMessage   `json:"detail"`
}

type validationDetail struct {
	Loc []any  `json:"loc"`
	Msg string `json:"msg"`
}

// responseFailure classifies an error response.
func (c *Client) responseFailure(resp *domain.Response, kind domain.RequestKind) *domain.Failure {
	var body errorBody
	_ = json.Unmarshal(resp.Body, &body)

	detail := detailMessage(body)
	f := domain.NewStatusFailure(resp.StatusCode, detail)
	if body.Error != nil {
		f.Code = body.Error.Code
		f.Target = body.Error.Target
		f.Details = body.Error.Details
	}
	f.RequestID = body.Meta.RequestID
	if f.RequestID == "" && resp.Header != nil {
		f.RequestID = resp.Header.Get("X-Request-Id")
	}

	if resp.Header != nil {
		f.RetryAfter = retryAfter(resp.Header.Get("Retry-After"))
	}

	if resp.StatusCode == http.StatusUnauthorized && kind == domain.RequestIdentity {
		f.Kind = domain.FailureNotSignedIn
		f.Message = domain.MessageNotSignedIn
	}
	return f
}

func detailMessage(body errorBody) string {
	if body.Error != nil && body.Error.Message != "" {
		return body.Error.Message
	}
	if len(body.Detail) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(body.Detail, &s); err == nil {
		return s
	}

	var items []validationDetail
	if err := json.Unmarshal(body.Detail, &items); err == nil && len(items) > 0 {
		parts := make([]string, 0, len(items))
		for _, it := range items {
			loc := make([]string, 0, len(it.Loc))
			for _, l := range it.Loc {
				loc = append(loc, fmt.Sprint(l))
			}
			parts = append(parts, strings.Join(loc, ".")+": "+it.Msg)
		}
		return strings.Join(parts, ", ")
	}
	return ""
}

// retryAfter parses a Retry-After header given in seconds or as an HTTP date.
func retryAfter(v string) time.Duration {
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	if at, err := http.ParseTime(v); err == nil {
		if d := time.Until(at); d > 0 {
			return d
		}
	}
	return 0
}
