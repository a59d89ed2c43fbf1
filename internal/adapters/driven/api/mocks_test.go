package api

import (
	"context"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/custodia-labs/oversight-cli/internal/core/domain"
)

// mockRequester is a mock implementation of driven.Requester.
type mockRequester struct {
	mu       sync.Mutex
	requests []*domain.Request

	status int
	body   string
	stream string
	err    error
}

func (m *mockRequester) Do(_ context.Context, req *domain.Request) (*domain.Response, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()

	if m.err != nil {
		return nil, m.err
	}
	status := m.status
	if status == 0 {
		status = http.StatusOK
	}
	if req.Stream && m.stream != "" {
		return &domain.Response{StatusCode: status, Stream: io.NopCloser(strings.NewReader(m.stream))}, nil
	}
	return &domain.Response{StatusCode: status, Body: []byte(m.body)}, nil
}

func (m *mockRequester) last() *domain.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.requests) == 0 {
		return nil
	}
	return m.requests[len(m.requests)-1]
}
