// Package oauth provides the local redirect server used by browser sign-in
// and integration connects, plus browser helpers.
package oauth

import (
	"context"
	"errors"
	"fmt"
	"html"
	"net"
	"net/http"
	"os/exec"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Callback paths served by CallbackServer.
const (
	SignInPath      = "/callback"
	IntegrationPath = "/integrations/callback"
)

// ErrStateMismatch is returned when the callback state differs from the
// state the server was started with.
var ErrStateMismatch = errors.New("state mismatch")

// Result is what the browser redirect delivered.
type Result struct {
	// Code and State are set for a sign-in redirect carrying an
	// authorization code.
	Code  string
	State string
	// Completed is set when the backend finished the flow itself and only
	// redirected with success=true.
	Completed bool
	IsNewUser bool
	// ConnectionID is set for a successful integration redirect.
	ConnectionID int64
}

// CallbackServer receives OAuth redirects on localhost.
type CallbackServer struct {
	mu            sync.Mutex
	port          int
	expectedState string
	resultChan    chan Result
	errChan       chan error
	server        *http.Server
	listener      net.Listener
}

// NewCallbackServer creates a callback server. An empty expectedState
// disables the state check.
func NewCallbackServer(port int, expectedState string) *CallbackServer {
	return &CallbackServer{
		port:          port,
		expectedState: expectedState,
		resultChan:    make(chan Result, 1),
		errChan:       make(chan error, 1),
	}
}

// Router returns the callback routes.
func (s *CallbackServer) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get(SignInPath, s.handleSignIn)
	r.Get(IntegrationPath, s.handleIntegration)
	return r
}

// Start starts the callback server on the configured port.
// If port is 0, a random available port will be chosen.
func (s *CallbackServer) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.server = &http.Server{
		Handler:      s.Router(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	addr := fmt.Sprintf("127.0.0.1:%d", s.port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	s.listener = listener

	// Store the actual port (important when port was 0)
	if tcpAddr, ok := listener.Addr().(*net.TCPAddr); ok {
		s.port = tcpAddr.Port
	}

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.fail(err)
		}
	}()

	return nil
}

// handleSignIn processes the sign-in redirect.
func (s *CallbackServer) handleSignIn(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	if errParam := q.Get("error"); errParam != "" {
		s.reject(w, providerError(errParam, q.Get("error_message"), q.Get("error_description")))
		return
	}

	if q.Get("success") == "true" {
		s.deliver(w, Result{Completed: true, IsNewUser: q.Get("is_new_user") == "true"}, "Signed in")
		return
	}

	state := q.Get("state")
	if s.expectedState != "" && state != s.expectedState {
		s.reject(w, ErrStateMismatch)
		return
	}

	code := q.Get("code")
	if code == "" {
		s.reject(w, errors.New("no authorization code received"))
		return
	}

	s.deliver(w, Result{Code: code, State: state}, "Signed in")
}

// handleIntegration processes the redirect that ends an integration connect.
func (s *CallbackServer) handleIntegration(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	if errParam := q.Get("error"); errParam != "" {
		s.reject(w, providerError(errParam, q.Get("error_message"), q.Get("error_description")))
		return
	}
	if q.Get("success") != "true" {
		s.reject(w, errors.New("invalid callback response"))
		return
	}

	var id int64
	if raw := q.Get("connection_id"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			s.reject(w, fmt.Errorf("invalid connection_id %q", raw))
			return
		}
		id = parsed
	}

	s.deliver(w, Result{Completed: true, ConnectionID: id}, "Workspace connected")
}

func (s *CallbackServer) deliver(w http.ResponseWriter, result Result, title string) {
	select {
	case s.resultChan <- result:
	default:
	}
	writePage(w, http.StatusOK, title, "You can close this window and return to the terminal.")
}

func (s *CallbackServer) reject(w http.ResponseWriter, err error) {
	s.fail(err)
	writePage(w, http.StatusBadRequest, "Authorization failed", err.Error())
}

func (s *CallbackServer) fail(err error) {
	select {
	case s.errChan <- err:
	default:
	}
}

// Wait blocks until a redirect arrives or ctx is done.
func (s *CallbackServer) Wait(ctx context.Context) (*Result, error) {
	select {
	case result := <-s.resultChan:
		return &result, nil
	case err := <-s.errChan:
		return nil, err
	case <-ctx.Done():
		return nil, fmt.Errorf("waiting for authorization callback: %w", ctx.Err())
	}
}

// Stop shuts down the callback server.
func (s *CallbackServer) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.server.Shutdown(ctx)
	}
	return nil
}

// Port returns the port the server is listening on.
func (s *CallbackServer) Port() int {
	return s.port
}

// RedirectURI returns the sign-in redirect URI.
func (s *CallbackServer) RedirectURI() string {
	return fmt.Sprintf("http://localhost:%d%s", s.port, SignInPath)
}

// IntegrationRedirectURI returns the integration connect redirect URI.
func (s *CallbackServer) IntegrationRedirectURI() string {
	return fmt.Sprintf("http://localhost:%d%s", s.port, IntegrationPath)
}

func providerError(code, message, description string) error {
	if message == "" {
		message = description
	}
	if message == "" {
		return fmt.Errorf("oauth error: %s", code)
	}
	return fmt.Errorf("oauth error: %s - %s", code, message)
}

func writePage(w http.ResponseWriter, status int, title, message string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = fmt.Fprint(w, resultHTML(title, message))
}

func resultHTML(title, message string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <title>Oversight</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
               display: flex; justify-content: center; align-items: center;
               height: 100vh; margin: 0; background: #F7F8FA; }
        .card { text-align: center; background: white; padding: 48px 64px;
                border-radius: 12px; border: 1px solid #D5D8DE; }
        h1 { color: #1F2937; margin: 0 0 8px 0; font-size: 22px; }
        p { color: #6B7280; margin: 0; font-size: 15px; }
    </style>
</head>
<body>
    <div class="card">
        <h1>%s</h1>
        <p>%s</p>
    </div>
</body>
</html>`, html.EscapeString(title), html.EscapeString(message))
}

// OpenBrowser opens the default browser to the given URL.
func OpenBrowser(url string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}

	return cmd.Start()
}

// FindAvailablePort finds an available port in the given range.
func FindAvailablePort(startPort, endPort int) (int, error) {
	for port := startPort; port <= endPort; port++ {
		addr := fmt.Sprintf("127.0.0.1:%d", port)
		listener, err := net.Listen("tcp", addr)
		if err == nil {
			listener.Close()
			return port, nil
		}
	}
	return 0, fmt.Errorf("no available port in range %d-%d", startPort, endPort)
}
