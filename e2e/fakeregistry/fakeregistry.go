// Package fakeregistry is a scripted stand-in for the GS1 registry used by
// the feature tests.
package fakeregistry

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"linkgateway/internal/registry"
)

// BasePath is the path prefix the gateway is configured with.
const BasePath = "/grp"

// Call is one request the registry received. Path has BasePath stripped.
type Call struct {
	Method string
	Path   string
	Query  string
	APIKey string
	Body   string
}

// Server answers every request with the scripted status and body.
type Server struct {
	srv *httptest.Server

	mu       sync.Mutex
	calls    []Call
	status   int
	response string
}

// Start runs a registry that answers 200 {} until told otherwise.
func Start() *Server {
	s := &Server{status: http.StatusOK, response: `{}`}
	s.srv = httptest.NewServer(http.HandlerFunc(s.serve))
	return s
}

// BaseURL is the registry base URL including BasePath.
func (s *Server) BaseURL() string {
	return s.srv.URL + BasePath
}

// Close stops the server.
func (s *Server) Close() {
	s.srv.Close()
}

// Respond scripts the answer for subsequent requests.
func (s *Server) Respond(status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status, s.response = status, body
}

// Calls returns the requests received so far.
func (s *Server) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.calls...)
}

func (s *Server) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	s.mu.Lock()
	s.calls = append(s.calls, Call{
		Method: r.Method,
		Path:   strings.TrimPrefix(r.URL.Path, BasePath),
		Query:  r.URL.RawQuery,
		APIKey: r.Header.Get(registry.HeaderAPIKey),
		Body:   string(body),
	})
	status, response := s.status, s.response
	s.mu.Unlock()

	w.WriteHeader(status)
	_, _ = io.WriteString(w, response)
}
