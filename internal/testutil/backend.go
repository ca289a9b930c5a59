package testutil

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// BackendRequest is one request captured by FakeBackend.
type BackendRequest struct {
	Method string
	Path   string
	Query  string
	Body   string
}

// FakeBackend is an httptest server standing in for the scanning backend.
// Routes map "METHOD /path" to a status code and body.
type FakeBackend struct {
	*httptest.Server

	mu       sync.Mutex
	routes   map[string]fakeRoute
	Requests []BackendRequest
}

type fakeRoute struct {
	status int
	body   string
}

// NewFakeBackend starts a FakeBackend that is closed when t finishes.
func NewFakeBackend(t *testing.T) *FakeBackend {
	t.Helper()
	fb := &FakeBackend{routes: map[string]fakeRoute{}}
	fb.Server = httptest.NewServer(http.HandlerFunc(fb.serve))
	t.Cleanup(fb.Close)
	return fb
}

// Handle registers the response for method and path.
func (fb *FakeBackend) Handle(method, path string, status int, body string) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.routes[method+" "+path] = fakeRoute{status: status, body: body}
}

// RequestCount returns how many requests hit the backend.
func (fb *FakeBackend) RequestCount() int {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return len(fb.Requests)
}

// LastRequest returns the most recent request, or the zero value.
func (fb *FakeBackend) LastRequest() BackendRequest {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	if len(fb.Requests) == 0 {
		return BackendRequest{}
	}
	return fb.Requests[len(fb.Requests)-1]
}

func (fb *FakeBackend) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	fb.mu.Lock()
	fb.Requests = append(fb.Requests, BackendRequest{Method: r.Method, Path: r.URL.Path, Query: r.URL.RawQuery, Body: string(body)})
	route, ok := fb.routes[r.Method+" "+r.URL.Path]
	fb.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"detail":"Not Found"}`)
		return
	}
	w.WriteHeader(route.status)
	_, _ = io.WriteString(w, route.body)
}
