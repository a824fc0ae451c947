package elasticsearch

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopgrove/marketplace/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeElasticsearch records index requests. The product header is required
// for the official client to accept responses.
type fakeElasticsearch struct {
	mu       sync.Mutex
	requests []indexedRequest
	status   int
}

type indexedRequest struct {
	path string
	body map[string]interface{}
}

func (f *fakeElasticsearch) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")

		body, _ := io.ReadAll(r.Body)
		var doc map[string]interface{}
		_ = json.Unmarshal(body, &doc)

		f.mu.Lock()
		f.requests = append(f.requests, indexedRequest{path: r.URL.Path, body: doc})
		f.mu.Unlock()

		status := f.status
		if status == 0 {
			status = http.StatusCreated
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{"result":"created"}`))
	})
}

func (f *fakeElasticsearch) recorded() []indexedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]indexedRequest(nil), f.requests...)
}

func newTestSink(t *testing.T, fake *fakeElasticsearch) *Sink {
	t.Helper()

	server := httptest.NewServer(fake.handler())
	t.Cleanup(server.Close)

	sink, err := NewSink(Config{
		Addresses:        []string{server.URL},
		LoginIndex:       "login-logs",
		ProductViewIndex: "product-views",
	})
	require.NoError(t, err)
	return sink
}

func TestSink_IndexesLoginEvent(t *testing.T) {
	fake := &fakeElasticsearch{}
	sink := newTestSink(t, fake)

	now := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	err := sink.Index(context.Background(), domain.AuditEvent{
		Kind:      domain.AuditEventLogin,
		Timestamp: now,
		UserID:    "user-1",
		Payload: map[string]interface{}{
			"status":  200,
			"message": "login successful",
			"email":   "a@example.com",
			"counter": 3,
		},
	})
	require.NoError(t, err)

	requests := fake.recorded()
	require.Len(t, requests, 1)
	assert.True(t, strings.HasPrefix(requests[0].path, "/login-logs/"), "unexpected path %s", requests[0].path)

	doc := requests[0].body
	assert.Equal(t, "user-1", doc["userId"])
	assert.Equal(t, "2026-03-14T09:30:00Z", doc["timestamp"])
	assert.Equal(t, "login successful", doc["message"])
	assert.Equal(t, "a@example.com", doc["email"])
}

func TestSink_RoutesByKind(t *testing.T) {
	fake := &fakeElasticsearch{}
	sink := newTestSink(t, fake)

	err := sink.Index(context.Background(), domain.AuditEvent{
		Kind:      domain.AuditEventProductView,
		Timestamp: time.Now(),
		UserID:    "guest",
		Payload:   map[string]interface{}{"asin": "B000TEST01"},
	})
	require.NoError(t, err)

	requests := fake.recorded()
	require.Len(t, requests, 1)
	assert.True(t, strings.HasPrefix(requests[0].path, "/product-views/"), "unexpected path %s", requests[0].path)
}

func TestSink_UnknownKind(t *testing.T) {
	fake := &fakeElasticsearch{}
	sink := newTestSink(t, fake)

	err := sink.Index(context.Background(), domain.AuditEvent{Kind: "unknown"})
	assert.Error(t, err)
	assert.Empty(t, fake.recorded())
}

func TestSink_ServerError(t *testing.T) {
	fake := &fakeElasticsearch{status: http.StatusInternalServerError}
	sink := newTestSink(t, fake)

	err := sink.Index(context.Background(), domain.AuditEvent{
		Kind:      domain.AuditEventLogin,
		Timestamp: time.Now(),
		Payload:   map[string]interface{}{},
	})
	assert.Error(t, err)
}
