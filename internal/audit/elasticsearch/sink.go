// Package elasticsearch provides the Elasticsearch implementation of the
// audit sink. Documents are written append-only; the application never reads
// them back.
package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	elasticsearch "github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/google/uuid"
	"github.com/shopgrove/marketplace/internal/domain"
)

// Config holds Elasticsearch sink configuration.
type Config struct {
	Addresses        []string
	LoginIndex       string
	ProductViewIndex string
}

// Sink writes audit events to Elasticsearch indices keyed by event kind.
type Sink struct {
	client  *elasticsearch.Client
	indices map[domain.AuditEventKind]string
}

// NewSink creates an Elasticsearch audit sink.
func NewSink(cfg Config) (*Sink, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: cfg.Addresses,
	})
	if err != nil {
		return nil, fmt.Errorf("create elasticsearch client: %w", err)
	}

	if cfg.LoginIndex == "" {
		cfg.LoginIndex = "login-logs"
	}
	if cfg.ProductViewIndex == "" {
		cfg.ProductViewIndex = "product-views"
	}

	return &Sink{
		client: client,
		indices: map[domain.AuditEventKind]string{
			domain.AuditEventLogin:       cfg.LoginIndex,
			domain.AuditEventProductView: cfg.ProductViewIndex,
		},
	}, nil
}

// Index writes one event document to the index for its kind.
func (s *Sink) Index(ctx context.Context, event domain.AuditEvent) error {
	index, ok := s.indices[event.Kind]
	if !ok {
		return fmt.Errorf("no index configured for event kind %q", event.Kind)
	}

	body, err := json.Marshal(document(event))
	if err != nil {
		return fmt.Errorf("marshal audit document: %w", err)
	}

	req := esapi.IndexRequest{
		Index:      index,
		DocumentID: uuid.NewString(),
		Body:       bytes.NewReader(body),
	}

	res, err := req.Do(ctx, s.client)
	if err != nil {
		return fmt.Errorf("index audit document: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() {
		return fmt.Errorf("index audit document to %s: %s", index, res.Status())
	}
	return nil
}

// document flattens an event into the legacy index schema: timestamp and
// userId at the top level, payload fields alongside them.
func document(event domain.AuditEvent) map[string]interface{} {
	doc := make(map[string]interface{}, len(event.Payload)+2)
	for k, v := range event.Payload {
		doc[k] = v
	}
	doc["timestamp"] = event.Timestamp.Format(time.RFC3339)
	doc["userId"] = event.UserID
	return doc
}
