// Package remote wraps the opaque remote persistence collaborator. The local
// database is the source of truth; every call here is best-effort replication
// and callers never block on or react to the outcome beyond logging it.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Record is one replicated mutation keyed by entity kind and id.
type Record struct {
	Entity   string                 `json:"entity"`
	EntityID string                 `json:"entity_id"`
	Op       string                 `json:"op"`
	Payload  map[string]interface{} `json:"payload,omitempty"`
}

// Store applies a single replicated mutation.
type Store interface {
	Apply(ctx context.Context, record Record) error
}

// HTTPStore replicates records to a REST endpoint, one POST per record.
type HTTPStore struct {
	baseURL string
	apiKey  string
	client  *http.Client
	logger  zerolog.Logger
}

// NewHTTPStore constructs a store pointing at the given base URL.
func NewHTTPStore(baseURL, apiKey string, logger zerolog.Logger) (*HTTPStore, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, fmt.Errorf("remote base url must not be empty")
	}

	return &HTTPStore{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 10 * time.Second},
		logger:  logger.With().Str("component", "remote_store").Logger(),
	}, nil
}

// Apply posts the record to <base>/<entity>. Non-2xx responses are errors so
// the dispatcher can record the failure, but nothing is retried.
func (s *HTTPStore) Apply(ctx context.Context, record Record) error {
	body, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal remote record: %w", err)
	}

	url := fmt.Sprintf("%s/%s", s.baseURL, record.Entity)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build remote request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("remote call failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("remote store returned status %d", resp.StatusCode)
	}

	s.logger.Debug().
		Str("entity", record.Entity).
		Str("entity_id", record.EntityID).
		Str("op", record.Op).
		Msg("record replicated")

	return nil
}

// NopStore discards every record. Used when no remote endpoint is configured.
type NopStore struct{}

// Apply accepts and drops the record.
func (NopStore) Apply(ctx context.Context, record Record) error {
	return nil
}
