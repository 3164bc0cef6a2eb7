// Package qdrant provides a vector index adapter using the Qdrant REST API.
package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/ragpipe/internal/core/domain"
	"github.com/custodia-labs/ragpipe/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "http://localhost:6333"
	DefaultTimeout = 30 * time.Second
)

// payloadTextKey is the payload field holding the chunk text.
const payloadTextKey = "text"

// payloadChunkKey is the payload field holding the original chunk ID. Qdrant
// point IDs must be UUIDs or integers, so the chunk ID is stored in the
// payload and the point ID is derived from it deterministically.
const payloadChunkKey = "chunk_id"

// Config holds configuration for the Qdrant index.
type Config struct {
	// BaseURL is the Qdrant REST endpoint (default: http://localhost:6333).
	BaseURL string

	// APIKey authenticates requests when set.
	APIKey string

	// Timeout is the request timeout (default: 30s).
	Timeout time.Duration
}

// Index is a REST client to Qdrant. Collections use cosine distance.
type Index struct {
	client  *http.Client
	baseURL string
	apiKey  string
}

// NewIndex creates a new Qdrant index client.
func NewIndex(cfg Config) *Index {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Index{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
	}
}

// collectionRequest is the create-collection request format.
type collectionRequest struct {
	Vectors vectorParams `json:"vectors"`
}

type vectorParams struct {
	Size     int    `json:"size"`
	Distance string `json:"distance"`
}

// upsertRequest is the points upsert request format.
type upsertRequest struct {
	Points []point `json:"points"`
}

type point struct {
	ID      string         `json:"id"`
	Vector  []float32      `json:"vector"`
	Payload map[string]any `json:"payload"`
}

// searchRequest is the points search request format.
type searchRequest struct {
	Vector      []float32 `json:"vector"`
	Limit       int       `json:"limit"`
	WithPayload bool      `json:"with_payload"`
}

// searchResponse is the points search response format.
type searchResponse struct {
	Result []struct {
		Score   float64        `json:"score"`
		Payload map[string]any `json:"payload"`
	} `json:"result"`
}

// collectionsResponse is the list-collections response format.
type collectionsResponse struct {
	Result struct {
		Collections []struct {
			Name string `json:"name"`
		} `json:"collections"`
	} `json:"result"`
}

// EnsureCollection creates the collection if it does not exist. Qdrant
// answers 200 for an existing collection with the same schema.
func (x *Index) EnsureCollection(ctx context.Context, collection string, dimensions int) error {
	if dimensions <= 0 {
		return fmt.Errorf("%w: invalid vector dimension %d", domain.ErrInvalidConfig, dimensions)
	}
	body := collectionRequest{
		Vectors: vectorParams{Size: dimensions, Distance: "Cosine"},
	}
	url := fmt.Sprintf("%s/collections/%s", x.baseURL, collection)
	return x.do(ctx, http.MethodPut, url, body, nil)
}

// Upsert stores vectors with payloads, returning the count stored.
func (x *Index) Upsert(ctx context.Context, collection string, items []driven.VectorItem) (int, error) {
	if len(items) == 0 {
		return 0, nil
	}
	points := make([]point, len(items))
	for i, item := range items {
		payload := make(map[string]any, len(item.Metadata)+2)
		for k, v := range item.Metadata {
			payload[k] = v
		}
		payload[payloadChunkKey] = item.ID
		payload[payloadTextKey] = item.Text
		points[i] = point{
			ID:      pointID(item.ID),
			Vector:  item.Vector,
			Payload: payload,
		}
	}
	url := fmt.Sprintf("%s/collections/%s/points?wait=true", x.baseURL, collection)
	if err := x.do(ctx, http.MethodPut, url, upsertRequest{Points: points}, nil); err != nil {
		return 0, err
	}
	return len(points), nil
}

// Query returns the k nearest neighbours to the query vector.
func (x *Index) Query(ctx context.Context, collection string, vector []float32, k int) ([]driven.VectorHit, error) {
	if k <= 0 {
		k = 5
	}
	req := searchRequest{
		Vector:      vector,
		Limit:       k,
		WithPayload: true,
	}
	var resp searchResponse
	url := fmt.Sprintf("%s/collections/%s/points/search", x.baseURL, collection)
	if err := x.do(ctx, http.MethodPost, url, req, &resp); err != nil {
		return nil, err
	}

	hits := make([]driven.VectorHit, 0, len(resp.Result))
	for _, r := range resp.Result {
		hit := driven.VectorHit{Score: r.Score, Metadata: r.Payload}
		if v, ok := r.Payload[payloadChunkKey].(string); ok {
			hit.ChunkID = v
		}
		if v, ok := r.Payload[payloadTextKey].(string); ok {
			hit.Text = v
		}
		delete(hit.Metadata, payloadTextKey)
		hits = append(hits, hit)
	}
	return hits, nil
}

// Collections lists the existing collection names.
func (x *Index) Collections(ctx context.Context) ([]string, error) {
	var resp collectionsResponse
	if err := x.do(ctx, http.MethodGet, x.baseURL+"/collections", nil, &resp); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(resp.Result.Collections))
	for _, c := range resp.Result.Collections {
		names = append(names, c.Name)
	}
	return names, nil
}

// Ping validates the index is reachable.
func (x *Index) Ping(ctx context.Context) error {
	return x.do(ctx, http.MethodGet, x.baseURL+"/collections", nil, nil)
}

// Close releases resources.
func (x *Index) Close() error {
	// HTTP client doesn't need explicit cleanup
	return nil
}

// pointID derives a deterministic UUID from a chunk ID, so re-ingesting a
// document overwrites its points instead of duplicating them.
func pointID(chunkID string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(chunkID)).String()
}

func (x *Index) do(ctx context.Context, method, url string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if x.apiKey != "" {
		req.Header.Set("api-key", x.apiKey)
	}

	resp, err := x.client.Do(req)
	if err != nil {
		return classifyTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return classifyStatus(resp.StatusCode, string(respBody))
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

func classifyTransportError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: qdrant: %v", domain.ErrUpstreamTimeout, err)
	}
	var netErr interface{ Timeout() bool }
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: qdrant: %v", domain.ErrUpstreamTimeout, err)
	}
	return fmt.Errorf("%w: qdrant: %v", domain.ErrUpstreamUnavailable, err)
}

func classifyStatus(status int, message string) error {
	switch {
	case status == http.StatusNotFound:
		return fmt.Errorf("%w: qdrant: %s", domain.ErrCollectionNotFound, message)
	case status == http.StatusRequestTimeout || status == http.StatusGatewayTimeout:
		return fmt.Errorf("%w: qdrant status %d: %s", domain.ErrUpstreamTimeout, status, message)
	case status == http.StatusTooManyRequests || status >= 500:
		return fmt.Errorf("%w: qdrant status %d: %s", domain.ErrUpstreamUnavailable, status, message)
	default:
		return fmt.Errorf("%w: qdrant status %d: %s", domain.ErrUpstreamFailure, status, message)
	}
}
