package services

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/custodia-labs/ragpipe/internal/core/domain"
	"github.com/custodia-labs/ragpipe/internal/core/ports/driven"
)

// mockEmbedder returns deterministic vectors derived from text length so
// tests can predict similarity outcomes.
type mockEmbedder struct {
	mu         sync.Mutex
	dimensions int
	model      string
	embedCalls int
	batchCalls int
	batchSizes []int
	failBatch  int // fail the Nth EmbedBatch call (1-based), 0 = never
	failFirst  int // fail the first N calls, then succeed
	failWith   error
	pingErr    error
}

func newMockEmbedder() *mockEmbedder {
	return &mockEmbedder{dimensions: 4, model: "mock-embed"}
}

func (m *mockEmbedder) vectorFor(text string) []float32 {
	v := make([]float32, m.dimensions)
	for i := range v {
		v[i] = float32(len(text)%7) + float32(i)
	}
	return v
}

func (m *mockEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.embedCalls++
	if m.failFirst > 0 {
		if m.embedCalls <= m.failFirst {
			return nil, m.failWith
		}
	} else if m.failWith != nil && m.failBatch == 0 {
		return nil, m.failWith
	}
	return m.vectorFor(text), nil
}

func (m *mockEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.batchCalls++
	m.batchSizes = append(m.batchSizes, len(texts))
	if m.failFirst > 0 && m.batchCalls <= m.failFirst {
		return nil, m.failWith
	}
	if m.failBatch > 0 && m.batchCalls >= m.failBatch {
		return nil, m.failWith
	}
	out := make([][]float32, len(texts))
	for i, text := range texts {
		out[i] = m.vectorFor(text)
	}
	return out, nil
}

func (m *mockEmbedder) Dimensions() int { return m.dimensions }

func (m *mockEmbedder) ModelName() string { return m.model }

func (m *mockEmbedder) Ping(_ context.Context) error { return m.pingErr }

func (m *mockEmbedder) Close() error { return nil }

// mockIndex stores vectors in memory and serves canned query hits.
type mockIndex struct {
	mu             sync.Mutex
	collections    map[string][]driven.VectorItem
	hits           []driven.VectorHit
	queryErr       error
	upsertErr      error
	pingErr        error
	upsertCalls    int
	lastCollection string
}

func newMockIndex() *mockIndex {
	return &mockIndex{collections: make(map[string][]driven.VectorItem)}
}

func (m *mockIndex) EnsureCollection(_ context.Context, collection string, _ int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.collections[collection]; !ok {
		m.collections[collection] = nil
	}
	return nil
}

func (m *mockIndex) Upsert(_ context.Context, collection string, items []driven.VectorItem) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.upsertCalls++
	if m.upsertErr != nil {
		return 0, m.upsertErr
	}
	m.collections[collection] = append(m.collections[collection], items...)
	return len(items), nil
}

func (m *mockIndex) Query(_ context.Context, collection string, _ []float32, k int) ([]driven.VectorHit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastCollection = collection
	if m.queryErr != nil {
		return nil, m.queryErr
	}
	hits := m.hits
	if len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

func (m *mockIndex) Collections(_ context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, 0, len(m.collections))
	for name := range m.collections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (m *mockIndex) Ping(_ context.Context) error { return m.pingErr }

func (m *mockIndex) Close() error { return nil }

func (m *mockIndex) stored(collection string) []driven.VectorItem {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]driven.VectorItem(nil), m.collections[collection]...)
}

// mockBackend echoes prompts and can fail a configurable number of times.
type mockBackend struct {
	mu          sync.Mutex
	model       string
	calls       int
	failFirst   int // fail this many leading calls
	failWith    error
	lastPrompt  string
	lastOptions domain.GenerateOptions
	pingErr     error
}

func newMockBackend() *mockBackend {
	return &mockBackend{model: "mock-llm"}
}

func (m *mockBackend) Generate(_ context.Context, prompt string, opts domain.GenerateOptions) (*domain.GenerationResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.lastPrompt = prompt
	m.lastOptions = opts
	if m.calls <= m.failFirst {
		return nil, m.failWith
	}
	return &domain.GenerationResult{
		Text:         "answer",
		Model:        m.model,
		Usage:        domain.TokenUsage{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15},
		FinishReason: "stop",
	}, nil
}

func (m *mockBackend) ModelName() string { return m.model }

func (m *mockBackend) Ping(_ context.Context) error { return m.pingErr }

func (m *mockBackend) Close() error { return nil }

// mockBlobStore serves documents from a map keyed by path.
type mockBlobStore struct {
	docs    map[string]string
	readErr error
}

func newMockBlobStore() *mockBlobStore {
	return &mockBlobStore{docs: make(map[string]string)}
}

func (m *mockBlobStore) ReadText(_ context.Context, path string) (string, error) {
	if m.readErr != nil {
		return "", m.readErr
	}
	text, ok := m.docs[path]
	if !ok {
		return "", domain.ErrNotFound
	}
	return text, nil
}

func (m *mockBlobStore) List(_ context.Context, prefix string) ([]string, error) {
	var paths []string
	for path := range m.docs {
		if strings.HasPrefix(path, prefix) {
			paths = append(paths, path)
		}
	}
	sort.Strings(paths)
	return paths, nil
}

func (m *mockBlobStore) Exists(_ context.Context, path string) (bool, error) {
	_, ok := m.docs[path]
	return ok, nil
}
