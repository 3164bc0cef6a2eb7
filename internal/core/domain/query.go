package domain

// RetrievedChunk is one ranked similarity match used as query context.
type RetrievedChunk struct {
	// ChunkID is the matched chunk identifier.
	ChunkID string

	// Text is the chunk content.
	Text string

	// Score is the similarity score reported by the index (higher is better).
	Score float64

	// Metadata is the source document metadata stored with the vector.
	Metadata map[string]any
}

// RetrievalResult is a ranked sequence of retrieved chunks, scores
// non-increasing by position, filtered to a similarity floor.
// An empty result is a valid outcome, not an error.
type RetrievalResult struct {
	// Chunks are the surviving matches in rank order.
	Chunks []RetrievedChunk

	// Floor is the similarity floor that was applied.
	Floor float64
}

// Empty reports whether no matches survived filtering.
func (r RetrievalResult) Empty() bool {
	return len(r.Chunks) == 0
}

// GenerateOptions configures text generation behaviour.
type GenerateOptions struct {
	// Temperature controls randomness (0.0 = deterministic).
	Temperature float64

	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// TopP is the nucleus-sampling probability mass.
	TopP float64

	// TopK restricts sampling to the K most likely tokens.
	TopK int
}

// TokenUsage holds token accounting reported by the generation backend.
type TokenUsage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// GenerationResult is the raw output of one generation backend call.
type GenerationResult struct {
	// Text is the generated completion.
	Text string

	// Model is the model identifier that produced the text.
	Model string

	// Usage holds the token counts for the call.
	Usage TokenUsage

	// FinishReason is the backend's stop reason ("stop", "length", ...).
	FinishReason string
}

// QueryRequest describes one retrieval-augmented query.
type QueryRequest struct {
	// Query is the user's question.
	Query string

	// CollectionName is the vector collection to retrieve from.
	CollectionName string

	// PriorTurns are previous user queries from the same session, oldest
	// first. Optional.
	PriorTurns []ConversationTurn

	// TopK overrides the configured nearest-neighbour candidate count when
	// positive.
	TopK int

	// Options overrides the configured generation options when non-nil.
	Options *GenerateOptions
}

// RagResponse is the answer to a QueryRequest, along with the retrieval
// evidence the generation was conditioned on.
type RagResponse struct {
	// Text is the generated answer.
	Text string

	// Model is the generation model identifier.
	Model string

	// Usage holds token accounting for the generation call.
	Usage TokenUsage

	// FinishReason is the generation stop reason.
	FinishReason string

	// Retrieval is the context evidence used to build the prompt.
	// May be empty; the answer then references the no-context marker.
	Retrieval RetrievalResult
}

// IngestStatus is the terminal outcome of an ingestion request.
type IngestStatus string

const (
	// IngestProcessed means the document was chunked, embedded and recorded.
	IngestProcessed IngestStatus = "processed"

	// IngestSkipped means the content fingerprint was unchanged and the
	// pipeline short-circuited without re-embedding.
	IngestSkipped IngestStatus = "skipped"
)

// IngestRequest describes one document ingestion.
type IngestRequest struct {
	// DocumentID is the stable identifier for the document.
	DocumentID string

	// SourcePath locates the raw document in the blob store.
	SourcePath string

	// Strategy is the chunking strategy name.
	Strategy string

	// StrategyParams holds chunking parameters for the strategy.
	StrategyParams map[string]any

	// EmbeddingModel is the embedding model identifier.
	EmbeddingModel string

	// CollectionName is the target vector collection.
	CollectionName string

	// Metadata is free-form document metadata stored with each vector.
	Metadata map[string]any
}

// IngestResult reports the outcome of one ingestion.
type IngestResult struct {
	// Status is Processed or Skipped.
	Status IngestStatus

	// ChunkCount is the number of chunks committed (or previously committed
	// when Status is Skipped).
	ChunkCount int

	// Fingerprint is the content fingerprint of the ingested version.
	Fingerprint Fingerprint
}

// HealthStatus is the aggregate health of the pipeline's collaborators.
type HealthStatus string

const (
	// HealthOK means every probed collaborator responded.
	HealthOK HealthStatus = "ok"

	// HealthDegraded means at least one collaborator failed its probe.
	HealthDegraded HealthStatus = "degraded"
)

// HealthReport describes collaborator reachability.
type HealthReport struct {
	// Status is ok or degraded.
	Status HealthStatus

	// Detail maps collaborator name to probe outcome ("ok" or the error).
	Detail map[string]string
}
