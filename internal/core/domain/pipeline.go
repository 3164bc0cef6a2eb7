package domain

// QueryState is one stage of the query pipeline state machine.
type QueryState string

// Query pipeline states.
const (
	QueryReceived       QueryState = "received"
	QueryEmbedding      QueryState = "embedding"
	QueryRetrieving     QueryState = "retrieving"
	QueryPromptBuilding QueryState = "prompt_building"
	QueryGenerating     QueryState = "generating"
	QueryCompleted      QueryState = "completed"
	QueryFailed         QueryState = "failed"
)

// Terminal reports whether the state ends the pipeline.
func (s QueryState) Terminal() bool {
	return s == QueryCompleted || s == QueryFailed
}

// String returns the string representation.
func (s QueryState) String() string {
	return string(s)
}

// NextQueryState is the pure transition function for the query pipeline.
// failed=true moves to QueryFailed only from states that may fail terminally:
// an empty retrieval is a valid continuation, so QueryRetrieving advances to
// QueryPromptBuilding regardless.
func NextQueryState(s QueryState, failed bool) QueryState {
	if failed && (s == QueryEmbedding || s == QueryGenerating) {
		return QueryFailed
	}
	switch s {
	case QueryReceived:
		return QueryEmbedding
	case QueryEmbedding:
		return QueryRetrieving
	case QueryRetrieving:
		return QueryPromptBuilding
	case QueryPromptBuilding:
		return QueryGenerating
	case QueryGenerating:
		return QueryCompleted
	default:
		return s
	}
}

// IngestState is one stage of the ingestion pipeline state machine.
type IngestState string

// Ingestion pipeline states. IngestAlreadyProcessed is a terminal success
// distinct from IngestCompleted: the dedup check short-circuited.
const (
	IngestExtractText      IngestState = "extract_text"
	IngestCheckDedup       IngestState = "check_dedup"
	IngestAlreadyProcessed IngestState = "already_processed"
	IngestChunk            IngestState = "chunk"
	IngestEmbedAndStore    IngestState = "embed_and_store"
	IngestRecordTracker    IngestState = "record_tracker"
	IngestCompleted        IngestState = "completed"
	IngestFailed           IngestState = "failed"
)

// Terminal reports whether the state ends the pipeline.
func (s IngestState) Terminal() bool {
	return s == IngestCompleted || s == IngestAlreadyProcessed || s == IngestFailed
}

// String returns the string representation.
func (s IngestState) String() string {
	return string(s)
}

// NextIngestState is the pure transition function for the ingestion pipeline.
// skip=true branches IngestCheckDedup to IngestAlreadyProcessed. failed=true
// moves to IngestFailed from the stages that can fail terminally.
func NextIngestState(s IngestState, skip, failed bool) IngestState {
	if failed {
		switch s {
		case IngestExtractText, IngestChunk, IngestEmbedAndStore, IngestRecordTracker:
			return IngestFailed
		}
	}
	switch s {
	case IngestExtractText:
		return IngestCheckDedup
	case IngestCheckDedup:
		if skip {
			return IngestAlreadyProcessed
		}
		return IngestChunk
	case IngestChunk:
		return IngestEmbedAndStore
	case IngestEmbedAndStore:
		return IngestRecordTracker
	case IngestRecordTracker:
		return IngestCompleted
	default:
		return s
	}
}
