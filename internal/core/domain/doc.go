// Package domain contains the core business entities and rules for the
// retrieval-augmented query pipeline: documents and their chunks, content
// fingerprints, conversation state, retrieval results and the ingestion/query
// pipeline states. It has no dependencies on adapters or external services.
package domain
