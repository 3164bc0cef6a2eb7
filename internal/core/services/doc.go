// Package services contains the core pipeline logic: document tracking and
// deduplication, the embedding gateway, context retrieval, prompt assembly,
// response generation and the ingestion/query orchestrators. Services depend
// only on domain types and driven ports, never on concrete adapters.
package services
