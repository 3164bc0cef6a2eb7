// Package driven provides interfaces for infrastructure adapters
// (secondary/outbound ports): embedding backends, the vector index, the
// generation backend, the processed-document registry and the blob store.
package driven
