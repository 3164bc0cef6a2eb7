package services

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/ragpipe/internal/core/domain"
)

// DefaultPromptTemplate is the built-in prompt shape. Override templates use
// the same placeholders: {context}, {prev_queries} and {query}.
const DefaultPromptTemplate = `Answer the following question based on the provided context.

Context:
{context}

Previous Queries:
{prev_queries}

Question:
{query}

Answer using only the context above. If the context does not contain the
answer, say so instead of guessing.`

// NoContextMarker replaces the context section when retrieval found nothing,
// so the backend's behaviour on missing evidence stays observable.
const NoContextMarker = "No relevant context found."

// PromptBuilder fills a deterministic template with retrieved context,
// conversation history and the current query.
type PromptBuilder struct {
	template string
}

// NewPromptBuilder creates a builder. An empty template selects the default.
func NewPromptBuilder(template string) *PromptBuilder {
	if strings.TrimSpace(template) == "" {
		template = DefaultPromptTemplate
	}
	return &PromptBuilder{template: template}
}

// Build assembles the prompt text. Context chunks keep their retrieval rank
// and carry source attribution; prior turns appear oldest first.
func (b *PromptBuilder) Build(query string, retrieval domain.RetrievalResult, history []domain.ConversationTurn) string {
	replacer := strings.NewReplacer(
		"{context}", b.formatContext(retrieval),
		"{prev_queries}", b.formatHistory(history),
		"{query}", query,
	)
	return replacer.Replace(b.template)
}

func (b *PromptBuilder) formatContext(retrieval domain.RetrievalResult) string {
	if retrieval.Empty() {
		return NoContextMarker
	}

	var sb strings.Builder
	for i, chunk := range retrieval.Chunks {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "Document %d", i+1)
		if source := sourceOf(chunk.Metadata); source != "" {
			fmt.Fprintf(&sb, " (source: %s)", source)
		}
		fmt.Fprintf(&sb, ":\n%s\n", chunk.Text)
	}
	return sb.String()
}

func (b *PromptBuilder) formatHistory(history []domain.ConversationTurn) string {
	if len(history) == 0 {
		return "No previous queries."
	}

	lines := make([]string, len(history))
	for i, turn := range history {
		lines[i] = fmt.Sprintf("Query %d: %s", i+1, turn.Text)
	}
	return strings.Join(lines, "\n")
}

func sourceOf(metadata map[string]any) string {
	for _, key := range []string{"source", "document_id"} {
		if v, ok := metadata[key]; ok {
			if s, ok := v.(string); ok && s != "" {
				return s
			}
		}
	}
	return ""
}
