package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ragpipe/internal/core/domain"
)

var (
	queryCollection string
	queryTopK       int
	queryJSON       bool
	querySources    bool
)

var queryCmd = &cobra.Command{
	Use:   "query [question]",
	Short: "Ask a question over ingested documents",
	Long: `Runs one retrieval-augmented query: embeds the question, retrieves
the most similar chunks from the vector index, and generates an answer
grounded in that context.

When nothing relevant is found the answer says so rather than failing.`,
	Args: cobra.ExactArgs(1),
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().StringVarP(&queryCollection, "collection", "c", "", "vector collection to query (default from settings)")
	queryCmd.Flags().IntVarP(&queryTopK, "top-k", "k", 0, "number of candidate chunks to retrieve (0 = use settings)")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "output the full response as JSON")
	queryCmd.Flags().BoolVar(&querySources, "sources", false, "show the retrieved chunks below the answer")
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	if ragService == nil {
		return errors.New("rag service not configured")
	}

	req := domain.QueryRequest{
		Query:          args[0],
		CollectionName: queryCollection,
		TopK:           queryTopK,
	}

	resp, err := ragService.Query(cmd.Context(), req)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	if queryJSON {
		return outputQueryJSON(cmd, resp)
	}
	return outputQueryText(cmd, resp)
}

func outputQueryJSON(cmd *cobra.Command, resp *domain.RagResponse) error {
	data, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal response: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputQueryText(cmd *cobra.Command, resp *domain.RagResponse) error {
	cmd.Println(resp.Text)

	if querySources {
		cmd.Println()
		if resp.Retrieval.Empty() {
			cmd.Println("No context was retrieved.")
			return nil
		}
		cmd.Printf("Context (%d chunks, floor %.2f):\n", len(resp.Retrieval.Chunks), resp.Retrieval.Floor)
		for i, chunk := range resp.Retrieval.Chunks {
			cmd.Printf("  [%d] %s (%.3f)\n", i+1, chunk.ChunkID, chunk.Score)
		}
	}
	return nil
}
