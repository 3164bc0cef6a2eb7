package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ragpipe/internal/core/domain"
)

var (
	ingestCollection string
	ingestStrategy   string
	ingestChunkSize  int
	ingestOverlap    int
	ingestID         string
	ingestExtensions []string
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Ingest documents into the vector index",
	Long: `Commands for ingesting documents: extract text, deduplicate by
content fingerprint, chunk, embed and store.

Re-ingesting an unchanged document is a no-op; changed documents are
recorded as a new version.`,
}

var ingestFileCmd = &cobra.Command{
	Use:   "file [path]",
	Short: "Ingest a single document",
	Args:  cobra.ExactArgs(1),
	RunE:  runIngestFile,
}

var ingestDirCmd = &cobra.Command{
	Use:   "dir [prefix]",
	Short: "Ingest every document under a path prefix",
	Long: `Ingests every document found under the given path prefix.
Per-document failures are reported at the end without aborting the batch.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngestDir,
}

func init() {
	for _, c := range []*cobra.Command{ingestFileCmd, ingestDirCmd} {
		c.Flags().StringVarP(&ingestCollection, "collection", "c", "", "target vector collection (default from settings)")
		c.Flags().StringVarP(&ingestStrategy, "strategy", "s", "", "chunking strategy: fixed_size or semantic")
		c.Flags().IntVar(&ingestChunkSize, "chunk-size", 0, "chunk size in characters (0 = strategy default)")
		c.Flags().IntVar(&ingestOverlap, "overlap", 0, "chunk overlap in characters (0 = strategy default)")
	}
	ingestFileCmd.Flags().StringVar(&ingestID, "id", "", "document ID (default: the path)")
	ingestDirCmd.Flags().StringSliceVarP(&ingestExtensions, "extensions", "e", nil, "only ingest these file extensions (e.g. .txt,.md)")

	ingestCmd.AddCommand(ingestFileCmd)
	ingestCmd.AddCommand(ingestDirCmd)
	rootCmd.AddCommand(ingestCmd)
}

func ingestRequest(sourcePath string) domain.IngestRequest {
	req := domain.IngestRequest{
		DocumentID:     ingestID,
		SourcePath:     sourcePath,
		Strategy:       ingestStrategy,
		CollectionName: ingestCollection,
	}
	params := map[string]any{}
	if ingestChunkSize > 0 {
		params["chunk_size"] = ingestChunkSize
	}
	if ingestOverlap > 0 {
		params["overlap"] = ingestOverlap
	}
	if len(params) > 0 {
		req.StrategyParams = params
	}
	return req
}

func runIngestFile(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	req := ingestRequest(args[0])
	if req.DocumentID == "" {
		req.DocumentID = args[0]
	}

	result, err := ingestService.Ingest(cmd.Context(), req)
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}

	switch result.Status {
	case domain.IngestSkipped:
		cmd.Printf("Skipped %s: content unchanged (%d chunks already indexed)\n", req.DocumentID, result.ChunkCount)
	case domain.IngestProcessed:
		cmd.Printf("Ingested %s: %d chunks\n", req.DocumentID, result.ChunkCount)
	}
	return nil
}

func runIngestDir(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	exts := normalizeExtensions(ingestExtensions)
	result, err := ingestService.IngestPrefix(cmd.Context(), args[0], ingestRequest(""), exts)
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}

	cmd.Printf("Processed: %d  Skipped: %d  Failed: %d\n", result.Processed, result.Skipped, result.Failed)
	if len(result.Errors) > 0 {
		cmd.Println()
		cmd.Println("Failures:")
		for id, ingestErr := range result.Errors {
			cmd.Printf("  %s: %v\n", id, ingestErr)
		}
		return fmt.Errorf("%d document(s) failed", result.Failed)
	}
	return nil
}

// normalizeExtensions accepts "txt" and ".txt" alike.
func normalizeExtensions(exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, e := range exts {
		e = strings.TrimSpace(e)
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		out = append(out, strings.ToLower(e))
	}
	return out
}
