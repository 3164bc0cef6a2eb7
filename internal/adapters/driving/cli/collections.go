package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var collectionsCmd = &cobra.Command{
	Use:   "collections",
	Short: "List vector collections",
	RunE:  runCollections,
}

var documentsCmd = &cobra.Command{
	Use:   "documents",
	Short: "List processed documents",
	Long: `Lists the latest processed version of every tracked document,
with its fingerprint, chunk count and chunking strategy.`,
	RunE: runDocuments,
}

func init() {
	rootCmd.AddCommand(collectionsCmd)
	rootCmd.AddCommand(documentsCmd)
}

func runCollections(cmd *cobra.Command, _ []string) error {
	if adminService == nil {
		return errors.New("admin service not configured")
	}

	collections, err := adminService.ListCollections(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list collections: %w", err)
	}

	if len(collections) == 0 {
		cmd.Println("No collections found.")
		return nil
	}
	for _, name := range collections {
		cmd.Println(name)
	}
	return nil
}

func runDocuments(cmd *cobra.Command, _ []string) error {
	if adminService == nil {
		return errors.New("admin service not configured")
	}

	records, err := adminService.ListProcessed(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	if len(records) == 0 {
		cmd.Println("No documents processed yet.")
		return nil
	}

	for _, rec := range records {
		cmd.Printf("%s (v%d)\n", rec.DocumentID, rec.Version)
		cmd.Printf("  Collection: %s\n", rec.CollectionName)
		cmd.Printf("  Strategy: %s\n", rec.Strategy)
		cmd.Printf("  Chunks: %d\n", rec.ChunkCount())
		cmd.Printf("  Fingerprint: %s\n", shortFingerprint(string(rec.Fingerprint)))
		cmd.Printf("  Processed: %s\n", rec.ProcessedAt.Format("2006-01-02 15:04:05"))
		cmd.Println()
	}
	return nil
}

func shortFingerprint(fp string) string {
	if len(fp) <= 12 {
		return fp
	}
	return fp[:12] + "..."
}
