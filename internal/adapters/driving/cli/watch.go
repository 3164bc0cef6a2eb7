package cli

import (
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ragpipe/internal/core/domain"
	"github.com/custodia-labs/ragpipe/internal/watcher"
)

var (
	watchExtensions []string
	watchSync       bool
	watchRoot       string
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Auto-ingest documents as they change",
	Long: `Watches the document directory and re-ingests files as they are
created or modified. Unchanged files are skipped by the content
fingerprint, so editor noise is cheap.

Runs until interrupted.`,
	RunE: runWatch,
}

// watchDocumentRoot is the directory the blob store serves documents from.
// Set by SetDocumentRoot during wiring.
var watchDocumentRoot string

// SetDocumentRoot tells the watch command where documents live on disk.
func SetDocumentRoot(root string) {
	watchDocumentRoot = root
}

func init() {
	watchCmd.Flags().StringSliceVarP(&watchExtensions, "extensions", "e", []string{".txt", ".md"}, "file extensions to ingest")
	watchCmd.Flags().BoolVar(&watchSync, "sync", false, "ingest files already present before watching")
	watchCmd.Flags().StringVar(&watchRoot, "root", "", "directory to watch (default: the document root)")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	root := watchRoot
	if root == "" {
		root = watchDocumentRoot
	}
	if root == "" {
		return errors.New("no document root configured; pass --root")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	onChange := func(path string) {
		req := ingestRequest(path)
		req.DocumentID = path

		result, err := ingestService.Ingest(ctx, req)
		if err != nil {
			cmd.Printf("FAILED %s: %v\n", path, err)
			return
		}
		switch result.Status {
		case domain.IngestSkipped:
			cmd.Printf("unchanged %s\n", path)
		case domain.IngestProcessed:
			cmd.Printf("ingested %s (%d chunks)\n", path, result.ChunkCount)
		}
	}

	w := watcher.New(root, normalizeExtensions(watchExtensions), onChange)
	if err := w.Start(ctx); err != nil {
		return err
	}
	defer w.Stop()

	cmd.Printf("Watching %s (Ctrl+C to stop)\n", w.Root())
	if watchSync {
		w.SyncExisting()
	}

	<-ctx.Done()
	cmd.Println("Stopped.")
	return nil
}
