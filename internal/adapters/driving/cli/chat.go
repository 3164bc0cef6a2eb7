package cli

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/ragpipe/internal/adapters/driving/tui"
	"github.com/custodia-labs/ragpipe/internal/core/domain"
)

var (
	chatCollection string
	chatWindow     int
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive chat session",
	Long: `Launch an interactive chat over ingested documents.

Each answer is grounded in retrieved context. Recent questions from the
session are fed back as conversation history, so follow-ups work.

Controls:
  Enter     - Ask
  ↑/↓       - Scroll the transcript
  Ctrl+C    - Quit`,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().StringVarP(&chatCollection, "collection", "c", "", "vector collection to query (default from settings)")
	chatCmd.Flags().IntVarP(&chatWindow, "window", "w", domain.DefaultConversationWindow, "number of prior questions kept as history")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) error {
	// Add panic recovery to get stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in chat: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	if ragService == nil {
		return errors.New("rag service not configured")
	}

	app, err := tui.NewApp(ragService, chatCollection, chatWindow)
	if err != nil {
		return fmt.Errorf("failed to create chat: %w", err)
	}
	app.WithContext(cmd.Context())

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("chat error: %w", err)
	}
	return nil
}
