package cli

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docqa/internal/adapters/driving/tui"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Launch the interactive chat interface",
	Long: `Launch an interactive terminal chat for asking questions against
the indexed documents.

Controls:
  Enter - Ask the typed question
  Esc   - Quit`,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) error {
	// Recover with a stack trace; a panic inside the program otherwise
	// leaves the terminal in the alternate screen.
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in chat: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	if err := ensureServices(cmd.Context(), serviceOptions{}); err != nil {
		return err
	}
	defer closeServices()

	if answerService == nil {
		return errors.New("answer service not configured")
	}

	if err := tui.Run(cmd.Context(), answerService); err != nil {
		return fmt.Errorf("chat error: %w", err)
	}
	return nil
}
