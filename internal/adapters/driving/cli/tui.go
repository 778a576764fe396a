package cli

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/labelkit/internal/adapters/driving/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Browse a project's documents interactively",
	Long: `Open a terminal browser over one page of the project's documents.

Controls:
  ↑/k, ↓/j  Move the cursor
  space     Select or unselect the document
  d         Delete the selected documents
  a         Approve or unapprove the document
  n, p      Next and previous page
  r         Reload the page
  enter     Show annotations and connections
  esc       Back to the list
  q         Quit

Failures from the server appear in the status line.`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	a, err := currentApp()
	if err != nil {
		return err
	}
	store, err := documentStore()
	if err != nil {
		return err
	}

	ports := &tui.Ports{Documents: store}
	if a.Events != nil {
		ports.Events = a.Events
	}

	browser, err := tui.NewApp(cmd.Context(), ports)
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	if err := browser.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
