// Package cli implements the labelkit command line.
//
// Commands do not construct services themselves. The binary installs a
// Builder with SetBuilder; the first command that needs the server calls
// it with the parsed global flags and caches the resulting App.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/labelkit/internal/core/domain"
	"github.com/custodia-labs/labelkit/internal/core/ports/driving"
	"github.com/custodia-labs/labelkit/internal/logger"
)

// version is set by the binary at build time.
var version = "dev"

// Events is a source of store failure notifications.
type Events interface {
	Subscribe(buffer int) (<-chan domain.Notification, func())
}

// App holds what the commands operate on.
type App struct {
	Settings driving.SettingsService

	// Workspace connects to the server on first use. Commands that only
	// touch local configuration never call it.
	Workspace func() (driving.Workspace, error)

	// Events may be nil.
	Events Events
}

// Options carries the global flag values into a Builder.
type Options struct {
	ConfigDir    string
	DownloadsDir string
	Verbose      bool
}

// Builder creates the App for one invocation.
type Builder func(opts Options) (*App, error)

var (
	builder Builder
	app     *App
	opts    Options

	projectFlag int
)

var rootCmd = &cobra.Command{
	Use:   "labelkit",
	Short: "Work with documents, annotations and relations on an annotation server",
	Long: `labelkit is a client for a sequence-labeling annotation server.

It lists and edits a project's documents, their annotations and the
connections between them, manages relation types, and bulk-assigns
documents to annotators.

Connection settings live in ~/.labelkit/config.toml:
  labelkit config set server.url https://annotate.example.com/v1
  labelkit login`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(opts.Verbose)
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&opts.Verbose, "verbose", "v", false, "Print debug output to stderr")
	flags.IntVarP(&projectFlag, "project", "p", 0, "Project id (default: project.default)")
	flags.StringVar(&opts.ConfigDir, "config-dir", "", "Configuration directory (default: ~/.labelkit)")
}

// SetBuilder installs the function that creates the App.
func SetBuilder(b Builder) {
	builder = b
	app = nil
}

// SetVersion sets the version printed by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func currentApp() (*App, error) {
	if app != nil {
		return app, nil
	}
	if builder == nil {
		return nil, errors.New("application not configured")
	}
	a, err := builder(opts)
	if err != nil {
		return nil, err
	}
	app = a
	return app, nil
}

func currentWorkspace() (driving.Workspace, int, error) {
	a, err := currentApp()
	if err != nil {
		return nil, 0, err
	}
	pid, err := projectID(a)
	if err != nil {
		return nil, 0, err
	}
	ws, err := a.Workspace()
	if err != nil {
		return nil, 0, err
	}
	return ws, pid, nil
}

// projectID resolves --project, falling back to project.default.
func projectID(a *App) (int, error) {
	if projectFlag > 0 {
		return projectFlag, nil
	}
	if a.Settings != nil {
		st, err := a.Settings.Get()
		if err != nil {
			return 0, err
		}
		if st.DefaultProject > 0 {
			return st.DefaultProject, nil
		}
	}
	return 0, fmt.Errorf("%w: pass --project or set %s", domain.ErrNotConfigured, domain.KeyDefaultProject)
}

func documentStore() (driving.DocumentStore, error) {
	ws, pid, err := currentWorkspace()
	if err != nil {
		return nil, err
	}
	return ws.Documents(pid), nil
}

func relationStore() (driving.RelationStore, error) {
	ws, pid, err := currentWorkspace()
	if err != nil {
		return nil, err
	}
	return ws.Relations(pid), nil
}

func parseID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %q is not an id", domain.ErrInvalidInput, arg)
	}
	return id, nil
}

func parseIDs(args []string) ([]int, error) {
	ids := make([]int, 0, len(args))
	for _, arg := range args {
		id, err := parseID(arg)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// parseFields turns key=value arguments into a payload. Values that parse
// as JSON keep their JSON type, so label=3 is a number and approver=null
// clears a field; anything else is a string.
func parseFields(args []string) (domain.Fields, error) {
	fields := make(domain.Fields, len(args))
	for _, arg := range args {
		key, raw, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("%w: expected key=value, got %q", domain.ErrInvalidInput, arg)
		}
		var v any
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			v = raw
		}
		fields[key] = v
	}
	return fields, nil
}

// reportBulk prints the outcome of a bulk operation and returns an error
// if any item failed.
func reportBulk(cmd *cobra.Command, verb, noun string, res domain.BulkResult) error {
	cmd.Printf("%s %d of %d %s", verb, res.Succeeded, res.Attempted, noun)
	if res.Skipped > 0 {
		cmd.Printf(" (%d skipped)", res.Skipped)
	}
	cmd.Println()

	if res.OK() {
		return nil
	}
	ids := make([]int, 0, len(res.Failed))
	for id := range res.Failed {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		cmd.Printf("  #%d: %v\n", id, res.Failed[id])
	}
	return fmt.Errorf("%d of %d %s failed", len(res.Failed), res.Attempted, noun)
}
