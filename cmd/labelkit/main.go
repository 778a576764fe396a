// Command labelkit is a client for a sequence-labeling annotation server.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/custodia-labs/labelkit/internal/adapters/driven/config/file"
	"github.com/custodia-labs/labelkit/internal/adapters/driven/localfs"
	"github.com/custodia-labs/labelkit/internal/adapters/driven/notify"
	"github.com/custodia-labs/labelkit/internal/adapters/driven/rest"
	"github.com/custodia-labs/labelkit/internal/adapters/driving/cli"
	"github.com/custodia-labs/labelkit/internal/core/ports/driving"
	"github.com/custodia-labs/labelkit/internal/core/services"
	"github.com/custodia-labs/labelkit/internal/logger"
)

// version is overridden with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cli.SetVersion(version)
	cli.SetBuilder(build)

	if err := cli.Execute(ctx); err != nil {
		os.Exit(1)
	}
}

// build wires the application for one invocation. The server connection
// is made only when a command asks for the workspace.
func build(opts cli.Options) (*cli.App, error) {
	store, err := file.NewConfigStore(opts.ConfigDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open configuration: %w", err)
	}
	settings := services.NewSettingsService(store)
	bus := notify.NewBus()

	workspace := func() (driving.Workspace, error) {
		st, err := settings.Get()
		if err != nil {
			return nil, err
		}
		client, err := rest.NewClient(rest.ConfigFromSettings(st))
		if err != nil {
			return nil, err
		}
		logger.Debug("Connecting to %s", client.BaseURL())

		downloads := st.DownloadsDir
		if opts.DownloadsDir != "" {
			downloads = opts.DownloadsDir
		}

		return services.NewWorkspace(services.Dependencies{
			Documents:       rest.NewDocumentService(client),
			Annotations:     rest.NewAnnotationService(client),
			Connections:     rest.NewConnectionService(client),
			Relations:       rest.NewRelationService(client),
			Files:           localfs.NewOS(downloads),
			Notifier:        bus,
			BulkConcurrency: st.BulkConcurrency,
			PageSize:        st.PageSize,
		}), nil
	}

	return &cli.App{
		Settings:  settings,
		Workspace: workspace,
		Events:    bus,
	}, nil
}
