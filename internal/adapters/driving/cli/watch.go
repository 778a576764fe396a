package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/labelkit/internal/adapters/driven/notify"
	"github.com/custodia-labs/labelkit/internal/adapters/driving/hotfolder"
	"github.com/custodia-labs/labelkit/internal/core/domain"
)

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Upload files dropped into a directory",
	Long: `Watch a directory and upload every new or changed file whose extension
matches the upload format. Runs until interrupted.

The format and splitter default to hotfolder.format and hotfolder.splitter.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

var (
	watchFormat   string
	watchSplitter string
)

func init() {
	watchCmd.Flags().StringVarP(&watchFormat, "format", "f", "", "Upload format (default: hotfolder.format)")
	watchCmd.Flags().StringVar(&watchSplitter, "splitter", "", "Separator between documents (default: hotfolder.splitter)")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	a, err := currentApp()
	if err != nil {
		return err
	}
	store, err := documentStore()
	if err != nil {
		return err
	}

	cfg := hotfolder.Config{
		Dir:      args[0],
		Format:   domain.UploadFormat(watchFormat),
		Splitter: watchSplitter,
		OnUpload: func(path string, err error) {
			if err == nil {
				cmd.Printf("Uploaded %s\n", path)
			}
		},
	}
	if a.Settings != nil {
		st, err := a.Settings.Get()
		if err != nil {
			return err
		}
		if !cmd.Flags().Changed("format") {
			cfg.Format = st.HotFolderFormat
		}
		if !cmd.Flags().Changed("splitter") {
			cfg.Splitter = st.HotFolderSplitter
		}
	}

	w, err := hotfolder.New(cfg, store)
	if err != nil {
		return err
	}

	if a.Events != nil {
		ch, unsubscribe := a.Events.Subscribe(0)
		defer unsubscribe()
		go notify.Drain(ch, cmd.ErrOrStderr())
	}

	cmd.Printf("Watching %s for %s files into project %d (Ctrl+C to stop)\n", cfg.Dir, cfg.Format, store.ProjectID())
	return w.Run(cmd.Context())
}
