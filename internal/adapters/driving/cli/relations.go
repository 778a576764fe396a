package cli

import (
	"github.com/spf13/cobra"
)

var relationsCmd = &cobra.Command{
	Use:   "relations",
	Short: "Manage the relation types of a project",
}

var relationsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List relation types",
	Args:  cobra.NoArgs,
	RunE:  runRelationsList,
}

var relationsCreateCmd = &cobra.Command{
	Use:   "create [key=value]...",
	Short: "Create a relation type",
	Long: `Create a relation type:
  labelkit relations create text=causes color=#ff0000`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRelationsCreate,
}

var relationsUpdateCmd = &cobra.Command{
	Use:   "update [relation-id] [key=value]...",
	Short: "Patch a relation type",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runRelationsUpdate,
}

var relationsDeleteCmd = &cobra.Command{
	Use:   "delete [relation-id]...",
	Short: "Delete relation types",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runRelationsDelete,
}

var relationsImportCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Create relation types from a JSON array file",
	Long: `Read a local JSON array of relation objects and create each one:
  [{"text": "causes", "color": "#ff0000"}, {"text": "treats"}]`,
	Args: cobra.ExactArgs(1),
	RunE: runRelationsImport,
}

var relationsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the relation types to project_<id>_relations.json",
	Args:  cobra.NoArgs,
	RunE:  runRelationsExport,
}

var relationsUploadCmd = &cobra.Command{
	Use:   "upload [file]",
	Short: "Upload a relation file for the server to import",
	Args:  cobra.ExactArgs(1),
	RunE:  runRelationsUpload,
}

func init() {
	relationsExportCmd.Flags().StringVar(&opts.DownloadsDir, "out-dir", "", "Directory to write to (default: downloads.dir)")

	relationsCmd.AddCommand(relationsListCmd)
	relationsCmd.AddCommand(relationsCreateCmd)
	relationsCmd.AddCommand(relationsUpdateCmd)
	relationsCmd.AddCommand(relationsDeleteCmd)
	relationsCmd.AddCommand(relationsImportCmd)
	relationsCmd.AddCommand(relationsExportCmd)
	relationsCmd.AddCommand(relationsUploadCmd)
	rootCmd.AddCommand(relationsCmd)
}

func runRelationsList(cmd *cobra.Command, _ []string) error {
	store, err := relationStore()
	if err != nil {
		return err
	}
	if err := store.List(cmd.Context()); err != nil {
		return err
	}

	items := store.Items()
	if len(items) == 0 {
		cmd.Printf("No relation types in project %d\n", store.ProjectID())
		return nil
	}
	for _, r := range items {
		cmd.Printf("  %-6d %-8s %s\n", r.ID, r.Color, r.Text)
	}
	cmd.Printf("\nTotal: %d relation types\n", len(items))
	return nil
}

func runRelationsCreate(cmd *cobra.Command, args []string) error {
	fields, err := parseFields(args)
	if err != nil {
		return err
	}
	store, err := relationStore()
	if err != nil {
		return err
	}
	rel, err := store.Create(cmd.Context(), fields)
	if err != nil {
		return err
	}
	cmd.Printf("Created relation %d (%s)\n", rel.ID, rel.Text)
	return nil
}

func runRelationsUpdate(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	fields, err := parseFields(args[1:])
	if err != nil {
		return err
	}
	store, err := relationStore()
	if err != nil {
		return err
	}
	if err := store.Update(cmd.Context(), id, fields); err != nil {
		return err
	}
	cmd.Printf("Updated relation %d\n", id)
	return nil
}

func runRelationsDelete(cmd *cobra.Command, args []string) error {
	ids, err := parseIDs(args)
	if err != nil {
		return err
	}
	store, err := relationStore()
	if err != nil {
		return err
	}
	store.UpdateSelected(ids)
	return reportBulk(cmd, "Deleted", "relations", store.DeleteSelected(cmd.Context()))
}

func runRelationsImport(cmd *cobra.Command, args []string) error {
	store, err := relationStore()
	if err != nil {
		return err
	}
	res, err := store.Import(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	return reportBulk(cmd, "Imported", "relations", res)
}

func runRelationsExport(cmd *cobra.Command, _ []string) error {
	store, err := relationStore()
	if err != nil {
		return err
	}
	path, err := store.Export(cmd.Context())
	if err != nil {
		return err
	}
	cmd.Printf("Exported relations to %s\n", path)
	return nil
}

func runRelationsUpload(cmd *cobra.Command, args []string) error {
	store, err := relationStore()
	if err != nil {
		return err
	}
	if err := store.Upload(cmd.Context(), args[0]); err != nil {
		return err
	}
	cmd.Printf("Uploaded %s; project %d now has %d relation types\n", args[0], store.ProjectID(), len(store.Items()))
	return nil
}
