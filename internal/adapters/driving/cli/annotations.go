package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/labelkit/internal/core/ports/driving"
)

var annotationsCmd = &cobra.Command{
	Use:   "annotations",
	Short: "Edit the annotations of a document",
	Long: `Add, update or delete the annotations of a document.

Fields are given as key=value, for example:
  labelkit annotations add --doc 12 label=3 start_offset=0 end_offset=5`,
}

var annotationsAddCmd = &cobra.Command{
	Use:   "add [key=value]...",
	Short: "Add an annotation",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAnnotationsAdd,
}

var annotationsUpdateCmd = &cobra.Command{
	Use:   "update [annotation-id] [key=value]...",
	Short: "Patch an annotation",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runAnnotationsUpdate,
}

var annotationsDeleteCmd = &cobra.Command{
	Use:   "delete [annotation-id]",
	Short: "Delete an annotation and the connections that use it",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnnotationsDelete,
}

var connectionsCmd = &cobra.Command{
	Use:   "connections",
	Short: "Edit the connections between annotations of a document",
	Long: `Add, update or delete connections. Both ends of a new connection must be
annotations of the same document:
  labelkit connections add --doc 12 source=40 to=41 relation=2`,
}

var connectionsAddCmd = &cobra.Command{
	Use:   "add [key=value]...",
	Short: "Add a connection",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runConnectionsAdd,
}

var connectionsUpdateCmd = &cobra.Command{
	Use:   "update [connection-id] [key=value]...",
	Short: "Patch a connection",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runConnectionsUpdate,
}

var connectionsDeleteCmd = &cobra.Command{
	Use:   "delete [connection-id]",
	Short: "Delete a connection",
	Args:  cobra.ExactArgs(1),
	RunE:  runConnectionsDelete,
}

// docFlag is the --doc value shared by annotation and connection commands.
var docFlag int

func init() {
	for _, c := range []*cobra.Command{
		annotationsAddCmd, annotationsUpdateCmd, annotationsDeleteCmd,
		connectionsAddCmd, connectionsUpdateCmd, connectionsDeleteCmd,
	} {
		c.Flags().IntVarP(&docFlag, "doc", "d", 0, "Document id")
		_ = c.MarkFlagRequired("doc")
	}

	annotationsCmd.AddCommand(annotationsAddCmd)
	annotationsCmd.AddCommand(annotationsUpdateCmd)
	annotationsCmd.AddCommand(annotationsDeleteCmd)
	connectionsCmd.AddCommand(connectionsAddCmd)
	connectionsCmd.AddCommand(connectionsUpdateCmd)
	connectionsCmd.AddCommand(connectionsDeleteCmd)
	rootCmd.AddCommand(annotationsCmd)
	rootCmd.AddCommand(connectionsCmd)
}

// currentDocument loads --doc and makes it current.
func currentDocument(cmd *cobra.Command) (driving.DocumentStore, error) {
	store, err := documentStore()
	if err != nil {
		return nil, err
	}
	if err := store.Locate(cmd.Context(), docFlag); err != nil {
		return nil, err
	}
	return store, nil
}

func runAnnotationsAdd(cmd *cobra.Command, args []string) error {
	fields, err := parseFields(args)
	if err != nil {
		return err
	}
	store, err := currentDocument(cmd)
	if err != nil {
		return err
	}
	a, err := store.AddAnnotation(cmd.Context(), fields)
	if err != nil {
		return err
	}
	cmd.Printf("Added annotation %d to document %d\n", a.ID, docFlag)
	return nil
}

func runAnnotationsUpdate(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	fields, err := parseFields(args[1:])
	if err != nil {
		return err
	}
	store, err := currentDocument(cmd)
	if err != nil {
		return err
	}
	if err := store.UpdateAnnotation(cmd.Context(), id, fields); err != nil {
		return err
	}
	cmd.Printf("Updated annotation %d\n", id)
	return nil
}

func runAnnotationsDelete(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	store, err := currentDocument(cmd)
	if err != nil {
		return err
	}
	if err := store.DeleteAnnotation(cmd.Context(), id); err != nil {
		return err
	}
	cmd.Printf("Deleted annotation %d\n", id)
	return nil
}

func runConnectionsAdd(cmd *cobra.Command, args []string) error {
	fields, err := parseFields(args)
	if err != nil {
		return err
	}
	store, err := currentDocument(cmd)
	if err != nil {
		return err
	}
	c, err := store.AddConnection(cmd.Context(), fields)
	if err != nil {
		return err
	}
	cmd.Printf("Added connection %d (%d -> %d) to document %d\n", c.ID, c.Source, c.To, docFlag)
	return nil
}

func runConnectionsUpdate(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	fields, err := parseFields(args[1:])
	if err != nil {
		return err
	}
	store, err := currentDocument(cmd)
	if err != nil {
		return err
	}
	if err := store.UpdateConnection(cmd.Context(), id, fields); err != nil {
		return err
	}
	cmd.Printf("Updated connection %d\n", id)
	return nil
}

func runConnectionsDelete(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	store, err := currentDocument(cmd)
	if err != nil {
		return err
	}
	if err := store.DeleteConnection(cmd.Context(), id); err != nil {
		return err
	}
	cmd.Printf("Deleted connection %d\n", id)
	return nil
}
