package cli

import (
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/labelkit/internal/core/domain"
)

var docsCmd = &cobra.Command{
	Use:     "docs",
	Aliases: []string{"documents"},
	Short:   "Manage project documents",
	Long:    `List, upload, export, edit, delete, assign and approve the documents of a project.`,
}

var docsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List one page of documents",
	Args:  cobra.NoArgs,
	RunE:  runDocsList,
}

var docsShowCmd = &cobra.Command{
	Use:   "show [doc-id]",
	Short: "Show a document with its annotations and connections",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocsShow,
}

var docsUploadCmd = &cobra.Command{
	Use:   "upload [file]",
	Short: "Upload a file of documents",
	Long: `Upload a local file for the server to split into documents.

Formats: plain, csv, json, conll, excel.`,
	Args: cobra.ExactArgs(1),
	RunE: runDocsUpload,
}

var docsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Download every document of the project",
	Long: `Download every document of the project in one file.

Formats: csv, json, json1. The file is written to the downloads directory
as file.<format>.`,
	Args: cobra.NoArgs,
	RunE: runDocsExport,
}

var docsUpdateCmd = &cobra.Command{
	Use:   "update [doc-id] [key=value]...",
	Short: "Patch fields of a document",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runDocsUpdate,
}

var docsDeleteCmd = &cobra.Command{
	Use:   "delete [doc-id]...",
	Short: "Delete documents",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runDocsDelete,
}

var docsAssignCmd = &cobra.Command{
	Use:   "assign [user-id] [username] [doc-id]...",
	Short: "Assign documents to a user",
	Long: `Assign documents to a user. Documents on the first page that already list
the user as annotator or approver are skipped.`,
	Args: cobra.MinimumNArgs(3),
	RunE: runDocsAssign,
}

var docsUnassignCmd = &cobra.Command{
	Use:   "unassign [doc-id]...",
	Short: "Remove the assignments of documents",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runDocsUnassign,
}

var docsAssignRandomCmd = &cobra.Command{
	Use:   "assign-random",
	Short: "Let the server assign documents to every user of a role",
	Args:  cobra.NoArgs,
	RunE:  runDocsAssignRandom,
}

var docsApproveCmd = &cobra.Command{
	Use:   "approve [doc-id]",
	Short: "Toggle the approval of a document",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocsApprove,
}

// Flags for docs commands.
var (
	listLimit    int
	listOffset   int
	listQuery    string
	listFilter   string
	listChecked  string
	uploadFormat string
	uploadSplit  string
	exportFormat string
	randomRole   string
	randomNumber int
)

func init() {
	docsListCmd.Flags().IntVar(&listLimit, "limit", domain.DefaultLimit, "Documents per page")
	docsListCmd.Flags().IntVar(&listOffset, "offset", domain.DefaultOffset, "Index of the first document")
	docsListCmd.Flags().StringVarP(&listQuery, "query", "q", "", "Full-text search")
	docsListCmd.Flags().StringVar(&listFilter, "filter", "", "Filter name sent to the server")
	docsListCmd.Flags().StringVar(&listChecked, "checked", "", "Only checked (true) or unchecked (false) documents")

	docsUploadCmd.Flags().StringVarP(&uploadFormat, "format", "f", string(domain.UploadPlain), "Upload format")
	docsUploadCmd.Flags().StringVar(&uploadSplit, "splitter", domain.DefaultSplitter, "Separator between documents")

	docsExportCmd.Flags().StringVarP(&exportFormat, "format", "f", string(domain.ExportJSON), "Export format")
	docsExportCmd.Flags().StringVar(&opts.DownloadsDir, "out-dir", "", "Directory to write to (default: downloads.dir)")

	docsAssignRandomCmd.Flags().StringVar(&randomRole, "role", domain.RoleAnnotator, "Role whose users receive documents")
	docsAssignRandomCmd.Flags().IntVarP(&randomNumber, "number", "n", 1, "Documents per user")

	docsCmd.AddCommand(docsListCmd)
	docsCmd.AddCommand(docsShowCmd)
	docsCmd.AddCommand(docsUploadCmd)
	docsCmd.AddCommand(docsExportCmd)
	docsCmd.AddCommand(docsUpdateCmd)
	docsCmd.AddCommand(docsDeleteCmd)
	docsCmd.AddCommand(docsAssignCmd)
	docsCmd.AddCommand(docsUnassignCmd)
	docsCmd.AddCommand(docsAssignRandomCmd)
	docsCmd.AddCommand(docsApproveCmd)
	rootCmd.AddCommand(docsCmd)
}

func runDocsList(cmd *cobra.Command, _ []string) error {
	store, err := documentStore()
	if err != nil {
		return err
	}

	var patch domain.SearchOptionsPatch
	flags := cmd.Flags()
	if flags.Changed("limit") {
		patch.Limit = &listLimit
	}
	if flags.Changed("offset") {
		patch.Offset = &listOffset
	}
	if flags.Changed("query") {
		patch.Query = &listQuery
	}
	if flags.Changed("filter") {
		patch.FilterName = &listFilter
	}
	if flags.Changed("checked") {
		patch.IsChecked = &listChecked
	}
	store.UpdateSearchOptions(patch)

	if err := store.List(cmd.Context()); err != nil {
		return err
	}

	docs := store.Items()
	if len(docs) == 0 {
		cmd.Printf("No documents found in project %d\n", store.ProjectID())
		return nil
	}

	so := store.SearchOptions()
	cmd.Printf("Documents %d-%d of %d (page %d)\n\n", so.Offset+1, so.Offset+len(docs), store.Total(), so.Page())
	for i := range docs {
		printDocumentLine(cmd, &docs[i])
	}
	return nil
}

func printDocumentLine(cmd *cobra.Command, doc *domain.Document) {
	mark := " "
	if doc.IsApproved() {
		mark = "✓"
	}
	cmd.Printf("  %s %-6d %s\n", mark, doc.ID, truncate(doc.Text, 60))
}

func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-3]) + "..."
}

func runDocsShow(cmd *cobra.Command, args []string) error {
	docID, err := parseID(args[0])
	if err != nil {
		return err
	}
	store, err := documentStore()
	if err != nil {
		return err
	}
	if err := store.Locate(cmd.Context(), docID); err != nil {
		return err
	}

	doc, _ := store.Current()
	printDocument(cmd, &doc)
	return nil
}

func printDocument(cmd *cobra.Command, doc *domain.Document) {
	cmd.Printf("Document %d\n", doc.ID)
	if doc.IsApproved() {
		cmd.Printf("  Approved by: %s\n", *doc.AnnotationApprover)
	} else {
		cmd.Println("  Approved by: (not approved)")
	}
	if len(doc.AnnotatorAssign) > 0 {
		cmd.Printf("  Annotators: %s\n", strings.Join(doc.AnnotatorAssign, ", "))
	}
	if len(doc.ApproverAssign) > 0 {
		cmd.Printf("  Approvers: %s\n", strings.Join(doc.ApproverAssign, ", "))
	}
	cmd.Println()
	cmd.Println(doc.Text)
	cmd.Println()

	cmd.Printf("Annotations (%d):\n", len(doc.Annotations))
	for _, a := range doc.Annotations {
		cmd.Printf("  #%d label=%d [%d:%d] %q\n", a.ID, a.Label, a.StartOffset, a.EndOffset, doc.Span(a))
	}
	cmd.Printf("Connections (%d):\n", len(doc.Connections))
	for _, c := range doc.Connections {
		cmd.Printf("  #%d %d -> %d relation=%d\n", c.ID, c.Source, c.To, c.Relation)
	}
}

func runDocsUpload(cmd *cobra.Command, args []string) error {
	store, err := documentStore()
	if err != nil {
		return err
	}
	if err := store.Upload(cmd.Context(), args[0], domain.UploadFormat(uploadFormat), uploadSplit); err != nil {
		return err
	}
	cmd.Printf("Uploaded %s; project %d now has %d documents\n", args[0], store.ProjectID(), store.Total())
	return nil
}

func runDocsExport(cmd *cobra.Command, _ []string) error {
	store, err := documentStore()
	if err != nil {
		return err
	}
	path, err := store.Export(cmd.Context(), domain.ExportFormat(exportFormat))
	if err != nil {
		return err
	}
	cmd.Printf("Exported documents to %s\n", path)
	return nil
}

func runDocsUpdate(cmd *cobra.Command, args []string) error {
	docID, err := parseID(args[0])
	if err != nil {
		return err
	}
	fields, err := parseFields(args[1:])
	if err != nil {
		return err
	}
	store, err := documentStore()
	if err != nil {
		return err
	}
	if err := store.Update(cmd.Context(), docID, fields); err != nil {
		return err
	}
	cmd.Printf("Updated document %d\n", docID)
	return nil
}

func runDocsDelete(cmd *cobra.Command, args []string) error {
	ids, err := parseIDs(args)
	if err != nil {
		return err
	}
	store, err := documentStore()
	if err != nil {
		return err
	}
	store.UpdateSelected(ids)
	return reportBulk(cmd, "Deleted", "documents", store.DeleteSelected(cmd.Context()))
}

func runDocsAssign(cmd *cobra.Command, args []string) error {
	userID, err := parseID(args[0])
	if err != nil {
		return err
	}
	username := args[1]
	ids, err := parseIDs(args[2:])
	if err != nil {
		return err
	}
	store, err := documentStore()
	if err != nil {
		return err
	}
	if err := store.List(cmd.Context()); err != nil {
		return err
	}
	store.UpdateSelected(ids)
	return reportBulk(cmd, "Assigned", "documents", store.AddMapping(cmd.Context(), userID, username))
}

func runDocsUnassign(cmd *cobra.Command, args []string) error {
	ids, err := parseIDs(args)
	if err != nil {
		return err
	}
	store, err := documentStore()
	if err != nil {
		return err
	}
	store.UpdateSelected(ids)
	return reportBulk(cmd, "Unassigned", "documents", store.RemoveMapping(cmd.Context()))
}

func runDocsAssignRandom(cmd *cobra.Command, _ []string) error {
	store, err := documentStore()
	if err != nil {
		return err
	}
	if err := store.RandomMapping(cmd.Context(), randomRole, randomNumber); err != nil {
		return err
	}
	cmd.Printf("Assigned %d documents to every %s\n", randomNumber, randomRole)
	return nil
}

func runDocsApprove(cmd *cobra.Command, args []string) error {
	docID, err := parseID(args[0])
	if err != nil {
		return err
	}
	store, err := documentStore()
	if err != nil {
		return err
	}
	if err := store.Locate(cmd.Context(), docID); err != nil {
		return err
	}
	if err := store.Approve(cmd.Context()); err != nil {
		return err
	}
	state := "unapproved"
	if store.Approved() {
		state = "approved"
	}
	cmd.Printf("Document %d %s\n", docID, state)
	return nil
}
