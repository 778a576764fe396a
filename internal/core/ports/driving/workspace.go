package driving

// Workspace is the application-state container handed to every driving
// adapter. It owns one store of each kind per project.
type Workspace interface {
	// Documents returns the document store for a project.
	Documents(projectID int) DocumentStore

	// Relations returns the relation store for a project.
	Relations(projectID int) RelationStore
}
