package domain

// Relation is a reusable connection type shared across a project's
// documents.
type Relation struct {
	ID    int    `json:"id"`
	Text  string `json:"text"`
	Color string `json:"color"`
}
