package domain

import "time"

// Annotation is a labelled span attached to a Document.
type Annotation struct {
	ID          int       `json:"id"`
	Label       int       `json:"label"`
	StartOffset int       `json:"start_offset"`
	EndOffset   int       `json:"end_offset"`
	User        int       `json:"user"`
	Username    string    `json:"username"`
	Document    int       `json:"document"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Connection is a typed directed link between two annotations of the
// same document. Source and To are annotation ids; Relation is the id of
// the relation type.
type Connection struct {
	ID       int `json:"id"`
	Document int `json:"document"`
	Source   int `json:"source"`
	To       int `json:"to"`
	Relation int `json:"relation"`
}
