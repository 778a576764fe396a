package domain

// Default paging values for document listings.
const (
	DefaultLimit  = 10
	DefaultOffset = 0
)

// SearchOptions drives document list retrieval.
type SearchOptions struct {
	// Limit is the page size.
	Limit int

	// Offset is the number of documents to skip.
	Offset int

	// Query is the free-text search string.
	Query string

	// IsChecked is the value sent for the dynamic filter field.
	IsChecked string

	// FilterName is the name of the boolean filter field,
	// e.g. "seq_annotations__isnull". Empty disables filtering.
	FilterName string
}

// DefaultSearchOptions returns the options a fresh store starts with.
func DefaultSearchOptions() SearchOptions {
	return SearchOptions{
		Limit:  DefaultLimit,
		Offset: DefaultOffset,
	}
}

// SearchOptionsPatch is a partial update of SearchOptions.
// Nil fields are left untouched.
type SearchOptionsPatch struct {
	Limit      *int
	Offset     *int
	Query      *string
	IsChecked  *string
	FilterName *string
}

// Apply merges the non-nil fields of p into o.
func (p SearchOptionsPatch) Apply(o SearchOptions) SearchOptions {
	if p.Limit != nil {
		o.Limit = *p.Limit
	}
	if p.Offset != nil {
		o.Offset = *p.Offset
	}
	if p.Query != nil {
		o.Query = *p.Query
	}
	if p.IsChecked != nil {
		o.IsChecked = *p.IsChecked
	}
	if p.FilterName != nil {
		o.FilterName = *p.FilterName
	}
	return o
}

// Page returns the 1-based page number for the current offset.
func (o SearchOptions) Page() int {
	if o.Limit <= 0 {
		return 1
	}
	return o.Offset/o.Limit + 1
}
