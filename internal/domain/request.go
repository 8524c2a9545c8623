package domain

// PageRequest is one call to the log query endpoint: the query plus the
// continuation cursor (empty for the first page of a tail).
type PageRequest struct {
	LogQuery
	Cursor string
}
