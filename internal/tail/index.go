package tail

import "github.com/vburojevic/jittail/internal/domain"

// Index is the deduplicated, append-only view of a tail.
// Every element of view has exactly one key in seen. Index is not safe for
// concurrent use; the owning Session serializes access.
type Index struct {
	seen map[domain.Key]struct{}
	view []domain.RawLogItem
}

// NewIndex creates an empty index
func NewIndex() *Index {
	return &Index{seen: make(map[domain.Key]struct{})}
}

// Merge appends items whose identity has not been seen yet, in the order
// given, and returns the newly accepted items. Merging the same items again
// accepts nothing.
func (ix *Index) Merge(items []domain.RawLogItem) []domain.RawLogItem {
	var fresh []domain.RawLogItem
	for _, item := range items {
		key := item.Key()
		if _, ok := ix.seen[key]; ok {
			continue
		}
		ix.seen[key] = struct{}{}
		ix.view = append(ix.view, item)
		fresh = append(fresh, item)
	}
	return fresh
}

// Contains reports whether key has been accepted
func (ix *Index) Contains(key domain.Key) bool {
	_, ok := ix.seen[key]
	return ok
}

// Len returns the number of accepted items
func (ix *Index) Len() int {
	return len(ix.view)
}

// View returns a copy of the accepted items in acceptance order
func (ix *Index) View() []domain.RawLogItem {
	if len(ix.view) == 0 {
		return nil
	}
	dup := make([]domain.RawLogItem, len(ix.view))
	copy(dup, ix.view)
	return dup
}

// Reset drops every accepted item
func (ix *Index) Reset() {
	ix.seen = make(map[domain.Key]struct{})
	ix.view = nil
}
