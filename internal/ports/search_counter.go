package ports

import "context"

// SearchCounter returns the number of preprints in the search index.
type SearchCounter interface {
	CountPreprints(ctx context.Context) (int64, error)
}
