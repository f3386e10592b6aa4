package ports

import (
	"context"

	"github.com/aalvaropc/preprints/internal/domain"
)

// TaxonomyProvider lists the children of a taxonomy node, in backend order.
// parentID domain.RootParent lists the top-level taxonomies.
type TaxonomyProvider interface {
	Children(ctx context.Context, parentID string, pageSize int) ([]domain.Subject, error)
}
