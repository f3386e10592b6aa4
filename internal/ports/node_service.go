package ports

import (
	"context"

	"github.com/aalvaropc/preprints/internal/domain"
)

// NodeService performs project/component actions for the current user.
type NodeService interface {
	ListUserNodes(ctx context.Context) ([]domain.Node, error)
	CreateNode(ctx context.Context, n domain.NewNode) (domain.Node, error)
	AddChild(ctx context.Context, parentID string, n domain.NewNode) (domain.Node, error)
	DeleteNode(ctx context.Context, id string) error
	StorageProviders(ctx context.Context, nodeID string) ([]domain.StorageProvider, error)
	Contributors(ctx context.Context, nodeID string) ([]domain.Contributor, error)
}
