package ports

import (
	"context"

	"github.com/aalvaropc/preprints/internal/domain"
)

// PreprintSubmitter creates the preprint resource.
type PreprintSubmitter interface {
	SubmitPreprint(ctx context.Context, draft domain.PreprintDraft) (domain.Preprint, error)
}
