package ports

import (
	"context"

	"github.com/aalvaropc/preprints/internal/domain"
)

// ContributorSearch finds users by full name.
type ContributorSearch interface {
	SearchUsers(ctx context.Context, fullName string, page domain.Page) (domain.UserPage, error)
}
