package ports

import (
	"context"

	"github.com/aalvaropc/preprints/internal/domain"
)

// FileUploader sends a local file to a ready-made upload URL.
type FileUploader interface {
	Upload(ctx context.Context, uploadURL string, file domain.UploadFile) (domain.UploadedFile, error)
}
