package tui

import (
	"log/slog"

	"github.com/aalvaropc/preprints/internal/infra/notify"
	"github.com/aalvaropc/preprints/internal/ports"
	"github.com/aalvaropc/preprints/internal/usecase"
)

type Deps struct {
	Locator     ports.ConfigLocator
	Initializer ports.ConfigInitializer

	// Submission is nil when no workspace was found.
	Submission    *usecase.AddPreprint
	Notifications *notify.Recorder

	Logger *slog.Logger
	Debug  bool
}
