package tui

import (
	"context"
	"errors"
	"net/http"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/aalvaropc/preprints/internal/domain"
)

var reLine = regexp.MustCompile(`(?i)\bline\s+(\d+)\b`)

// userMessage turns an error into a one-line message for the status area.
func userMessage(err error) string {
	if err == nil {
		return ""
	}

	switch {
	case errors.Is(err, domain.ErrNoNextPanel):
		return "Already on the last panel"
	case errors.Is(err, domain.ErrNoPrevPanel):
		return "Already on the first panel"
	case errors.Is(err, domain.ErrPanelInvalid):
		return "Complete this panel before moving on"
	case errors.Is(err, domain.ErrNoProject):
		return "Choose a project first"
	case errors.Is(err, domain.ErrNoPendingUpload):
		return "Choose a file first"
	}

	var oe *domain.OpError
	if errors.As(err, &oe) {
		switch oe.Kind {
		case domain.KindNotFound:
			if strings.Contains(oe.Op, "workspacefinder.findroot") {
				return "Workspace not found"
			}
			return "Not found"

		case domain.KindRemote:
			switch domain.RemoteStatus(err) {
			case http.StatusUnauthorized, http.StatusForbidden:
				return "Not allowed (check PREPRINTS_TOKEN)"
			case 0:
				return "Server unreachable"
			}
			return "Server error (see logs)"

		case domain.KindInvalidConfig:
			base := "config"
			if strings.TrimSpace(oe.Path) != "" {
				base = filepath.Base(oe.Path)
			}
			if line := extractLine(err.Error()); line != "" {
				return "Invalid YAML at " + base + " line " + line
			}
			if looksLikeYAMLProblem(err.Error()) {
				return "Invalid YAML at " + base
			}
			return "Invalid config"
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return "Request timed out"
	}
	return "Unexpected error (see logs)"
}

func looksLikeYAMLProblem(s string) bool {
	ls := strings.ToLower(s)
	return strings.Contains(ls, "yaml:") || strings.Contains(ls, "did not find expected") || strings.Contains(ls, "cannot unmarshal")
}

func extractLine(s string) string {
	if m := reLine.FindStringSubmatch(s); len(m) == 2 {
		return m[1]
	}
	return ""
}
