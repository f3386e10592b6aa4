package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/aalvaropc/preprints/internal/domain"
	"github.com/aalvaropc/preprints/internal/usecase"
)

const commandTimeout = 30 * time.Second

func cmdRefreshWorkspace(deps Deps) tea.Cmd {
	return func() tea.Msg {
		wd, err := os.Getwd()
		if err != nil {
			return workspaceRefreshedMsg{err: fmt.Errorf("getwd: %w", err)}
		}
		if deps.Locator == nil {
			return workspaceRefreshedMsg{cwd: wd, err: errors.New("config locator is nil")}
		}

		root, findErr := deps.Locator.FindRoot(wd)
		if findErr != nil {
			return workspaceRefreshedMsg{cwd: wd, err: findErr}
		}
		return workspaceRefreshedMsg{cwd: wd, found: true, root: root}
	}
}

func cmdInitWorkspaceHere(deps Deps, root string) tea.Cmd {
	return func() tea.Msg {
		if deps.Initializer == nil {
			return initWorkspaceDoneMsg{root: root, err: errors.New("config initializer is nil")}
		}
		return initWorkspaceDoneMsg{root: root, err: deps.Initializer.Init(root, false)}
	}
}

// cmdLoadChildren lists the subjects under the last breadcrumb entry, or the roots.
func cmdLoadChildren(s *usecase.Subjects, browse []domain.Subject) tea.Cmd {
	browse = slices.Clone(browse)
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()

		var (
			items []domain.Subject
			err   error
		)
		if len(browse) == 0 {
			items, err = s.Roots(ctx)
		} else {
			items, err = s.Children(ctx, browse[len(browse)-1].ID)
		}
		return childrenLoadedMsg{browse: browse, items: items, err: err}
	}
}

// cmdShowLevels reloads the levels of the current breadcrumb, falling back to the
// roots when nothing below them is selected.
func cmdShowLevels(s *usecase.Subjects) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()

		if err := s.Refresh(ctx); err != nil {
			return childrenLoadedMsg{err: err}
		}
		if browse, items, ok := levelView(s.Current(), s.Levels()); ok {
			return childrenLoadedMsg{browse: browse, items: items}
		}
		items, err := s.Roots(ctx)
		return childrenLoadedMsg{items: items, err: err}
	}
}

func cmdSelect(s *usecase.Subjects, crumbs []domain.Subject) tea.Cmd {
	crumbs = slices.Clone(crumbs)
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()

		selected, err := s.Select(ctx, crumbs)
		return selectDoneMsg{crumbs: crumbs, selected: selected, err: err}
	}
}

func cmdMovePanel(a *usecase.AddPreprint, forward bool) tea.Cmd {
	return func() tea.Msg {
		var (
			p   domain.Panel
			err error
		)
		if forward {
			p, err = a.Next()
		} else {
			p, err = a.Back()
		}
		return panelMovedMsg{panel: p, err: err}
	}
}
