package tui

import "github.com/aalvaropc/preprints/internal/domain"

type workspaceRefreshedMsg struct {
	cwd   string
	found bool
	root  string
	err   error
}

type initWorkspaceDoneMsg struct {
	root string
	err  error
}

type childrenLoadedMsg struct {
	browse []domain.Subject
	items  []domain.Subject
	err    error
}

type selectDoneMsg struct {
	crumbs   []domain.Subject
	selected bool
	err      error
}

type panelMovedMsg struct {
	panel domain.Panel
	err   error
}
