package tui

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/aalvaropc/preprints/internal/domain"
	"github.com/aalvaropc/preprints/internal/usecase"
)

// maxPathWidth caps one rendered subject path.
const maxPathWidth = 96

func clampString(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))

	n := 0
	for _, r := range s {
		if n >= maxLen {
			break
		}
		b.WriteRune(r)
		n++
	}
	return b.String() + "…"
}

// renderPanels lists the wizard panels with their state.
func renderPanels(t Theme, a *usecase.AddPreprint) string {
	current := a.Panel()
	lines := make([]string, 0, len(domain.Panels())+4)

	for i, p := range domain.Panels() {
		mark := t.Invalid.Render("✗")
		if a.PanelValid(p) {
			mark = t.Valid.Render("✓")
		}
		name := fmt.Sprintf("%d. %s", i+1, p.Title())
		if p == current {
			name = t.Current.Render(name)
		}
		lines = append(lines, mark+" "+name)
	}

	lines = append(lines, "")
	if node, ok := a.Node(); ok {
		lines = append(lines, "Project: "+clampString(node.Title, maxPathWidth))
	}
	if f, ok := a.Uploaded(); ok {
		lines = append(lines, "File:    "+f.Name)
	} else if p, ok := a.Pending(); ok {
		lines = append(lines, "File:    "+p.File.Name+" (pending)")
	}
	if _, v := a.Basics(); !v.IsValid() && current == domain.PanelBasics {
		lines = append(lines, t.Invalid.Render(v.Error()))
	}
	lines = append(lines, fmt.Sprintf("Subjects: %d path(s)", len(a.Subjects().Flatten())))
	lines = append(lines, fmt.Sprintf("Authors:  %d contributor(s)", len(a.Contributors())))
	return joinLines(lines)
}

// renderSelection prints one subject path per line.
func renderSelection(paths []domain.Path) string {
	if len(paths) == 0 {
		return "(no subjects selected)"
	}
	lines := make([]string, len(paths))
	for i, p := range paths {
		lines[i] = "- " + clampString(p.String(), maxPathWidth)
	}
	return joinLines(lines)
}
