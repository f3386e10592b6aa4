package domain

import (
	"fmt"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Panel is one step of the add-preprint wizard.
type Panel string

const (
	PanelUpload   Panel = "upload"
	PanelBasics   Panel = "basics"
	PanelSubjects Panel = "subjects"
	PanelAuthors  Panel = "authors"
	PanelSubmit   Panel = "submit"
)

var panelOrder = []Panel{PanelUpload, PanelBasics, PanelSubjects, PanelAuthors, PanelSubmit}

// Panels returns the wizard panels in order.
func Panels() []Panel {
	out := make([]Panel, len(panelOrder))
	copy(out, panelOrder)
	return out
}

// Title is the display name of the panel.
func (p Panel) Title() string { return cases.Title(language.English).String(string(p)) }

func (p Panel) index() int {
	for i, q := range panelOrder {
		if q == p {
			return i
		}
	}
	return -1
}

// ParsePanel accepts a panel key or display name.
func ParsePanel(s string) (Panel, error) {
	for _, p := range panelOrder {
		if string(p) == s || p.Title() == s {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown panel %q: %w", s, ErrInvalidInput)
}

// NextPanel returns the panel after p. Submit has none.
func NextPanel(p Panel) (Panel, error) {
	i := p.index()
	if i < 0 {
		return "", fmt.Errorf("unknown panel %q: %w", p, ErrInvalidInput)
	}
	if i == len(panelOrder)-1 {
		return p, ErrNoNextPanel
	}
	return panelOrder[i+1], nil
}

// PrevPanel returns the panel before p. Upload has none.
func PrevPanel(p Panel) (Panel, error) {
	i := p.index()
	if i < 0 {
		return "", fmt.Errorf("unknown panel %q: %w", p, ErrInvalidInput)
	}
	if i == 0 {
		return p, ErrNoPrevPanel
	}
	return panelOrder[i-1], nil
}

// PanelChecker reports whether the data behind a panel is complete.
type PanelChecker interface {
	PanelValid(p Panel) bool
}

// PanelCheckerFunc adapts a function to PanelChecker.
type PanelCheckerFunc func(p Panel) bool

func (f PanelCheckerFunc) PanelValid(p Panel) bool { return f(p) }

// Wizard tracks the open panel. Moving forward requires the open panel to be
// valid; moving back is always allowed.
type Wizard struct {
	current Panel
	checker PanelChecker
}

func NewWizard(checker PanelChecker) *Wizard {
	return &Wizard{current: PanelUpload, checker: checker}
}

func (w *Wizard) Current() Panel { return w.current }

// Advance opens the next panel.
func (w *Wizard) Advance() (Panel, error) {
	next, err := NextPanel(w.current)
	if err != nil {
		return w.current, &OpError{Op: "wizard.advance", Kind: KindValidation, Err: err}
	}
	if !w.checker.PanelValid(w.current) {
		return w.current, &OpError{
			Op:   "wizard.advance",
			Kind: KindValidation,
			Err:  fmt.Errorf("%s: %w", w.current.Title(), ErrPanelInvalid),
		}
	}
	w.current = next
	return next, nil
}

// Back opens the previous panel.
func (w *Wizard) Back() (Panel, error) {
	prev, err := PrevPanel(w.current)
	if err != nil {
		return w.current, &OpError{Op: "wizard.back", Kind: KindValidation, Err: err}
	}
	w.current = prev
	return prev, nil
}

// Open jumps to p. Earlier panels are always reachable; later ones only when
// every panel before p is valid.
func (w *Wizard) Open(p Panel) error {
	target := p.index()
	if target < 0 {
		return &OpError{Op: "wizard.open", Kind: KindValidation, Err: fmt.Errorf("unknown panel %q: %w", p, ErrInvalidInput)}
	}
	if target > w.current.index() {
		for _, q := range panelOrder[:target] {
			if !w.checker.PanelValid(q) {
				return &OpError{
					Op:   "wizard.open",
					Kind: KindValidation,
					Err:  fmt.Errorf("%s: %w", q.Title(), ErrPanelInvalid),
				}
			}
		}
	}
	w.current = p
	return nil
}

// Reset returns to the first panel.
func (w *Wizard) Reset() { w.current = PanelUpload }
