package usecase

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/aalvaropc/preprints/internal/domain"
	"github.com/aalvaropc/preprints/internal/ports"
)

// visibleDepth is how many breadcrumb prefixes get their children listed.
const visibleDepth = 2

// Subjects is the subject picker of the submit wizard: the selection tree,
// the displayed breadcrumb and the taxonomy levels shown for it.
//
// Every mutation bumps a generation. Level refreshes started for an older
// generation are dropped when they finish, so a slow response never
// overwrites the levels of a newer click.
type Subjects struct {
	provider ports.TaxonomyProvider
	pageSize int
	log      *slog.Logger

	mu      sync.Mutex
	sel     *domain.Selection
	gen     uint64
	levels  []domain.Level
	cache   map[string][]domain.Subject
	cacheMu sync.Mutex
}

type SubjectsOption func(*Subjects)

func WithSubjectsLogger(l *slog.Logger) SubjectsOption {
	return func(s *Subjects) {
		if l != nil {
			s.log = l
		}
	}
}

func NewSubjects(provider ports.TaxonomyProvider, pageSize int, opts ...SubjectsOption) *Subjects {
	if pageSize <= 0 {
		pageSize = domain.DefaultConfig().Taxonomy.PageSize
	}
	s := &Subjects{
		provider: provider,
		pageSize: pageSize,
		log:      discardLogger(),
		sel:      domain.NewSelection(),
		cache:    map[string][]domain.Subject{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Roots lists the top-level taxonomies.
func (s *Subjects) Roots(ctx context.Context) ([]domain.Subject, error) {
	return s.children(ctx, domain.RootParent)
}

// Select applies a click on the breadcrumb and refreshes the visible levels.
// It reports whether the clicked subject is selected afterwards. The selection
// change sticks even when the refresh fails.
func (s *Subjects) Select(ctx context.Context, crumbs []domain.Subject) (bool, error) {
	s.mu.Lock()
	selected := s.sel.Select(crumbs)
	s.gen++
	gen, current := s.gen, s.sel.Current()
	s.mu.Unlock()

	s.log.Debug("subjects.select", "path", crumbNames(crumbs).String(), "selected", selected, "gen", gen)

	return selected, s.refresh(ctx, gen, current)
}

// Deselect removes path and everything selected below it. Unknown paths are ignored.
func (s *Subjects) Deselect(path domain.Path) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := s.sel.Deselect(path)
	s.log.Debug("subjects.deselect", "path", path.String(), "removed", removed)
	return removed
}

// Restore selects every path as-is, keeping the displayed breadcrumb.
func (s *Subjects) Restore(paths []domain.Path) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range paths {
		s.sel.Add(p)
	}
}

// Flatten returns the selection in submission form.
func (s *Subjects) Flatten() []domain.Path {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sel.Flatten()
}

// Current returns the displayed breadcrumb.
func (s *Subjects) Current() []domain.Subject {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sel.Current()
}

// IsSelected reports whether path is on a selected branch.
func (s *Subjects) IsSelected(path domain.Path) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sel.IsSelected(path)
}

// Levels returns the children lists for the displayed breadcrumb, shallowest first.
func (s *Subjects) Levels() []domain.Level {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Level, len(s.levels))
	copy(out, s.levels)
	return out
}

// Refresh reloads the visible levels for the current breadcrumb.
func (s *Subjects) Refresh(ctx context.Context) error {
	s.mu.Lock()
	gen, current := s.gen, s.sel.Current()
	s.mu.Unlock()
	return s.refresh(ctx, gen, current)
}

// Reset clears the selection and the visible levels.
func (s *Subjects) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sel.Reset()
	s.gen++
	s.levels = nil
}

func (s *Subjects) refresh(ctx context.Context, gen uint64, current []domain.Subject) error {
	n := min(len(current), visibleDepth)
	levels := make([]domain.Level, n)

	g, gctx := errgroup.WithContext(ctx)
	for i := range n {
		parent := current[i]
		g.Go(func() error {
			children, err := s.children(gctx, parent.ID)
			if err != nil {
				return err
			}
			levels[i] = domain.Level{Subject: parent, Children: children}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.log.Warn("subjects.levels.failed", "gen", gen, "err", err)
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		s.log.Debug("subjects.levels.stale", "gen", gen, "latest", s.gen)
		return nil
	}
	s.levels = levels
	return nil
}

func (s *Subjects) children(ctx context.Context, parentID string) ([]domain.Subject, error) {
	s.cacheMu.Lock()
	cached, ok := s.cache[parentID]
	s.cacheMu.Unlock()
	if ok {
		return cached, nil
	}

	children, err := s.provider.Children(ctx, parentID, s.pageSize)
	if err != nil {
		return nil, err
	}

	s.cacheMu.Lock()
	s.cache[parentID] = children
	s.cacheMu.Unlock()
	return children, nil
}

func crumbNames(crumbs []domain.Subject) domain.Path {
	p := make(domain.Path, 0, len(crumbs))
	for _, c := range crumbs {
		p = append(p, c.Name)
	}
	return p
}

// Children lists the children of a subject, served from the level cache when possible.
func (s *Subjects) Children(ctx context.Context, parentID string) ([]domain.Subject, error) {
	return s.children(ctx, parentID)
}
