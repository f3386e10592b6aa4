package usecase

import (
	"context"
	"log/slog"
	"net/url"
	"strings"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/aalvaropc/preprints/internal/domain"
	"github.com/aalvaropc/preprints/internal/ports"
)

// Index is what the landing page shows.
type Index struct {
	Theme    domain.Theme     `json:"theme"`
	Subjects []domain.Subject `json:"subjects"`
	// Total is nil when the search index could not be reached.
	Total     *int64 `json:"total,omitempty"`
	TotalText string `json:"total_text,omitempty"`
}

// ProviderRoute is the outcome of opening /<slug>.
type ProviderRoute struct {
	Theme    domain.Theme `json:"theme"`
	Provider string       `json:"provider,omitempty"`
	// Redirect is set when slug is not a configured brand.
	Redirect string `json:"redirect,omitempty"`
}

// Landing serves the discovery side: landing index, provider pages, search
// hand-off and contact links.
type Landing struct {
	taxonomy      ports.TaxonomyProvider
	counter       ports.SearchCounter
	events        ports.EventSink
	brands        domain.Brands
	rootsPageSize int
	webURL        string
	log           *slog.Logger
}

type LandingOption func(*Landing)

func WithLandingLogger(l *slog.Logger) LandingOption {
	return func(x *Landing) {
		if l != nil {
			x.log = l
		}
	}
}

func NewLanding(cfg domain.Config, taxonomy ports.TaxonomyProvider, counter ports.SearchCounter, events ports.EventSink, opts ...LandingOption) *Landing {
	l := &Landing{
		taxonomy:      taxonomy,
		counter:       counter,
		events:        events,
		brands:        cfg.Brands,
		rootsPageSize: cfg.Taxonomy.RootsPageSize,
		webURL:        cfg.Web.URL,
		log:           discardLogger(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Index loads the top-level subjects and the preprint count together.
// A failing count leaves Total unset; a failing subject listing is returned.
func (l *Landing) Index(ctx context.Context, theme domain.Theme) (Index, error) {
	out := Index{Theme: theme}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		roots, err := l.taxonomy.Children(gctx, domain.RootParent, l.rootsPageSize)
		if err != nil {
			return err
		}
		out.Subjects = roots
		return nil
	})
	var total *int64
	if l.counter != nil {
		g.Go(func() error {
			n, err := l.counter.CountPreprints(gctx)
			if err != nil {
				l.log.Warn("landing.count.failed", "err", err)
				return nil
			}
			total = &n
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Index{Theme: theme}, err
	}

	if total != nil {
		out.Total = total
		out.TotalText = FormatCount(*total)
	}
	return out, nil
}

// Provider resolves a brand slug. Unknown slugs redirect to the generic content route.
func (l *Landing) Provider(slug string) ProviderRoute {
	theme, ok := l.brands.ForProvider(slug)
	if !ok {
		return ProviderRoute{Theme: theme, Redirect: "/content/" + url.PathEscape(slug)}
	}
	return ProviderRoute{Theme: theme, Provider: theme.Name}
}

// SearchURL is the discover page for query.
func (l *Landing) SearchURL(query string) string {
	base := strings.TrimSuffix(l.webURL, "/") + "/preprints/discover"
	return base + "?" + url.Values{"queryString": {strings.TrimSpace(query)}}.Encode()
}

// ContactLink records a click on a contact or share link and reports whether
// a share window should open. Email links open the mail client instead.
func (l *Landing) ContactLink(label string) (bool, error) {
	err := l.events.Track(domain.Event{Category: "link", Action: "click", Label: label})
	if err != nil {
		l.log.Warn("analytics.track.failed", "label", label, "err", err)
	}
	return !strings.Contains(strings.ToLower(label), "email"), err
}

// FormatCount renders n with thousands separators.
func FormatCount(n int64) string {
	return message.NewPrinter(language.English).Sprintf("%d", n)
}
