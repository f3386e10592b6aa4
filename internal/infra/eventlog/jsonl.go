package eventlog

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/aalvaropc/preprints/internal/domain"
	"github.com/aalvaropc/preprints/internal/ports"
)

const maskValue = "********"

// JSONLSink appends analytics events, one JSON object per line.
type JSONLSink struct {
	path           string
	maskingEnabled bool
	now            func() time.Time
	newID          func() string

	mu sync.Mutex
}

type Option func(*JSONLSink)

// WithMasking controls whether sensitive labels are replaced before writing.
func WithMasking(enabled bool) Option {
	return func(s *JSONLSink) { s.maskingEnabled = enabled }
}

// WithNow is useful for tests.
func WithNow(now func() time.Time) Option {
	return func(s *JSONLSink) { s.now = now }
}

// WithIDs replaces the uuid generator.
func WithIDs(newID func() string) Option {
	return func(s *JSONLSink) { s.newID = newID }
}

// NewJSONLSink writes to path; a relative path is resolved against root.
func NewJSONLSink(root, path string, opts ...Option) *JSONLSink {
	if !filepath.IsAbs(path) {
		path = filepath.Join(root, path)
	}
	s := &JSONLSink{
		path:           path,
		maskingEnabled: true,
		now:            time.Now,
		newID:          uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ ports.EventSink = (*JSONLSink)(nil)

func (s *JSONLSink) Path() string { return s.path }

func (s *JSONLSink) Track(ev domain.Event) error {
	if ev.ID == "" {
		ev.ID = s.newID()
	}
	if ev.At.IsZero() {
		ev.At = s.now()
	}
	ev.At = ev.At.UTC()
	if s.maskingEnabled && isSensitiveLabel(ev.Label) {
		ev.Label = maskValue
	}

	line, err := json.Marshal(ev)
	if err != nil {
		return &domain.OpError{Op: "eventlog.marshal", Kind: domain.KindExecution, Path: s.path, Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return &domain.OpError{Op: "eventlog.mkdir", Kind: domain.KindExecution, Path: s.path, Err: err}
	}
	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return &domain.OpError{Op: "eventlog.open", Kind: domain.KindExecution, Path: s.path, Err: err}
	}
	defer f.Close()

	if _, err := f.Write(append(line, '\n')); err != nil {
		return &domain.OpError{Op: "eventlog.write", Kind: domain.KindExecution, Path: s.path, Err: err}
	}
	return nil
}

// isSensitiveLabel reports labels that carry an address or a credential.
func isSensitiveLabel(label string) bool {
	l := strings.ToLower(label)
	if strings.HasPrefix(l, "mailto:") || strings.Contains(l, "@") {
		return true
	}
	return strings.Contains(l, "token") ||
		strings.Contains(l, "secret") ||
		strings.Contains(l, "password")
}

// Discard drops every event. Used when analytics are disabled.
type Discard struct{}

func (Discard) Track(domain.Event) error { return nil }
