package workspacefinder

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/aalvaropc/preprints/internal/domain"
	"github.com/aalvaropc/preprints/internal/infra/config"
)

// Finder locates the directory holding preprints.yaml, searching upward.
type Finder struct {
	configFile string
}

type Option func(*Finder)

// WithConfigFile changes the file name the finder looks for.
func WithConfigFile(name string) Option {
	return func(f *Finder) {
		if name != "" {
			f.configFile = name
		}
	}
}

func NewFinder(opts ...Option) *Finder {
	f := &Finder{configFile: config.FileName}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// FindRoot returns the nearest ancestor of start (inclusive) that holds the config file.
// When start names a file, the search begins in its directory.
func (f *Finder) FindRoot(start string) (string, error) {
	const op = "workspacefinder.findroot"
	if start == "" {
		return "", &domain.OpError{Op: op, Kind: domain.KindInvalidConfig, Err: errors.New("start directory is empty")}
	}

	dir, err := filepath.Abs(start)
	if err != nil {
		return "", &domain.OpError{Op: op, Kind: domain.KindExecution, Path: start, Err: err}
	}
	if info, statErr := os.Stat(dir); statErr == nil && !info.IsDir() {
		dir = filepath.Dir(dir)
	}

	for dir = filepath.Clean(dir); ; {
		if _, err := os.Stat(filepath.Join(dir, f.configFile)); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", &domain.OpError{Op: op, Kind: domain.KindNotFound, Path: start, Err: domain.ErrNotFound}
		}
		dir = parent
	}
}
