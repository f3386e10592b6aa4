package config

import (
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/aalvaropc/preprints/internal/domain"
)

// FileName is the configuration file looked up in the workspace root.
const FileName = "preprints.yaml"

// Environment overrides, applied after the file.
const (
	EnvToken  = "PREPRINTS_TOKEN"
	EnvAPIURL = "PREPRINTS_API_URL"
)

// LoadConfig loads preprints.yaml from root and applies defaults and environment overrides.
// A missing file yields the defaults together with a not_found error.
func LoadConfig(root string) (domain.Config, error) {
	path := filepath.Join(root, FileName)
	b, err := os.ReadFile(path)
	if err != nil {
		return applyEnv(domain.DefaultConfig()), &domain.OpError{
			Op:   "config.load",
			Kind: domain.KindNotFound,
			Path: path,
			Err:  err,
		}
	}

	var y YAMLConfig
	if err := yaml.Unmarshal(b, &y); err != nil {
		return domain.DefaultConfig(), &domain.OpError{
			Op:   "config.load",
			Kind: domain.KindInvalidConfig,
			Path: path,
			Err:  err,
		}
	}

	cfg, err := MapConfig(path, y)
	if err != nil {
		return cfg, err
	}
	return applyEnv(cfg), nil
}

// LoadDraft reads a submission draft file.
func LoadDraft(path string) (domain.SubmissionDraft, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return domain.SubmissionDraft{}, &domain.OpError{
			Op:   "config.load_draft",
			Kind: domain.KindNotFound,
			Path: path,
			Err:  err,
		}
	}

	var y YAMLDraft
	if err := yaml.Unmarshal(b, &y); err != nil {
		return domain.SubmissionDraft{}, &domain.OpError{
			Op:   "config.load_draft",
			Kind: domain.KindInvalidConfig,
			Path: path,
			Err:  err,
		}
	}

	return MapDraft(path, y)
}

func applyEnv(cfg domain.Config) domain.Config {
	if v := strings.TrimSpace(os.Getenv(EnvToken)); v != "" {
		cfg.API.Token = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvAPIURL)); v != "" {
		cfg.API.URL = v
	}
	return cfg
}
