package config

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/aalvaropc/preprints/internal/domain"
)

// MapConfig applies the parsed file on top of domain.DefaultConfig and validates the result.
func MapConfig(path string, y YAMLConfig) (domain.Config, error) {
	cfg := domain.DefaultConfig()
	p := y.Preprints

	if s := strings.TrimSpace(p.API.URL); s != "" {
		cfg.API.URL = s
	}
	if s := strings.TrimSpace(p.API.Token); s != "" {
		cfg.API.Token = s
	}
	if s := strings.TrimSpace(p.API.Timeout); s != "" {
		d, err := time.ParseDuration(s)
		if err != nil || d <= 0 {
			return cfg, invalidField(path, "preprints.api.timeout", fmt.Sprintf("invalid duration %q", s))
		}
		cfg.API.Timeout = d
	}
	if s := strings.TrimSpace(p.Search.URL); s != "" {
		cfg.Search.URL = s
	}
	if s := strings.TrimSpace(p.Web.URL); s != "" {
		cfg.Web.URL = s
	}
	if s := strings.TrimSpace(p.Web.Listen); s != "" {
		cfg.Web.Listen = s
	}
	if len(p.Brands) > 0 {
		brands := make(domain.Brands, 0, len(p.Brands))
		for i, b := range p.Brands {
			b = strings.TrimSpace(b)
			if b == "" {
				return cfg, invalidField(path, fmt.Sprintf("preprints.brands[%d]", i), "brand name is empty")
			}
			brands = append(brands, b)
		}
		cfg.Brands = brands
	}
	if p.Taxonomy.PageSize != nil {
		if *p.Taxonomy.PageSize <= 0 {
			return cfg, invalidField(path, "preprints.taxonomy.page_size", "must be positive")
		}
		cfg.Taxonomy.PageSize = *p.Taxonomy.PageSize
	}
	if p.Taxonomy.RootsPageSize != nil {
		if *p.Taxonomy.RootsPageSize <= 0 {
			return cfg, invalidField(path, "preprints.taxonomy.roots_page_size", "must be positive")
		}
		cfg.Taxonomy.RootsPageSize = *p.Taxonomy.RootsPageSize
	}
	if s := strings.TrimSpace(p.Upload.Provider); s != "" {
		cfg.Upload.Provider = s
	}
	if p.Analytics.Enabled != nil {
		cfg.Analytics.Enabled = *p.Analytics.Enabled
	}
	if s := strings.TrimSpace(p.Analytics.File); s != "" {
		cfg.Analytics.File = s
	}

	for field, raw := range map[string]string{
		"preprints.api.url":    cfg.API.URL,
		"preprints.search.url": cfg.Search.URL,
		"preprints.web.url":    cfg.Web.URL,
	} {
		if err := checkAbsURL(raw); err != nil {
			return cfg, invalidField(path, field, err.Error())
		}
	}

	return cfg, nil
}

// MapDraft validates a submission draft. File paths are resolved against the draft's directory.
func MapDraft(path string, y YAMLDraft) (domain.SubmissionDraft, error) {
	d := domain.SubmissionDraft{
		ProjectID:    strings.TrimSpace(y.Project.ID),
		ProjectTitle: strings.TrimSpace(y.Project.Title),
		AsChild:      y.Project.Child,
		Basics: domain.Basics{
			Title:    y.Title,
			Abstract: y.Abstract,
			DOI:      strings.TrimSpace(y.DOI),
			Tags:     y.Tags,
		},
		Provider: strings.TrimSpace(y.Provider),
	}

	if d.ProjectID == "" && d.ProjectTitle == "" {
		return d, invalidField(path, "project", "either project.id or project.title is required")
	}
	if d.AsChild && d.ProjectID == "" {
		return d, invalidField(path, "project.child", "a component needs an existing project.id")
	}

	filePath := strings.TrimSpace(y.File.Path)
	if filePath == "" {
		return d, invalidField(path, "file.path", "file path is required")
	}
	if !filepath.IsAbs(filePath) {
		filePath = filepath.Join(filepath.Dir(path), filePath)
	}
	name := strings.TrimSpace(y.File.Name)
	if name == "" {
		name = filepath.Base(filePath)
	}
	d.File = domain.UploadFile{Name: name, Path: filepath.Clean(filePath)}

	for i, s := range y.Subjects {
		p := make(domain.Path, 0, len(s))
		for _, name := range s {
			if name = strings.TrimSpace(name); name != "" {
				p = append(p, name)
			}
		}
		if len(p) == 0 {
			return d, invalidField(path, fmt.Sprintf("subjects[%d]", i), "subject path is empty")
		}
		d.Subjects = append(d.Subjects, p)
	}

	return d, nil
}

func checkAbsURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" || u.Host == "" {
		return fmt.Errorf("%q is not an absolute http(s) URL", raw)
	}
	return nil
}

func invalidField(path, field, msg string) error {
	return &domain.OpError{
		Op:   "config.map",
		Kind: domain.KindInvalidConfig,
		Path: path,
		Err:  fmt.Errorf("field %s: %s: %w", field, msg, domain.ErrInvalidConfig),
	}
}
