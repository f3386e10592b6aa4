package domain

import "time"

// Config represents the preprints configuration loaded from preprints.yaml.
type Config struct {
	API       APIConfig
	Search    SearchConfig
	Web       WebConfig
	Brands    Brands
	Taxonomy  TaxonomyConfig
	Upload    UploadConfig
	Analytics AnalyticsConfig
}

type APIConfig struct {
	URL     string
	Token   string
	Timeout time.Duration
}

type SearchConfig struct {
	URL string
}

type WebConfig struct {
	URL    string
	Listen string
}

type TaxonomyConfig struct {
	PageSize      int
	RootsPageSize int
}

type UploadConfig struct {
	Provider string
}

type AnalyticsConfig struct {
	Enabled bool
	File    string
}

// DefaultConfig provides sane defaults if preprints.yaml is partially missing.
func DefaultConfig() Config {
	return Config{
		API: APIConfig{
			URL:     "https://api.osf.io/v2/",
			Timeout: 30 * time.Second,
		},
		Search: SearchConfig{
			URL: "https://share.osf.io/api/v2/search/creativeworks/_search",
		},
		Web: WebConfig{
			URL:    "https://osf.io/",
			Listen: "127.0.0.1:4200",
		},
		Brands: Brands{"OSF"},
		Taxonomy: TaxonomyConfig{
			PageSize:      100,
			RootsPageSize: 20,
		},
		Upload: UploadConfig{
			Provider: "osfstorage",
		},
		Analytics: AnalyticsConfig{
			Enabled: true,
			File:    ".preprints/events.jsonl",
		},
	}
}
