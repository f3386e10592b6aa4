package domain

import (
	"strings"
)

// Theme is the branding applied to pages: the default look or a provider's.
type Theme struct {
	Base       string `json:"base"`
	Name       string `json:"name,omitempty"`
	IsProvider bool   `json:"is_provider"`
}

func DefaultTheme() Theme {
	return Theme{Base: "default"}
}

// Stylesheet is the provider stylesheet path, empty when no brand is set.
func (t Theme) Stylesheet() string {
	if t.Name == "" {
		return ""
	}
	return "/preprints/assets/css/" + strings.ToLower(t.Name) + ".css"
}

// Brands is the list of configured provider names.
type Brands []string

// Lookup matches a URL slug to a configured brand, ignoring case.
func (b Brands) Lookup(slug string) (string, bool) {
	s := strings.ToLower(strings.TrimSpace(slug))
	if s == "" {
		return "", false
	}
	for _, name := range b {
		if strings.ToLower(name) == s {
			return name, true
		}
	}
	return "", false
}

// ForProvider returns the theme for a brand page.
func (b Brands) ForProvider(slug string) (Theme, bool) {
	name, ok := b.Lookup(slug)
	if !ok {
		return DefaultTheme(), false
	}
	t := DefaultTheme()
	t.Name = name
	t.IsProvider = true
	return t, true
}
