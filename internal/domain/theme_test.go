package domain

import "testing"

func TestThemeStylesheet(t *testing.T) {
	if got := DefaultTheme().Stylesheet(); got != "" {
		t.Fatalf("expected empty stylesheet, got %q", got)
	}
	th := Theme{Base: "default", Name: "PsyArXiv"}
	if got := th.Stylesheet(); got != "/preprints/assets/css/psyarxiv.css" {
		t.Fatalf("unexpected stylesheet %q", got)
	}
}

func TestBrandsForProvider(t *testing.T) {
	brands := Brands{"OSF", "PsyArXiv", "SocArXiv"}

	th, ok := brands.ForProvider("psyarxiv")
	if !ok {
		t.Fatalf("expected brand match")
	}
	if th.Name != "PsyArXiv" || !th.IsProvider || th.Base != "default" {
		t.Fatalf("unexpected theme %+v", th)
	}

	th, ok = brands.ForProvider("engrxiv")
	if ok || th.IsProvider || th.Name != "" {
		t.Fatalf("expected default theme for unknown slug, got %+v", th)
	}
	if _, ok := brands.Lookup(""); ok {
		t.Fatalf("empty slug must not match")
	}
}
