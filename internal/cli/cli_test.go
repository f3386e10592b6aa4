package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/aalvaropc/preprints/internal/domain"
)

// --- looksLikePath ---

func TestLooksLikePath(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"demo", false},
		{"demo.yaml", false},
		{"./demo.yaml", true},
		{"drafts/demo.yaml", true},
		{"/abs/path/demo.yaml", true},
	}
	for _, c := range cases {
		if got := looksLikePath(c.input); got != c.want {
			t.Errorf("looksLikePath(%q) = %v, want %v", c.input, got, c.want)
		}
	}
}

// --- hasYAMLExt ---

func TestHasYAMLExt(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"demo.yaml", true},
		{"demo.yml", true},
		{"DEMO.YAML", true},
		{"demo.json", false},
		{"demo", false},
		{"", false},
	}
	for _, c := range cases {
		if got := hasYAMLExt(c.input); got != c.want {
			t.Errorf("hasYAMLExt(%q) = %v, want %v", c.input, got, c.want)
		}
	}
}

// --- fileExists ---

func TestFileExists(t *testing.T) {
	tmp := t.TempDir()
	p := filepath.Join(tmp, "exists.txt")
	if err := os.WriteFile(p, []byte("hi"), 0o644); err != nil {
		t.Fatal(err)
	}
	if !fileExists(p) {
		t.Errorf("expected fileExists=true for %s", p)
	}
	if fileExists(filepath.Join(tmp, "not_there.txt")) {
		t.Error("expected fileExists=false for non-existent file")
	}
}

// --- resolveWorkspaceRoot / resolveDraftPath ---

func TestResolveWorkspaceRoot_ExplicitPath(t *testing.T) {
	tmp := t.TempDir()
	got, err := resolveWorkspaceRoot(tmp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != tmp {
		t.Errorf("expected %q, got %q", tmp, got)
	}
}

func TestResolveDraftPath(t *testing.T) {
	root := t.TempDir()
	mustWrite(t, filepath.Join(root, "drafts", "paper.yaml"), "title: x\n")
	mustWrite(t, filepath.Join(root, "drafts", "other.yml"), "title: y\n")

	cases := []struct {
		in   string
		want string
	}{
		{"paper", filepath.Join(root, "drafts", "paper.yaml")},
		{"other", filepath.Join(root, "drafts", "other.yml")},
		{"paper.yaml", filepath.Join(root, "drafts", "paper.yaml")},
		{"drafts/paper.yaml", filepath.Join(root, "drafts", "paper.yaml")},
	}
	for _, c := range cases {
		got, err := resolveDraftPath(root, c.in)
		if err != nil {
			t.Fatalf("resolveDraftPath(%q): unexpected error: %v", c.in, err)
		}
		if got != c.want {
			t.Errorf("resolveDraftPath(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestResolveDraftPath_Errors(t *testing.T) {
	root := t.TempDir()
	if _, err := resolveDraftPath(root, "  "); err == nil {
		t.Error("expected error for empty draft")
	}
	_, err := resolveDraftPath(root, "missing")
	if err == nil || !strings.Contains(err.Error(), "missing") {
		t.Errorf("expected not-found error naming the draft, got %v", err)
	}
}

// --- parsePath / printers ---

func TestParsePath(t *testing.T) {
	got := parsePath(" Biology / /Ecology/")
	want := domain.Path{"Biology", "Ecology"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("parsePath mismatch (-want +got):\n%s", diff)
	}
}

func TestPrintPaths_Formats(t *testing.T) {
	paths := []domain.Path{{"A", "B"}, {"C"}}

	var pretty bytes.Buffer
	if err := printPaths(&pretty, paths, "pretty"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pretty.String() != "A > B\nC\n" {
		t.Errorf("unexpected pretty output:\n%s", pretty.String())
	}

	var js bytes.Buffer
	if err := printPaths(&js, nil, "json"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(js.String()) != "[]" {
		t.Errorf("expected empty JSON array, got %q", js.String())
	}

	if err := printPaths(&bytes.Buffer{}, paths, "xml"); err == nil || !strings.Contains(err.Error(), "xml") {
		t.Errorf("expected error mentioning format, got %v", err)
	}
}

func TestPrintPreprint_JSON(t *testing.T) {
	pp := domain.Preprint{ID: "pp1", NodeID: "n1", Subjects: []domain.Path{{"A"}}}
	var buf bytes.Buffer
	if err := printPreprint(&buf, pp, "sess-1", "json"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var payload map[string]any
	if err := json.Unmarshal(buf.Bytes(), &payload); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, buf.String())
	}
	if payload["session"] != "sess-1" {
		t.Errorf("expected session=sess-1, got %v", payload["session"])
	}
	if payload["preprint"] == nil {
		t.Error("expected 'preprint' key in JSON output")
	}
}

func TestPrintPreprint_Pretty(t *testing.T) {
	pp := domain.Preprint{
		ID:          "pp1",
		NodeID:      "n1",
		DOI:         "10.1234/abc",
		Subjects:    []domain.Path{{"Biology", "Ecology"}},
		DateCreated: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	var buf bytes.Buffer
	if err := printPreprint(&buf, pp, "", ""); err != nil {
		t.Fatalf("empty format should behave like pretty, got error: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"pp1", "n1", "10.1234/abc", "Biology > Ecology", "2024-01-01T00:00:00Z"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in pretty output, got:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Session") {
		t.Errorf("session line should be omitted when empty, got:\n%s", out)
	}
}

func TestPrintUsers(t *testing.T) {
	var buf bytes.Buffer
	printUsers(&buf, domain.UserPage{})
	if !strings.Contains(buf.String(), "no users") {
		t.Errorf("expected empty marker, got %q", buf.String())
	}

	buf.Reset()
	printUsers(&buf, domain.UserPage{Users: []domain.User{{ID: "u1", FullName: "Ada Lovelace"}}, Total: 12, Next: true})
	out := buf.String()
	if !strings.Contains(out, "u1\tAda Lovelace") || !strings.Contains(out, "12 total") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

// --- command structure ---

func TestRootCmd_RegistersSubcommands(t *testing.T) {
	cmd := newRootCmd()
	names := map[string]bool{}
	for _, sub := range cmd.Commands() {
		names[sub.Name()] = true
	}
	for _, expected := range []string{"init", "version", "subjects", "count", "contributors", "validate", "submit", "serve"} {
		if !names[expected] {
			t.Errorf("expected subcommand %q to be registered", expected)
		}
	}
}

func TestCommandFlags(t *testing.T) {
	check := func(name string, lookup func(string) bool, flags ...string) {
		t.Helper()
		for _, f := range flags {
			if !lookup(f) {
				t.Errorf("expected --%s flag on %s command", f, name)
			}
		}
	}

	v := validateCmd()
	check("validate", func(f string) bool { return v.Flags().Lookup(f) != nil }, "workspace", "file")
	s := submitCmd()
	check("submit", func(f string) bool { return s.Flags().Lookup(f) != nil }, "workspace", "file", "format")
	sv := serveCmd()
	check("serve", func(f string) bool { return sv.Flags().Lookup(f) != nil }, "workspace", "listen", "loglevel")
	i := initCmd()
	check("init", func(f string) bool { return i.Flags().Lookup(f) != nil }, "path", "force")
}

func TestSubjectsCmd_HasSubcommands(t *testing.T) {
	names := map[string]bool{}
	for _, sub := range subjectsCmd().Commands() {
		names[sub.Name()] = true
	}
	for _, want := range []string{"roots", "list", "flatten"} {
		if !names[want] {
			t.Errorf("expected %q under subjects", want)
		}
	}
}

// --- command execution ---

func TestSubjectsFlatten_PrunesPrefixesAndSorts(t *testing.T) {
	cmd := subjectsCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"flatten",
		"-p", "Social Sciences/Psychology",
		"-p", "Biology",
		"-p", "Social Sciences",
		"-p", "Social Sciences/Economics",
	})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "Biology\nSocial Sciences > Economics\nSocial Sciences > Psychology\n"
	if diff := cmp.Diff(want, out.String()); diff != "" {
		t.Errorf("flatten output mismatch (-want +got):\n%s", diff)
	}
}

func TestInitCmd_WritesWorkspace(t *testing.T) {
	root := t.TempDir()
	cmd := initCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--path", root})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !fileExists(filepath.Join(root, "preprints.yaml")) {
		t.Error("expected preprints.yaml to be written")
	}
	if !strings.Contains(out.String(), root) {
		t.Errorf("expected root in output, got %q", out.String())
	}
}

func TestValidateCmd_ReportsProblems(t *testing.T) {
	root := t.TempDir()
	mustWrite(t, filepath.Join(root, "drafts", "bad.yaml"), `project:
  title: P
file:
  path: missing.pdf
title: ""
abstract: short
subjects: []
`)

	cmd := validateCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"-w", root, "-f", "bad"})
	err := cmd.Execute()
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{"file.path", "title: Title can't be blank", "abstract: Abstract is too short", "subjects"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("expected %q in output, got:\n%s", want, out.String())
		}
	}
}

func TestValidateCmd_OK(t *testing.T) {
	root := t.TempDir()
	mustWrite(t, filepath.Join(root, "paper.pdf"), "%PDF-1.4")
	mustWrite(t, filepath.Join(root, "drafts", "good.yaml"), `project:
  title: P
file:
  path: ../paper.pdf
title: A title
abstract: At least twenty characters of abstract.
subjects:
  - [Biology, Ecology]
`)

	cmd := validateCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"-w", root, "-f", "good"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("unexpected error: %v\n%s", err, out.String())
	}
	if strings.TrimSpace(out.String()) != "OK" {
		t.Errorf("expected OK, got %q", out.String())
	}
}

func TestCountCmd_FormatsTotal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"hits":{"total":1234567}}`))
	}))
	defer srv.Close()

	root := writeWorkspace(t, srv.URL)
	cmd := countCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"-w", root})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(out.String()) != "1,234,567 Preprints" {
		t.Errorf("unexpected output %q", out.String())
	}
}

func TestSubjectsRoots_ListsTaxonomies(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/vnd.api+json")
		_, _ = w.Write([]byte(`{"data":[
			{"id":"t1","type":"taxonomies","attributes":{"text":"Biology"}},
			{"id":"t2","type":"taxonomies","attributes":{"text":"Engineering"}}
		],"links":{"next":null}}`))
	}))
	defer srv.Close()

	root := writeWorkspace(t, srv.URL)
	cmd := subjectsCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"roots", "-w", root})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.String() != "t1\tBiology\nt2\tEngineering\n" {
		t.Errorf("unexpected output %q", out.String())
	}
	if !strings.Contains(gotQuery, "page%5Bsize%5D=20") || !strings.Contains(gotQuery, "filter%5Bparent_ids%5D=null") {
		t.Errorf("unexpected query %q", gotQuery)
	}
}

func mustWrite(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

// writeWorkspace points every remote URL of a fresh workspace at base.
func writeWorkspace(t *testing.T, base string) string {
	t.Helper()
	t.Setenv("PREPRINTS_TOKEN", "")
	t.Setenv("PREPRINTS_API_URL", "")
	root := t.TempDir()
	mustWrite(t, filepath.Join(root, "preprints.yaml"), fmt.Sprintf(`preprints:
  api:
    url: %[1]s/v2/
    timeout: 5s
  search:
    url: %[1]s/search
  web:
    url: %[1]s/
  brands: [OSF]
  analytics:
    enabled: false
`, base))
	return root
}
