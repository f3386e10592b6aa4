package eventlog

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/aalvaropc/preprints/internal/domain"
)

func readEvents(t *testing.T, path string) []domain.Event {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	var out []domain.Event
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var ev domain.Event
		if err := json.Unmarshal(sc.Bytes(), &ev); err != nil {
			t.Fatalf("unmarshal %q: %v", sc.Text(), err)
		}
		out = append(out, ev)
	}
	return out
}

func TestJSONLSink_TrackAppends(t *testing.T) {
	root := t.TempDir()
	at := time.Date(2026, 2, 3, 10, 11, 12, 0, time.UTC)
	n := 0
	sink := NewJSONLSink(root, ".preprints/events.jsonl",
		WithNow(func() time.Time { return at }),
		WithIDs(func() string { n++; return "id-" + string(rune('0'+n)) }),
	)

	if err := sink.Track(domain.Event{Category: "link", Action: "click", Label: "Preprints - Contact - Twitter"}); err != nil {
		t.Fatalf("Track: %v", err)
	}
	if err := sink.Track(domain.Event{ID: "fixed", Category: "button", Action: "click", Label: "Submit"}); err != nil {
		t.Fatalf("Track: %v", err)
	}

	got := readEvents(t, filepath.Join(root, ".preprints", "events.jsonl"))
	want := []domain.Event{
		{ID: "id-1", Category: "link", Action: "click", Label: "Preprints - Contact - Twitter", At: at},
		{ID: "fixed", Category: "button", Action: "click", Label: "Submit", At: at},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestJSONLSink_MasksSensitiveLabels(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.jsonl")

	sink := NewJSONLSink("", path)
	for _, label := range []string{"mailto:support@osf.io", "token=abc", "Preprints - Contact - Email"} {
		if err := sink.Track(domain.Event{Category: "link", Action: "click", Label: label}); err != nil {
			t.Fatalf("Track: %v", err)
		}
	}

	got := readEvents(t, path)
	if got[0].Label != maskValue || got[1].Label != maskValue {
		t.Fatalf("expected masked labels, got %+v", got)
	}
	if got[2].Label != "Preprints - Contact - Email" {
		t.Fatalf("plain label should be kept, got %q", got[2].Label)
	}
	if got[0].ID == "" || got[0].At.IsZero() {
		t.Fatalf("expected generated id and timestamp, got %+v", got[0])
	}
}

func TestJSONLSink_MaskingDisabled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.jsonl")
	sink := NewJSONLSink("", path, WithMasking(false))

	if err := sink.Track(domain.Event{Label: "mailto:support@osf.io"}); err != nil {
		t.Fatalf("Track: %v", err)
	}
	if got := readEvents(t, path); got[0].Label != "mailto:support@osf.io" {
		t.Fatalf("label = %q", got[0].Label)
	}
}
