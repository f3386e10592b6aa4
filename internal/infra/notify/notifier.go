// Package notify delivers short user-facing messages, the terminal counterpart of a toast.
package notify

import (
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/aalvaropc/preprints/internal/ports"
)

type Level string

const (
	LevelInfo  Level = "info"
	LevelError Level = "error"
)

type Message struct {
	Level Level
	Text  string
}

// Writer prints each message on its own line and logs it.
type Writer struct {
	mu  sync.Mutex
	out io.Writer
	log *slog.Logger
}

func NewWriter(out io.Writer, log *slog.Logger) *Writer {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Writer{out: out, log: log}
}

var _ ports.Notifier = (*Writer)(nil)

func (w *Writer) Info(msg string) {
	w.log.Info("notify", "text", msg)
	w.print("", msg)
}

func (w *Writer) Error(msg string) {
	w.log.Warn("notify", "text", msg)
	w.print("error: ", msg)
}

func (w *Writer) print(prefix, msg string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, _ = fmt.Fprintf(w.out, "%s%s\n", prefix, msg)
}

// Recorder keeps messages in memory until drained. The TUI polls it after each command.
type Recorder struct {
	mu   sync.Mutex
	msgs []Message
}

var _ ports.Notifier = (*Recorder)(nil)

func (r *Recorder) Info(msg string)  { r.add(LevelInfo, msg) }
func (r *Recorder) Error(msg string) { r.add(LevelError, msg) }

func (r *Recorder) add(l Level, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, Message{Level: l, Text: msg})
}

// Drain returns and clears the pending messages.
func (r *Recorder) Drain() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.msgs
	r.msgs = nil
	return out
}
