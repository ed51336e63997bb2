// Package journal keeps the most recent log records of a run in memory so
// failure reports can show what happened right before a step failed.
package journal

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/gofrs/uuid"
	"github.com/samber/lo"
)

// Entry is a captured log record.
type Entry struct {
	ID      uuid.UUID
	Time    time.Time
	Level   slog.Level
	Message string
	Attrs   []slog.Attr
}

// String renders the entry as a single text line.
func (e Entry) String() string {
	var sb strings.Builder
	sb.WriteString(e.Time.Format("15:04:05.000"))
	sb.WriteByte(' ')
	sb.WriteString(e.Level.String())
	sb.WriteByte(' ')
	sb.WriteString(e.Message)
	for _, attr := range e.Attrs {
		writeAttr(&sb, "", attr)
	}
	return sb.String()
}

func writeAttr(sb *strings.Builder, prefix string, attr slog.Attr) {
	attr.Value = attr.Value.Resolve()
	if attr.Value.Kind() == slog.KindGroup {
		for _, a := range attr.Value.Group() {
			writeAttr(sb, prefix+attr.Key+".", a)
		}
		return
	}
	fmt.Fprintf(sb, " %s%s=%v", prefix, attr.Key, attr.Value.Any())
}

// Has reports whether attr is one of the top-level attributes of e.
func (e Entry) Has(attr slog.Attr) bool {
	return lo.ContainsBy(e.Attrs, attr.Equal)
}

// Journal collects log records in a ring buffer.
type Journal struct {
	buffer *RingBuffer[Entry]
}

// New creates a journal keeping the last capacity records.
func New(capacity int) *Journal {
	if capacity <= 0 {
		capacity = 1
	}
	return &Journal{buffer: NewRingBuffer[Entry](capacity)}
}

// Collect stores a record with a fresh id.
func (j *Journal) Collect(_ context.Context, record slog.Record) {
	attrs := make([]slog.Attr, 0, record.NumAttrs())
	record.Attrs(func(attr slog.Attr) bool {
		attrs = append(attrs, attr)
		return true
	})

	j.buffer.Add(Entry{
		ID:      uuid.Must(uuid.NewV4()),
		Time:    record.Time,
		Level:   record.Level,
		Message: record.Message,
		Attrs:   attrs,
	})
}

// Tail returns up to n of the most recent entries, oldest first.
func (j *Journal) Tail(n int) []Entry {
	return j.buffer.Last(n)
}

// Lines returns the most recent n entries rendered as text.
func (j *Journal) Lines(n int) []string {
	return render(j.Tail(n))
}

// LinesWith is like Lines but only considers entries carrying every one of
// attrs, e.g. the id of a single scenario run.
func (j *Journal) LinesWith(n int, attrs ...slog.Attr) []string {
	return render(j.buffer.LastMatching(n, func(e Entry) bool {
		return lo.EveryBy(attrs, e.Has)
	}))
}

func render(entries []Entry) []string {
	return lo.Map(entries, func(e Entry, _ int) string { return e.String() })
}

// Reset drops all entries.
func (j *Journal) Reset() {
	j.buffer.Reset()
}

// Len returns the number of entries held.
func (j *Journal) Len() int {
	return j.buffer.Len()
}
