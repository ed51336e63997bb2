package journal

import (
	"context"
	"log/slog"
	"slices"

	"github.com/samber/lo"
)

// Handler is a slog.Handler writing into a Journal.
type Handler struct {
	journal *Journal
	level   slog.Leveler

	attrs  []slog.Attr
	groups []string
}

var _ slog.Handler = &Handler{}

// NewHandler creates a handler collecting records at or above level.
// A nil level collects everything from debug up.
func NewHandler(j *Journal, level slog.Leveler) *Handler {
	if level == nil {
		level = slog.LevelDebug
	}
	return &Handler{journal: j, level: level}
}

func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *Handler) Handle(ctx context.Context, record slog.Record) error {
	// Handler attributes go before the record attributes, nested in the open groups
	newRecord := slog.NewRecord(record.Time, record.Level, record.Message, record.PC)
	newRecord.AddAttrs(h.attrs...)

	attrs := make([]slog.Attr, 0, record.NumAttrs())
	record.Attrs(func(attr slog.Attr) bool {
		attrs = append(attrs, attr)
		return true
	})
	for i := len(h.groups) - 1; i >= 0; i-- {
		if len(attrs) == 0 {
			break
		}
		attrs = []slog.Attr{slog.Group(h.groups[i], lo.ToAnySlice(attrs)...)}
	}
	newRecord.AddAttrs(attrs...)

	h.journal.Collect(ctx, newRecord)
	return nil
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &Handler{
		journal: h.journal,
		level:   h.level,
		attrs:   appendAttrsToGroup(h.groups, h.attrs, attrs...),
		groups:  h.groups,
	}
}

func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	return &Handler{
		journal: h.journal,
		level:   h.level,
		attrs:   h.attrs,
		groups:  append(slices.Clone(h.groups), name),
	}
}

func appendAttrsToGroup(groups []string, actual []slog.Attr, added ...slog.Attr) []slog.Attr {
	actual = slices.Clone(actual)
	if len(groups) == 0 {
		return append(actual, added...)
	}

	for i, attr := range actual {
		if attr.Key == groups[0] && attr.Value.Kind() == slog.KindGroup {
			actual[i] = slog.Group(groups[0], lo.ToAnySlice(appendAttrsToGroup(groups[1:], attr.Value.Group(), added...))...)
			return actual
		}
	}
	return append(actual, slog.Group(groups[0], lo.ToAnySlice(appendAttrsToGroup(groups[1:], nil, added...))...))
}
