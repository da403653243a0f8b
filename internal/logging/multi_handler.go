package logging

import (
	"context"
	"errors"
	"log/slog"
)

// Route sends records at or above Min to Handler. A nil Min passes every
// level the handler itself enables.
type Route struct {
	Handler slog.Handler
	Min     slog.Leveler
}

func (r Route) accepts(ctx context.Context, level slog.Level) bool {
	if r.Min != nil && level < r.Min.Level() {
		return false
	}
	return r.Handler.Enabled(ctx, level)
}

// MultiHandler fans records out to several sinks, each with its own level
// floor. A failing sink does not stop delivery to the others.
type MultiHandler struct {
	routes []Route
}

func NewMultiHandler(routes ...Route) *MultiHandler {
	return &MultiHandler{routes: routes}
}

func (m *MultiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, r := range m.routes {
		if r.accepts(ctx, level) {
			return true
		}
	}
	return false
}

func (m *MultiHandler) Handle(ctx context.Context, record slog.Record) error {
	var errs []error
	for _, r := range m.routes {
		if !r.accepts(ctx, record.Level) {
			continue
		}
		if err := r.Handler.Handle(ctx, record.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m *MultiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return m.derive(func(h slog.Handler) slog.Handler { return h.WithAttrs(attrs) })
}

func (m *MultiHandler) WithGroup(name string) slog.Handler {
	return m.derive(func(h slog.Handler) slog.Handler { return h.WithGroup(name) })
}

func (m *MultiHandler) derive(fn func(slog.Handler) slog.Handler) *MultiHandler {
	routes := make([]Route, len(m.routes))
	for i, r := range m.routes {
		routes[i] = Route{Handler: fn(r.Handler), Min: r.Min}
	}
	return &MultiHandler{routes: routes}
}
