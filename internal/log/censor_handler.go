package log

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
)

// Censor masks unwanted text.
// *pattern.Pattern implements it by replacing every matched word with asterisks.
type Censor interface {
	Censor(s string) string
}

// censorHolder lets an interface value live behind an atomic.Pointer.
type censorHolder struct {
	censor Censor
}

// CensorHandler wraps an slog.Handler to mask bad words.
// It rewrites the message and every string, error and Stringer attribute
// of a record before passing it to the underlying handler.
//
// Design decision: We use a handler wrapper rather than a custom logger
// because it integrates with standard slog APIs and works with any
// underlying handler (text, JSON, etc.).
type CensorHandler struct {
	// handler is the underlying slog handler that receives censored records.
	handler slog.Handler

	// censor is shared with every handler derived through WithAttrs and
	// WithGroup, so a censor set later applies to all of them.
	censor *atomic.Pointer[censorHolder]
}

// NewCensorHandler creates a new CensorHandler wrapping the given handler.
// If handler is nil, slog.Default().Handler() is used.
// The handler passes records through unchanged until SetCensor is called.
func NewCensorHandler(handler slog.Handler) *CensorHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	return &CensorHandler{
		handler: handler,
		censor:  new(atomic.Pointer[censorHolder]),
	}
}

// SetCensor installs c. A nil c disables censoring again.
func (h *CensorHandler) SetCensor(c Censor) {
	if c == nil {
		h.censor.Store(nil)
		return
	}
	h.censor.Store(&censorHolder{censor: c})
}

// Enabled reports whether the handler handles records at the given level.
// It delegates to the underlying handler.
func (h *CensorHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle censors the record's message and attributes and passes it to the underlying handler.
func (h *CensorHandler) Handle(ctx context.Context, r slog.Record) error {
	holder := h.censor.Load()
	if holder == nil {
		return h.handler.Handle(ctx, r)
	}

	censored := slog.NewRecord(r.Time, r.Level, holder.censor.Censor(r.Message), r.PC)
	r.Attrs(func(a slog.Attr) bool {
		censored.AddAttrs(censorAttr(holder.censor, a))
		return true
	})

	return h.handler.Handle(ctx, censored)
}

// WithAttrs returns a new handler with the given attributes added.
// Attributes are censored with the censor installed at the time of the call.
func (h *CensorHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if holder := h.censor.Load(); holder != nil {
		censored := make([]slog.Attr, len(attrs))
		for i, a := range attrs {
			censored[i] = censorAttr(holder.censor, a)
		}
		attrs = censored
	}
	return &CensorHandler{handler: h.handler.WithAttrs(attrs), censor: h.censor}
}

// WithGroup returns a new handler with the given group name.
func (h *CensorHandler) WithGroup(name string) slog.Handler {
	return &CensorHandler{handler: h.handler.WithGroup(name), censor: h.censor}
}

// censorAttr censors a single attribute, recursively handling groups.
func censorAttr(c Censor, a slog.Attr) slog.Attr {
	a.Value = a.Value.Resolve()

	switch a.Value.Kind() {
	case slog.KindGroup:
		attrs := a.Value.Group()
		censored := make([]slog.Attr, len(attrs))
		for i, groupAttr := range attrs {
			censored[i] = censorAttr(c, groupAttr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(censored...)}
	case slog.KindString:
		return slog.String(a.Key, c.Censor(a.Value.String()))
	case slog.KindAny:
		switch v := a.Value.Any().(type) {
		case error:
			return slog.String(a.Key, c.Censor(v.Error()))
		case interface{ String() string }:
			return slog.String(a.Key, c.Censor(v.String()))
		}
	}

	return a
}

// SetCensor installs c on logger when its handler is a *CensorHandler.
// It reports whether the censor was installed.
func SetCensor(logger *slog.Logger, c Censor) bool {
	h, ok := logger.Handler().(*CensorHandler)
	if !ok {
		return false
	}
	h.SetCensor(c)
	return true
}

// NewLogger creates a new slog.Logger writing text records through a CensorHandler.
//
// Parameters:
//   - w: The io.Writer to write log output to (typically os.Stderr)
//   - verbose: If true, sets log level to Debug; otherwise Warn
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	return slog.New(NewCensorHandler(slog.NewTextHandler(w, handlerOptions(verbose))))
}

// NewJSONLogger creates a new slog.Logger writing JSON records through a CensorHandler.
// Useful for structured log aggregation.
func NewJSONLogger(w io.Writer, verbose bool) *slog.Logger {
	return slog.New(NewCensorHandler(slog.NewJSONHandler(w, handlerOptions(verbose))))
}

func handlerOptions(verbose bool) *slog.HandlerOptions {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return &slog.HandlerOptions{Level: level}
}
