// Package logging builds the process logger from config: a console sink with
// optional ANSI-colored line output and an optional JSON/line file sink, fanned
// out behind one slog.Logger.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"regexp"
	"strings"

	"apcexporter/internal/config"
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiBlue   = "\x1b[34m"
	ansiCyan   = "\x1b[36m"
)

// New creates the configured logger with console and optional file sinks.
// Params: cfg validated logging configuration.
// Returns: logger, close function releasing file handles, or setup error.
func New(cfg config.LogConfig) (*slog.Logger, func(), error) {
	var handlers []slog.Handler
	var closers []func()

	if cfg.Console.Enabled {
		handler, err := newSinkHandler(os.Stdout, cfg.Console, true)
		if err != nil {
			return nil, nil, err
		}
		handlers = append(handlers, handler)
	}

	if file := cfg.File; file.Enabled {
		sink, err := os.OpenFile(file.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file %q: %w", file.Path, err)
		}
		closers = append(closers, func() { sink.Close() })

		handler, err := newSinkHandler(sink, file, false)
		if err != nil {
			for _, closeFn := range closers {
				closeFn()
			}
			return nil, nil, err
		}
		handlers = append(handlers, handler)
	}

	closeAll := func() {
		for _, closeFn := range closers {
			closeFn()
		}
	}

	switch len(handlers) {
	case 0:
		return slog.New(slog.NewTextHandler(io.Discard, nil)), closeAll, nil
	case 1:
		return slog.New(handlers[0]), closeAll, nil
	default:
		return slog.New(&multiHandler{handlers: handlers}), closeAll, nil
	}
}

// newSinkHandler creates one slog handler for a sink.
// Params: dst destination writer; sink settings; colorize enables the line
// color writer for line format.
// Returns: handler or level/format error.
func newSinkHandler(dst io.Writer, sink config.LogSinkConfig, colorize bool) (slog.Handler, error) {
	level, err := parseLevel(sink.Level)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}

	switch sink.Format {
	case "json":
		return slog.NewJSONHandler(dst, opts), nil
	case "line", "":
		if colorize {
			dst = &colorLineWriter{dst: dst}
		}
		return slog.NewTextHandler(dst, opts), nil
	default:
		return nil, fmt.Errorf("unsupported log format %q", sink.Format)
	}
}

// parseLevel converts a config level name to a slog level.
// Params: level lower-case level name.
// Returns: slog level or error for unknown names.
func parseLevel(level string) (slog.Level, error) {
	switch strings.TrimSpace(strings.ToLower(level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unsupported log level %q", level)
	}
}

// multiHandler fans one record out to every sink handler.
// Params: none.
// Returns: composite slog handler.
type multiHandler struct {
	handlers []slog.Handler
}

// Enabled reports whether any sink accepts the level.
// Params: ctx handler context; level record level.
// Returns: true when at least one sink is enabled for the level.
func (m *multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, handler := range m.handlers {
		if handler.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

// Handle delivers the record to every sink enabled for its level.
// Params: ctx handler context; record log record.
// Returns: first sink error, if any.
func (m *multiHandler) Handle(ctx context.Context, record slog.Record) error {
	var firstErr error
	for _, handler := range m.handlers {
		if !handler.Enabled(ctx, record.Level) {
			continue
		}
		if err := handler.Handle(ctx, record.Clone()); firstErr == nil && err != nil {
			firstErr = err
		}
	}
	return firstErr
}

// WithAttrs clones the composite with added attributes.
// Params: attrs attributes to attach.
// Returns: new composite handler.
func (m *multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := make([]slog.Handler, len(m.handlers))
	for idx, handler := range m.handlers {
		next[idx] = handler.WithAttrs(attrs)
	}
	return &multiHandler{handlers: next}
}

// WithGroup clones the composite with a group prefix.
// Params: name group name.
// Returns: new composite handler.
func (m *multiHandler) WithGroup(name string) slog.Handler {
	next := make([]slog.Handler, len(m.handlers))
	for idx, handler := range m.handlers {
		next[idx] = handler.WithGroup(name)
	}
	return &multiHandler{handlers: next}
}

// levelColors maps the textual level token to the line base color.
var levelColors = map[string]string{
	"DEBUG": ansiCyan,
	"INFO":  ansiBlue,
	"WARN":  ansiYellow,
	"ERROR": ansiRed,
}

// colorTokens matches quoted strings, IPv4 addresses, and bare numbers.
var colorTokens = regexp.MustCompile(`"[^"]*"|\b\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3}\b|\b\d+(?:\.\d+)?\b`)

// colorLineWriter colorizes text-format log lines: the line takes the level's
// base color, quoted strings turn green, IPv4 addresses cyan, and numbers
// yellow. Lines without a recognized level= token pass through untouched.
// Params: dst underlying writer.
// Returns: io.Writer for slog's text handler.
type colorLineWriter struct {
	dst io.Writer
}

// Write colorizes one log line and forwards it.
// Params: p one text-handler line, with or without trailing newline.
// Returns: length of p and the underlying write error.
func (w *colorLineWriter) Write(p []byte) (int, error) {
	line := string(p)
	trailing := ""
	if strings.HasSuffix(line, "\n") {
		line = line[:len(line)-1]
		trailing = "\n"
	}

	base := lineBaseColor(line)
	if base == "" {
		if _, err := io.WriteString(w.dst, line+trailing); err != nil {
			return 0, err
		}
		return len(p), nil
	}

	colored := colorTokens.ReplaceAllStringFunc(line, func(token string) string {
		return tokenColor(token) + token + ansiReset + base
	})

	if _, err := io.WriteString(w.dst, base+colored+ansiReset+trailing); err != nil {
		return 0, err
	}
	return len(p), nil
}

// lineBaseColor picks the base color from the level= token.
// Params: line one log line.
// Returns: ANSI color or empty string for unknown levels.
func lineBaseColor(line string) string {
	idx := strings.Index(line, "level=")
	if idx < 0 {
		return ""
	}

	token := line[idx+len("level="):]
	if end := strings.IndexByte(token, ' '); end >= 0 {
		token = token[:end]
	}
	return levelColors[token]
}

// tokenColor picks the highlight color for one matched token.
// Params: token matched quoted string, IP, or number.
// Returns: ANSI color sequence.
func tokenColor(token string) string {
	if strings.HasPrefix(token, `"`) {
		return ansiGreen
	}
	if strings.Count(token, ".") == 3 {
		return ansiCyan
	}
	return ansiYellow
}
