// Package logger builds the process-wide slog.Logger. Text output renders
// through charmbracelet/log; json output uses a flat single-line handler
// suited for log shippers.
package logger

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	charmlog "github.com/charmbracelet/log"

	"pagebridge/pkg/config"
)

const (
	defaultFormat = "text"
	defaultLevel  = "info"
)

// New builds a logger from config, honoring PAGEBRIDGE_LOG_FORMAT and
// PAGEBRIDGE_LOG_LEVEL overrides.
func New(cfg config.LoggingConfig) (*slog.Logger, error) {
	return newWithWriter(cfg, os.Stderr)
}

func newWithWriter(cfg config.LoggingConfig, writer io.Writer) (*slog.Logger, error) {
	format := firstNonEmpty(os.Getenv("PAGEBRIDGE_LOG_FORMAT"), cfg.Format, defaultFormat)
	format = strings.ToLower(strings.TrimSpace(format))

	level, err := parseLevel(firstNonEmpty(os.Getenv("PAGEBRIDGE_LOG_LEVEL"), cfg.Level, defaultLevel))
	if err != nil {
		return nil, err
	}

	switch format {
	case "text":
		pretty := charmlog.NewWithOptions(writer, charmlog.Options{
			Level:           charmLevel(level),
			ReportTimestamp: true,
			Formatter:       charmlog.TextFormatter,
		})
		return slog.New(pretty), nil
	case "json":
		return slog.New(&jsonHandler{level: level, writer: writer, mu: &sync.Mutex{}}), nil
	default:
		return nil, fmt.Errorf("unsupported log format %q", format)
	}
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return strings.TrimSpace(value)
		}
	}

	return ""
}

func parseLevel(input string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unsupported log level %q", input)
	}
}

func charmLevel(level slog.Level) charmlog.Level {
	switch {
	case level <= slog.LevelDebug:
		return charmlog.DebugLevel
	case level <= slog.LevelInfo:
		return charmlog.InfoLevel
	case level <= slog.LevelWarn:
		return charmlog.WarnLevel
	default:
		return charmlog.ErrorLevel
	}
}

// jsonHandler emits one JSON object per record with attrs flattened into a
// fields map.
type jsonHandler struct {
	level  slog.Level
	writer io.Writer
	attrs  []slog.Attr
	mu     *sync.Mutex
}

type logEntry struct {
	Level     string         `json:"level"`
	Timestamp string         `json:"timestamp"`
	Message   string         `json:"message"`
	Fields    map[string]any `json:"fields,omitempty"`
}

func (h *jsonHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *jsonHandler) Handle(_ context.Context, record slog.Record) error {
	at := record.Time
	if at.IsZero() {
		at = time.Now()
	}

	entry := logEntry{
		Level:     strings.ToLower(record.Level.String()),
		Timestamp: at.UTC().Format(time.RFC3339Nano),
		Message:   record.Message,
	}

	fields := make(map[string]any)
	for _, attr := range h.attrs {
		addField(fields, attr)
	}
	record.Attrs(func(attr slog.Attr) bool {
		addField(fields, attr)
		return true
	})
	if len(fields) > 0 {
		entry.Fields = fields
	}

	line, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err = h.writer.Write(append(line, '\n'))
	return err
}

func addField(fields map[string]any, attr slog.Attr) {
	attr.Value = attr.Value.Resolve()
	if attr.Equal(slog.Attr{}) {
		return
	}

	switch attr.Value.Kind() {
	case slog.KindGroup:
		group := make(map[string]any)
		for _, member := range attr.Value.Group() {
			addField(group, member)
		}
		fields[attr.Key] = group
	case slog.KindTime:
		fields[attr.Key] = attr.Value.Time().UTC().Format(time.RFC3339Nano)
	case slog.KindDuration:
		fields[attr.Key] = attr.Value.Duration().String()
	default:
		fields[attr.Key] = attr.Value.Any()
	}
}

func (h *jsonHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &next
}

func (h *jsonHandler) WithGroup(string) slog.Handler {
	return h
}
