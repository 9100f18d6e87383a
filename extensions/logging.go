// Package extensions provides trace sinks for the forge resolution
// engine: structured logging via log/slog, OpenTelemetry spans, and an
// ASCII rendering of the resolution tree.
package extensions

import (
	"context"
	"io"
	"log/slog"
	"reflect"
	"strings"

	forge "github.com/forge-fn/forge-go"
)

// SlogSink logs every resolution event through a slog.Handler. Ordinary
// steps log at DEBUG; events carrying an error log at ERROR.
//
// Usage:
//
//	// Human-readable formatted output
//	sink := extensions.NewSlogSink(extensions.NewHumanHandler(os.Stdout, slog.LevelDebug))
//
//	// Structured JSON logging
//	sink := extensions.NewSlogSink(slog.NewJSONHandler(os.Stdout, nil))
//
//	forge.Make[*Server](r, forge.WithSink(sink))
type SlogSink struct {
	logger *slog.Logger
}

// NewSlogSink creates a sink logging through the given handler.
func NewSlogSink(h slog.Handler) *SlogSink {
	return &SlogSink{logger: slog.New(h)}
}

// Emit implements the forge.Sink interface.
func (s *SlogSink) Emit(ev forge.Event) {
	attrs := []any{
		slog.String("session", ev.Session),
		slog.String("target", typeLabel(ev.Target)),
		slog.Int("depth", len(ev.Path)),
	}
	if ev.Constructor != "" {
		attrs = append(attrs, slog.String("constructor", ev.Constructor))
	}
	if ev.Err != nil {
		attrs = append(attrs, slog.String("error", ev.Err.Error()))
		s.logger.Error(string(ev.Kind), attrs...)
		return
	}
	s.logger.Debug(string(ev.Kind), attrs...)
}

// SilentHandler is a slog.Handler that discards all log output. Useful
// for exercising a sink in tests without producing output.
type SilentHandler struct{}

// NewSilentHandler creates a new silent log handler.
func NewSilentHandler() *SilentHandler {
	return &SilentHandler{}
}

func (h *SilentHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return false
}

func (h *SilentHandler) Handle(ctx context.Context, record slog.Record) error {
	return nil
}

func (h *SilentHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return h
}

func (h *SilentHandler) WithGroup(name string) slog.Handler {
	return h
}

// HumanHandler is a slog.Handler that renders resolution events one per
// line, indented by construction depth, so a Make call reads as a tree:
//
//	resolve.start string
//	  resolve.start bool
//	    resolve.start int
//	    store.hit int
//	  construct bool  int -> bool
//	construct string  bool -> string
type HumanHandler struct {
	writer io.Writer
	level  slog.Level
}

// NewHumanHandler creates a new human-readable log handler.
func NewHumanHandler(writer io.Writer, level slog.Level) *HumanHandler {
	return &HumanHandler{writer: writer, level: level}
}

func (h *HumanHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *HumanHandler) Handle(ctx context.Context, record slog.Record) error {
	var target, constructor, errMsg string
	depth := 0
	record.Attrs(func(a slog.Attr) bool {
		switch a.Key {
		case "target":
			target = a.Value.String()
		case "constructor":
			constructor = a.Value.String()
		case "error":
			errMsg = a.Value.String()
		case "depth":
			depth = int(a.Value.Int64())
		}
		return true
	})

	var sb strings.Builder
	if depth > 0 {
		sb.WriteString(strings.Repeat("  ", depth-1))
	}
	sb.WriteString(record.Message)
	sb.WriteByte(' ')
	sb.WriteString(target)
	if constructor != "" {
		sb.WriteString("  ")
		sb.WriteString(constructor)
	}
	if errMsg != "" {
		sb.WriteString("  !! ")
		sb.WriteString(errMsg)
	}
	sb.WriteByte('\n')

	_, err := io.WriteString(h.writer, sb.String())
	return err
}

func (h *HumanHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return h
}

func (h *HumanHandler) WithGroup(name string) slog.Handler {
	return h
}

func typeLabel(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}
