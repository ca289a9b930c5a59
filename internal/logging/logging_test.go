package logging_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/raysh454/vulnscan-web/internal/logging"
)

func TestStdoutLogger_WritesJSONLine(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	l := logging.NewStdoutLogger("api").SetOutput(&buf)

	l.Info("request sent", logging.Field{Key: "path", Value: "/v1/scan/url"})

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode log line: %v (%q)", err, buf.String())
	}
	if entry["level"] != "info" || entry["msg"] != "request sent" || entry["component"] != "api" {
		t.Errorf("unexpected entry: %v", entry)
	}
	fields, _ := entry["fields"].(map[string]any)
	if fields["path"] != "/v1/scan/url" {
		t.Errorf("expected path field, got %v", fields)
	}
}

func TestStdoutLogger_DropsBelowLevel(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	l := logging.NewStdoutLogger("x").SetOutput(&buf).SetLevel(logging.LevelWarn)

	l.Debug("hidden")
	l.Info("hidden")
	l.Warn("shown")

	if got := strings.Count(buf.String(), "\n"); got != 1 {
		t.Fatalf("expected 1 line, got %d: %q", got, buf.String())
	}
}

func TestStdoutLogger_WithComponentAndFields(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	parent := logging.NewStdoutLogger("app").SetOutput(&buf)
	child := parent.With(logging.Field{Key: "component", Value: "history"}, logging.Field{Key: "session", Value: "s1"})

	child.Warn("fetch failed")

	out := buf.String()
	if !strings.Contains(out, `"component":"history"`) || !strings.Contains(out, `"session":"s1"`) {
		t.Errorf("child entry missing persistent data: %s", out)
	}
}

func TestParseLevel(t *testing.T) {
	t.Parallel()
	cases := map[string]logging.Level{
		"debug":   logging.LevelDebug,
		"WARN":    logging.LevelWarn,
		"warning": logging.LevelWarn,
		"error":   logging.LevelError,
		"":        logging.LevelInfo,
		"bogus":   logging.LevelInfo,
	}
	for in, want := range cases {
		if got := logging.ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestZapLogger_ForwardsFields(t *testing.T) {
	t.Parallel()
	core, logs := observer.New(zap.DebugLevel)
	l := logging.NewZapLoggerFrom(zap.New(core)).With(logging.Field{Key: "component", Value: "server"})

	l.Error("boom", logging.Field{Key: "status", Value: 500})

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	ctx := entries[0].ContextMap()
	if ctx["component"] != "server" {
		t.Errorf("expected component field, got %v", ctx)
	}
	if v, ok := ctx["status"].(int64); !ok || v != 500 {
		t.Errorf("expected status 500, got %#v", ctx["status"])
	}
}
