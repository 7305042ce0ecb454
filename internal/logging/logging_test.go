package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		" WARN ":  zapcore.WarnLevel,
		"warning": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"info":    zapcore.InfoLevel,
		"":        zapcore.InfoLevel,
		"verbose": zapcore.InfoLevel,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNewFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(WithLevel("warn"), WithOutput(&buf))
	log.Info("hidden")
	log.Warn("shown", zap.String("channel", "Channel_2"))

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info entry written at warn level: %q", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "Channel_2") || !strings.Contains(out, "WARN") {
		t.Fatalf("missing warn entry: %q", out)
	}
}

func TestNewJSONWithFields(t *testing.T) {
	var buf bytes.Buffer
	log := New(WithOutput(&buf), WithJSON(true), WithFields(zap.String("tool", "gammaspec")))
	log.Info("hello")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	if entry["tool"] != "gammaspec" || entry["msg"] != "hello" {
		t.Fatalf("entry = %v", entry)
	}
}
