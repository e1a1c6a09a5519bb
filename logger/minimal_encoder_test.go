package logger

import (
	"regexp"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// stripANSI removes ANSI color codes from a string for testing
func stripANSI(str string) string {
	ansiRegex := regexp.MustCompile(`\x1b\[[0-9;]*m`)
	return ansiRegex.ReplaceAllString(str, "")
}

// TestMinimalEncoderNeverDiscardsFields ensures the minimal encoder
// never silently drops log fields, known key or not.
func TestMinimalEncoderNeverDiscardsFields(t *testing.T) {
	encoder := newMinimalEncoder()

	entry := zapcore.Entry{
		Level:      zapcore.InfoLevel,
		Time:       time.Now(),
		LoggerName: "watch.runner",
		Message:    "Testing field preservation",
	}

	tests := []struct {
		field    zapcore.Field
		mustFind string
	}{
		// Known keys render as bare values.
		{zap.String(FieldPath, "src/main.go"), "src/main.go"},
		{zap.String(FieldRunID, "1a2b3c4d"), "1a2b3c4d"},
		{zap.Int(FieldCount, 3), "(3 files)"},
		{zap.Int64(FieldDurationMS, 42), "42ms"},

		// Unknown keys fall back to key=value.
		{zap.String("handler", "build"), "handler=build"},
		{zap.Int("attempt", 2), "attempt=2"},
		{zap.Bool("cached", true), "cached=true"},
		{zap.Float64("ratio", 0.5), "ratio=0.5"},
	}

	for _, tt := range tests {
		buf, err := encoder.EncodeEntry(entry, []zapcore.Field{tt.field})
		if err != nil {
			t.Fatalf("EncodeEntry failed: %v", err)
		}
		out := stripANSI(buf.String())
		if !strings.Contains(out, tt.mustFind) {
			t.Errorf("output %q missing %q", out, tt.mustFind)
		}
	}
}

func TestMinimalEncoderShowsLevelForWarnAndError(t *testing.T) {
	encoder := newMinimalEncoder()

	for level, want := range map[zapcore.Level]string{
		zapcore.WarnLevel:  "WARN",
		zapcore.ErrorLevel: "ERROR",
	} {
		buf, err := encoder.EncodeEntry(zapcore.Entry{
			Level:   level,
			Time:    time.Now(),
			Message: "something",
		}, nil)
		if err != nil {
			t.Fatalf("EncodeEntry failed: %v", err)
		}
		if !strings.Contains(stripANSI(buf.String()), want) {
			t.Errorf("level %s: output %q missing %q", level, buf.String(), want)
		}
	}

	// Info lines carry no level tag.
	buf, err := encoder.EncodeEntry(zapcore.Entry{
		Level:   zapcore.InfoLevel,
		Time:    time.Now(),
		Message: "calm line",
	}, nil)
	if err != nil {
		t.Fatalf("EncodeEntry failed: %v", err)
	}
	if strings.Contains(stripANSI(buf.String()), "INFO") {
		t.Errorf("info output %q should not contain a level tag", buf.String())
	}
}

func TestAbbreviateName(t *testing.T) {
	if got := abbreviateName("watch"); got != "watch" {
		t.Errorf("abbreviateName(watch) = %q", got)
	}
	if got := abbreviateName("watch.loop"); got != "w.loop" {
		t.Errorf("abbreviateName(watch.loop) = %q", got)
	}
}
