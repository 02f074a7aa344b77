package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    zerolog.Level
		wantErr bool
	}{
		{in: "", want: DefaultLevel},
		{in: "debug", want: zerolog.DebugLevel},
		{in: " INFO ", want: zerolog.InfoLevel},
		{in: "warn", want: zerolog.WarnLevel},
		{in: "error", want: zerolog.ErrorLevel},
		{in: "loud", want: DefaultLevel, wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNew_FiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New("warn", &buf, false)

	logger.Debug().Msg("hidden detail")
	logger.Warn().Str("path", "/tmp/x").Msg("visible problem")

	out := buf.String()
	if strings.Contains(out, "hidden detail") {
		t.Errorf("debug message should be filtered: %q", out)
	}
	if !strings.Contains(out, "visible problem") || !strings.Contains(out, "/tmp/x") {
		t.Errorf("warn message missing: %q", out)
	}
	if strings.Contains(out, "\x1b[") {
		t.Errorf("color disabled but ANSI codes present: %q", out)
	}
}

func TestNew_InvalidLevelReported(t *testing.T) {
	var buf bytes.Buffer
	logger := New("loud", &buf, false)

	if logger.GetLevel() != DefaultLevel {
		t.Errorf("level = %v, want %v", logger.GetLevel(), DefaultLevel)
	}
	if !strings.Contains(buf.String(), `invalid log level "loud"`) {
		t.Errorf("invalid level should be reported: %q", buf.String())
	}
}
