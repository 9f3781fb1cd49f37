package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestNewWithWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "warn", "json", "highland-admin-portal")

	log.Info().Msg("hidden")
	log.Warn().Str("article_id", "7").Msg("visible")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("Expected 1 line at warn level, got %d: %q", len(lines), buf.String())
	}

	var entry map[string]interface{}
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("Expected JSON output: %v", err)
	}
	if entry["service"] != "highland-admin-portal" || entry["message"] != "visible" {
		t.Errorf("Unexpected entry: %v", entry)
	}
}

func TestNewWithWriter_Pretty(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "DEBUG", "pretty", "seed")

	log.Debug().Msg("seeding")

	if !strings.Contains(buf.String(), "seeding") {
		t.Errorf("Expected console output, got %q", buf.String())
	}
	if json.Valid(buf.Bytes()) {
		t.Error("Pretty output should not be JSON")
	}
}
