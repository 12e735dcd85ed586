package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestTextFormatter(t *testing.T) {
	f := NewFormatter(FormatText)

	out, err := f.Format("5 policies loaded")
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if string(out) != "5 policies loaded\n" {
		t.Errorf("Format() = %q", out)
	}

	var buf bytes.Buffer
	if err := f.FormatTo(&buf, 42); err != nil {
		t.Fatalf("FormatTo() error = %v", err)
	}
	if buf.String() != "42\n" {
		t.Errorf("FormatTo() wrote %q", buf.String())
	}
}

func TestJSONFormatter(t *testing.T) {
	f := NewFormatter(FormatJSON)
	data := map[string]any{"policy_id": "no_harmful_content", "enabled": true}

	out, err := f.Format(data)
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if !strings.Contains(string(out), "\n") {
		t.Error("Format() output not indented")
	}

	var decoded map[string]any
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("output not valid JSON: %v", err)
	}
	if decoded["policy_id"] != "no_harmful_content" {
		t.Errorf("policy_id = %v", decoded["policy_id"])
	}
}

func TestJSONFormatter_Compact(t *testing.T) {
	f := &JSONFormatter{Indent: false}

	out, err := f.Format(map[string]int{"count": 3})
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if string(out) != `{"count":3}` {
		t.Errorf("Format() = %q", out)
	}
}

func TestNewFormatter_DefaultsToText(t *testing.T) {
	if _, ok := NewFormatter("junit").(*TextFormatter); !ok {
		t.Error("unknown format did not fall back to text")
	}
}
