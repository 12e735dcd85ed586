package main

import (
	"os"
	"path/filepath"
	"testing"
)

const validPolicyYAML = `id: no_off_topic
name: No Off Topic
applies_to: ["prompt_submission"]
enabled: true
rules:
  - id: off_topic_filter
    kind: content_filter
    enforcement_actions: [warn]
    content_filter:
      blocked_terms: ["off-topic"]
`

const invalidPolicyYAML = `name: Missing ID
applies_to: ["all"]
enabled: true
rules:
  - kind: content_filter
    content_filter:
      blocked_terms: ["x"]
`

func writePolicyFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
}

func TestLoadPolicyFile(t *testing.T) {
	dir := t.TempDir()
	writePolicyFile(t, dir, "valid.yaml", validPolicyYAML)

	p, err := loadPolicyFile(filepath.Join(dir, "valid.yaml"))
	if err != nil {
		t.Fatalf("loadPolicyFile() error = %v", err)
	}
	if p.ID != "no_off_topic" {
		t.Errorf("ID = %q, want %q", p.ID, "no_off_topic")
	}
	if len(p.Rules) != 1 {
		t.Errorf("Rules = %d, want 1", len(p.Rules))
	}
}

func TestLoadPolicyFile_Invalid(t *testing.T) {
	dir := t.TempDir()
	writePolicyFile(t, dir, "invalid.yaml", invalidPolicyYAML)

	if _, err := loadPolicyFile(filepath.Join(dir, "invalid.yaml")); err == nil {
		t.Fatal("loadPolicyFile() accepted a policy without an id")
	}
}

func TestLoadPolicyFile_MalformedYAML(t *testing.T) {
	dir := t.TempDir()
	writePolicyFile(t, dir, "broken.yaml", "id: [unclosed")

	if _, err := loadPolicyFile(filepath.Join(dir, "broken.yaml")); err == nil {
		t.Fatal("loadPolicyFile() accepted malformed YAML")
	}
}

func TestValidatePolicies_FailsOnInvalidFile(t *testing.T) {
	dir := t.TempDir()
	writePolicyFile(t, dir, "valid.yaml", validPolicyYAML)
	writePolicyFile(t, dir, "invalid.yaml", invalidPolicyYAML)
	writePolicyFile(t, dir, "notes.txt", "ignored")

	origDir := policyFlags.dir
	policyFlags.dir = dir
	defer func() { policyFlags.dir = origDir }()

	if err := validatePolicies(policyValidateCmd, nil); err == nil {
		t.Fatal("validatePolicies() = nil, want error for invalid file")
	}
}

func TestValidatePolicies_AllValid(t *testing.T) {
	dir := t.TempDir()
	writePolicyFile(t, dir, "valid.yaml", validPolicyYAML)

	origDir := policyFlags.dir
	policyFlags.dir = dir
	defer func() { policyFlags.dir = origDir }()

	if err := validatePolicies(policyValidateCmd, nil); err != nil {
		t.Fatalf("validatePolicies() error = %v", err)
	}
}

func TestIsPolicyFile(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"governance.yaml", true},
		{"governance.yml", true},
		{"GOVERNANCE.YAML", true},
		{"governance.json", false},
		{"readme.md", false},
	}
	for _, tt := range tests {
		if got := isPolicyFile(tt.name); got != tt.want {
			t.Errorf("isPolicyFile(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}
