package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"aegisai/aegis/pkg/policy"
)

func TestMemory_CRUD(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	p := policy.Policy{
		ID:        "test_policy",
		Name:      "Test Policy",
		AppliesTo: []string{policy.ActivityAll},
		Enabled:   true,
		Rules: []policy.Rule{{
			Kind:          policy.RuleContentFilter,
			Actions:       []policy.EnforcementAction{policy.ActionWarn},
			ContentFilter: &policy.ContentFilterParams{BlockedTerms: []string{"x"}},
		}},
	}

	if err := m.PutPolicy(ctx, p); err != nil {
		t.Fatalf("PutPolicy() error = %v", err)
	}

	got, err := m.GetPolicy(ctx, "test_policy")
	if err != nil {
		t.Fatalf("GetPolicy() error = %v", err)
	}
	if got.Name != "Test Policy" {
		t.Errorf("Name = %q", got.Name)
	}

	list, err := m.ListPolicies(ctx)
	if err != nil {
		t.Fatalf("ListPolicies() error = %v", err)
	}
	if len(list) != 1 {
		t.Errorf("len(list) = %d, want 1", len(list))
	}

	if err := m.DeletePolicy(ctx, "test_policy"); err != nil {
		t.Fatalf("DeletePolicy() error = %v", err)
	}
	if _, err := m.GetPolicy(ctx, "test_policy"); err == nil {
		t.Error("GetPolicy() after delete should fail")
	}
	var nf *policy.NotFoundError
	if err := m.DeletePolicy(ctx, "test_policy"); !errors.As(err, &nf) {
		t.Errorf("DeletePolicy() error = %v, want NotFoundError", err)
	}
}

func TestMemory_PutRejectsInvalid(t *testing.T) {
	m := NewMemory()
	if err := m.PutPolicy(context.Background(), policy.Policy{ID: "bad"}); err == nil {
		t.Error("expected validation error")
	}
}

func TestMemory_ListSortedByID(t *testing.T) {
	m := NewMemoryWithDefaults()
	list, err := m.ListPolicies(context.Background())
	if err != nil {
		t.Fatalf("ListPolicies() error = %v", err)
	}
	if len(list) == 0 {
		t.Fatal("defaults not seeded")
	}
	for i := 1; i < len(list); i++ {
		if list[i-1].ID >= list[i].ID {
			t.Errorf("list not sorted: %q before %q", list[i-1].ID, list[i].ID)
		}
	}
}

const policyYAML = `
id: custom_filter
name: Custom Filter
applies_to: ["all"]
enabled: true
rules:
  - id: backdoor_filter
    kind: content_filter
    enforcement_actions: [block]
    content_filter:
      blocked_terms: ["backdoor"]
`

func TestFile_LoadsDirectory(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "custom.yaml"), []byte(policyYAML), 0o644); err != nil {
		t.Fatal(err)
	}

	f, err := NewFile(dir, 0)
	if err != nil {
		t.Fatalf("NewFile() error = %v", err)
	}

	list, err := f.ListPolicies(context.Background())
	if err != nil {
		t.Fatalf("ListPolicies() error = %v", err)
	}
	if len(list) != 1 || list[0].ID != "custom_filter" {
		t.Errorf("list = %+v, want single custom_filter policy", list)
	}
	if list[0].Rules[0].ContentFilter == nil {
		t.Fatal("content_filter params not decoded")
	}
	rule := list[0].Rules[0]
	if rule.ID != "backdoor_filter" {
		t.Errorf("rule ID = %q, want backdoor_filter", rule.ID)
	}
	if len(rule.Actions) != 1 || rule.Actions[0] != policy.ActionBlock {
		t.Errorf("rule Actions = %v, want [block]", rule.Actions)
	}
}

func TestFile_EmptyDirUsesDefaults(t *testing.T) {
	f, err := NewFile(t.TempDir(), 0)
	if err != nil {
		t.Fatalf("NewFile() error = %v", err)
	}
	list, err := f.ListPolicies(context.Background())
	if err != nil {
		t.Fatalf("ListPolicies() error = %v", err)
	}
	if len(list) != len(policy.DefaultPolicies()) {
		t.Errorf("len(list) = %d, want defaults", len(list))
	}
}

func TestFile_RejectsInvalidFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "bad.yaml"), []byte("id: only_an_id\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewFile(dir, 0); err == nil {
		t.Error("expected error for invalid policy file")
	}
}

func TestFile_RejectsOversizedFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "big.yaml"), []byte(policyYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewFile(dir, 10); err == nil {
		t.Error("expected error for file over size limit")
	}
}

func TestFile_RejectsDuplicateIDs(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.yaml", "b.yaml"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(policyYAML), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := NewFile(dir, 0); err == nil {
		t.Error("expected error for duplicate policy IDs")
	}
}

func TestFile_WatchReloads(t *testing.T) {
	dir := t.TempDir()
	f, err := NewFile(dir, 0)
	if err != nil {
		t.Fatalf("NewFile() error = %v", err)
	}
	if err := f.Watch(); err != nil {
		t.Fatalf("Watch() error = %v", err)
	}
	defer f.Close()

	if err := os.WriteFile(filepath.Join(dir, "custom.yaml"), []byte(policyYAML), 0o644); err != nil {
		t.Fatal(err)
	}

	deadline := time.After(3 * time.Second)
	for {
		list, err := f.ListPolicies(context.Background())
		if err != nil {
			t.Fatalf("ListPolicies() error = %v", err)
		}
		if len(list) == 1 && list[0].ID == "custom_filter" {
			return
		}
		select {
		case <-deadline:
			t.Fatalf("policy set not reloaded, have %d policies", len(list))
		case <-time.After(50 * time.Millisecond):
		}
	}
}

func TestSQLite_CRUD(t *testing.T) {
	ctx := context.Background()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "policies.db"))
	if err != nil {
		t.Fatalf("NewSQLite() error = %v", err)
	}
	defer s.Close()

	// Defaults seeded on first open.
	list, err := s.ListPolicies(ctx)
	if err != nil {
		t.Fatalf("ListPolicies() error = %v", err)
	}
	if len(list) != len(policy.DefaultPolicies()) {
		t.Errorf("len(list) = %d, want seeded defaults", len(list))
	}

	p := policy.Policy{
		ID:        "zz_custom",
		Name:      "Custom",
		AppliesTo: []string{policy.ActivityAll},
		Enabled:   true,
		Rules: []policy.Rule{{
			Kind:          policy.RuleModelAnalysis,
			Actions:       []policy.EnforcementAction{policy.ActionReview},
			ModelAnalysis: &policy.ModelAnalysisParams{Threshold: 0.7},
		}},
	}
	if err := s.PutPolicy(ctx, p); err != nil {
		t.Fatalf("PutPolicy() error = %v", err)
	}

	got, err := s.GetPolicy(ctx, "zz_custom")
	if err != nil {
		t.Fatalf("GetPolicy() error = %v", err)
	}
	if got.Rules[0].ModelAnalysis == nil || got.Rules[0].ModelAnalysis.Threshold != 0.7 {
		t.Errorf("round-tripped rule = %+v", got.Rules[0])
	}

	if err := s.DeletePolicy(ctx, "zz_custom"); err != nil {
		t.Fatalf("DeletePolicy() error = %v", err)
	}
	var nf *policy.NotFoundError
	if _, err := s.GetPolicy(ctx, "zz_custom"); !errors.As(err, &nf) {
		t.Errorf("GetPolicy() error = %v, want NotFoundError", err)
	}
}
