package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"aegisai/aegis/pkg/cli"
	"aegisai/aegis/pkg/policy"
	"aegisai/aegis/pkg/policy/store"
)

var policyFlags struct {
	dir    string
	output string
}

var policyCmd = &cobra.Command{
	Use:   "policy",
	Short: "Inspect and validate governance policies",
	Long: `Inspect and validate the governance policy set.

Policies are YAML files with content filters, role restrictions, length
limits, and model-analysis rules. The server loads them from the policy
directory and hot-reloads on change.`,
}

var policyValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate policy files",
	Long: `Validate every policy file in a directory.

Each file is parsed and checked for structural problems: missing IDs,
unknown rule kinds, missing rule parameters, and duplicate policy IDs.

Examples:
  # Validate the default policy directory
  aegis policy validate

  # Validate a specific directory with JSON output
  aegis policy validate --dir /etc/aegis/policies --output json`,
	RunE: validatePolicies,
}

var policyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the effective policy set",
	Long: `List the policy set the server would load from the directory.

When the directory has no policy files, the built-in defaults are shown,
matching the server's fallback behavior.`,
	RunE: listPolicies,
}

func init() {
	rootCmd.AddCommand(policyCmd)
	policyCmd.AddCommand(policyValidateCmd)
	policyCmd.AddCommand(policyListCmd)

	policyCmd.PersistentFlags().StringVarP(&policyFlags.dir, "dir", "d", "policies", "policy directory")
	policyCmd.PersistentFlags().StringVarP(&policyFlags.output, "output", "o", "text", "output format (text, json)")
}

// policyFileResult is one file's validation outcome.
type policyFileResult struct {
	File     string `json:"file"`
	PolicyID string `json:"policy_id,omitempty"`
	Valid    bool   `json:"valid"`
	Error    string `json:"error,omitempty"`
}

func validatePolicies(cmd *cobra.Command, args []string) error {
	entries, err := os.ReadDir(policyFlags.dir)
	if err != nil {
		return cli.NewCommandError("policy validate", err)
	}

	var results []policyFileResult
	seen := make(map[string]string)
	invalid := 0

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !isPolicyFile(name) {
			continue
		}

		result := policyFileResult{File: name, Valid: true}
		p, err := loadPolicyFile(filepath.Join(policyFlags.dir, name))
		switch {
		case err != nil:
			result.Valid = false
			result.Error = err.Error()
		case seen[p.ID] != "":
			result.PolicyID = p.ID
			result.Valid = false
			result.Error = fmt.Sprintf("duplicate policy id %q (also in %s)", p.ID, seen[p.ID])
		default:
			result.PolicyID = p.ID
			seen[p.ID] = name
		}
		if !result.Valid {
			invalid++
		}
		results = append(results, result)
	}

	if policyFlags.output == "json" {
		formatter := cli.NewFormatter(cli.FormatJSON)
		if err := formatter.FormatTo(os.Stdout, results); err != nil {
			return err
		}
	} else {
		for _, r := range results {
			if r.Valid {
				fmt.Printf("✓ %s (%s)\n", r.File, r.PolicyID)
			} else {
				fmt.Printf("✗ %s: %s\n", r.File, r.Error)
			}
		}
		fmt.Printf("\n%d files checked, %d invalid\n", len(results), invalid)
	}

	if invalid > 0 {
		return cli.NewCommandError("policy validate",
			fmt.Errorf("%d invalid policy files", invalid))
	}
	return nil
}

// policySummary is one policy in list output. Actions is the union of
// the policy's rule enforcement actions.
type policySummary struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Actions   []string `json:"actions"`
	AppliesTo []string `json:"applies_to"`
	Enabled   bool     `json:"enabled"`
	Rules     int      `json:"rules"`
}

func listPolicies(cmd *cobra.Command, args []string) error {
	fs, err := store.NewFile(policyFlags.dir, 0)
	if err != nil {
		return cli.NewCommandError("policy list", err)
	}
	defer fs.Close()

	policies, err := fs.ListPolicies(context.Background())
	if err != nil {
		return cli.NewCommandError("policy list", err)
	}

	summaries := make([]policySummary, 0, len(policies))
	for _, p := range policies {
		summaries = append(summaries, policySummary{
			ID:        p.ID,
			Name:      p.Name,
			Actions:   policyActions(&p),
			AppliesTo: p.AppliesTo,
			Enabled:   p.Enabled,
			Rules:     len(p.Rules),
		})
	}

	if policyFlags.output == "json" {
		return cli.NewFormatter(cli.FormatJSON).FormatTo(os.Stdout, summaries)
	}

	for _, s := range summaries {
		state := "enabled"
		if !s.Enabled {
			state = "disabled"
		}
		fmt.Printf("%-30s %-16s %-10s %d rules (%s)\n",
			s.ID, strings.Join(s.Actions, ","), state, s.Rules, strings.Join(s.AppliesTo, ", "))
	}
	fmt.Printf("\n%d policies\n", len(summaries))
	return nil
}

func policyActions(p *policy.Policy) []string {
	var out []string
	for _, rule := range p.Rules {
		for _, a := range rule.EnforcementActions() {
			if !containsAction(out, string(a)) {
				out = append(out, string(a))
			}
		}
	}
	return out
}

func containsAction(have []string, a string) bool {
	for _, h := range have {
		if h == a {
			return true
		}
	}
	return false
}

func loadPolicyFile(path string) (*policy.Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var p policy.Policy
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

func isPolicyFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".yaml" || ext == ".yml"
}
