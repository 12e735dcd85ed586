// Aegis is an AI governance service that screens prompts and audits model
// outputs against organizational policy.
//
// It exposes an HTTP API that runs governance workflows:
//   - Prompt screening with risk scoring and content flagging
//   - Output auditing for bias, toxicity, and fairness
//   - Policy enforcement with hot-reloadable policy files
//   - Advisory guidance and feedback collection
//   - A persistent audit trail with scheduled retention pruning
//
// Usage:
//
//	# Start the server with default configuration
//	aegis run
//
//	# Start with a custom configuration file
//	aegis run --config /path/to/config.yaml
//
//	# Show version information
//	aegis version
//
//	# Validate policy files
//	aegis policy validate --dir policies/
//
//	# List the effective policy set
//	aegis policy list --dir policies/ --output json
package main

func main() {
	Execute()
}
