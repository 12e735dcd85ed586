// Package auth provides bearer-token authentication and role-based
// permissions for the governance API. Tokens come from configuration;
// demo tokens of the form "demo_<role>" can be enabled for local runs.
package auth
