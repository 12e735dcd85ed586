package auth

import (
	"context"
	"strings"
	"sync"

	"aegisai/aegis/pkg/config"
)

// Known roles.
const (
	RoleAdmin   = "admin"
	RoleAnalyst = "analyst"
	RoleUser    = "user"
)

// Permissions.
const (
	PermRead         = "read"
	PermWrite        = "write"
	PermAdmin        = "admin"
	PermAudit        = "audit"
	PermPolicyManage = "policy_manage"
)

// RolePermissions maps each role to its granted permissions.
var RolePermissions = map[string][]string{
	RoleAdmin:   {PermRead, PermWrite, PermAdmin, PermAudit, PermPolicyManage},
	RoleAnalyst: {PermRead, PermWrite, PermAudit},
	RoleUser:    {PermRead},
}

// UserContext identifies an authenticated caller and travels with every
// pipeline run.
type UserContext struct {
	UserID      string   `json:"user_id"`
	Username    string   `json:"username"`
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
}

// HasPermission reports whether the user holds the permission.
func (u *UserContext) HasPermission(perm string) bool {
	for _, p := range u.Permissions {
		if p == perm {
			return true
		}
	}
	return false
}

// Verifier authenticates bearer tokens.
type Verifier interface {
	// Verify resolves a token to a user context, or an AuthError when the
	// token is missing, unknown, or disabled.
	Verify(ctx context.Context, token string) (*UserContext, error)
}

// StaticVerifier authenticates against a fixed token table from
// configuration, optionally accepting "demo_<role>" tokens for local use.
type StaticVerifier struct {
	mu         sync.RWMutex
	tokens     map[string]*UserContext
	allowDemo  bool
}

// NewStaticVerifier builds a StaticVerifier from the auth configuration.
// Disabled tokens are skipped.
func NewStaticVerifier(cfg config.AuthConfig) *StaticVerifier {
	v := &StaticVerifier{
		tokens:    make(map[string]*UserContext, len(cfg.Tokens)),
		allowDemo: cfg.AllowDemoTokens,
	}
	for _, tc := range cfg.Tokens {
		if !tc.Enabled {
			continue
		}
		v.tokens[tc.Token] = &UserContext{
			UserID:      tc.UserID,
			Username:    tc.Username,
			Role:        tc.Role,
			Permissions: RolePermissions[tc.Role],
		}
	}
	return v
}

// Verify resolves the token. Demo tokens take the form "demo_<role>" and
// map to a synthetic user of that role.
func (v *StaticVerifier) Verify(_ context.Context, token string) (*UserContext, error) {
	if token == "" {
		return nil, &AuthError{Reason: "missing token"}
	}

	v.mu.RLock()
	uc, ok := v.tokens[token]
	v.mu.RUnlock()
	if ok {
		// Copy so callers cannot mutate the table entry.
		out := *uc
		return &out, nil
	}

	if v.allowDemo {
		if role, found := strings.CutPrefix(token, "demo_"); found {
			if perms, known := RolePermissions[role]; known {
				return &UserContext{
					UserID:      "demo_" + role,
					Username:    "Demo " + strings.ToUpper(role[:1]) + role[1:],
					Role:        role,
					Permissions: perms,
				}, nil
			}
		}
	}

	return nil, &AuthError{Reason: "unknown token"}
}

// RequirePermission returns a PermissionError unless the user holds the
// permission.
func RequirePermission(u *UserContext, perm string) error {
	if u == nil {
		return &AuthError{Reason: "no user context"}
	}
	if !u.HasPermission(perm) {
		return &PermissionError{UserID: u.UserID, Permission: perm}
	}
	return nil
}
