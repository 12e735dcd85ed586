package store

import (
	"context"
	"sort"
	"sync"

	"aegisai/aegis/pkg/policy"
)

// Memory is an in-process policy store. Used in tests and when the service
// runs without persistent policy storage.
type Memory struct {
	mu       sync.RWMutex
	policies map[string]policy.Policy
}

// NewMemory creates a Memory store holding the given policies. With no
// arguments the store starts empty.
func NewMemory(policies ...policy.Policy) *Memory {
	m := &Memory{policies: make(map[string]policy.Policy, len(policies))}
	for _, p := range policies {
		m.policies[p.ID] = p
	}
	return m
}

// NewMemoryWithDefaults creates a Memory store seeded with the built-in
// policy set.
func NewMemoryWithDefaults() *Memory {
	return NewMemory(policy.DefaultPolicies()...)
}

// ListPolicies returns all policies sorted by ID.
func (m *Memory) ListPolicies(context.Context) ([]policy.Policy, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]policy.Policy, 0, len(m.policies))
	for _, p := range m.policies {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// GetPolicy returns the policy with the given ID.
func (m *Memory) GetPolicy(_ context.Context, id string) (policy.Policy, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.policies[id]
	if !ok {
		return policy.Policy{}, &policy.NotFoundError{PolicyID: id}
	}
	return p, nil
}

// PutPolicy validates and stores a policy, replacing any existing policy
// with the same ID.
func (m *Memory) PutPolicy(_ context.Context, p policy.Policy) error {
	if err := p.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.policies[p.ID] = p
	return nil
}

// DeletePolicy removes a policy by ID.
func (m *Memory) DeletePolicy(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.policies[id]; !ok {
		return &policy.NotFoundError{PolicyID: id}
	}
	delete(m.policies, id)
	return nil
}
