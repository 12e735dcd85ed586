package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	_ "modernc.org/sqlite"

	"aegisai/aegis/pkg/policy"
)

const policySchema = `
CREATE TABLE IF NOT EXISTS policies (
	id         TEXT PRIMARY KEY,
	data       TEXT NOT NULL,
	updated_at TIMESTAMP NOT NULL
);
`

// SQLite is a policy store backed by a SQLite database. Policies are
// stored as JSON documents keyed by ID, which keeps schema churn out of
// rule model changes.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens (and if needed creates) the database at path and seeds
// the built-in default policies when the table is empty.
func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, &policy.StoreError{Backend: "sqlite", Op: "open", Err: err}
	}

	if _, err := db.Exec(policySchema); err != nil {
		db.Close()
		return nil, &policy.StoreError{Backend: "sqlite", Op: "migrate", Err: err}
	}

	s := &SQLite{db: db}
	if err := s.seedDefaults(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLite) seedDefaults() error {
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM policies`).Scan(&count); err != nil {
		return &policy.StoreError{Backend: "sqlite", Op: "count", Err: err}
	}
	if count > 0 {
		return nil
	}
	ctx := context.Background()
	for _, p := range policy.DefaultPolicies() {
		if err := s.PutPolicy(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the database.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// ListPolicies returns all policies sorted by ID.
func (s *SQLite) ListPolicies(ctx context.Context) ([]policy.Policy, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT data FROM policies ORDER BY id`)
	if err != nil {
		return nil, &policy.StoreError{Backend: "sqlite", Op: "list", Err: err}
	}
	defer rows.Close()

	var out []policy.Policy
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, &policy.StoreError{Backend: "sqlite", Op: "scan", Err: err}
		}
		var p policy.Policy
		if err := json.Unmarshal([]byte(data), &p); err != nil {
			return nil, &policy.StoreError{Backend: "sqlite", Op: "decode", Err: err}
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, &policy.StoreError{Backend: "sqlite", Op: "list", Err: err}
	}
	return out, nil
}

// GetPolicy returns the policy with the given ID.
func (s *SQLite) GetPolicy(ctx context.Context, id string) (policy.Policy, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT data FROM policies WHERE id = ?`, id).Scan(&data)
	if err == sql.ErrNoRows {
		return policy.Policy{}, &policy.NotFoundError{PolicyID: id}
	}
	if err != nil {
		return policy.Policy{}, &policy.StoreError{Backend: "sqlite", Op: "get", Err: err}
	}

	var p policy.Policy
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return policy.Policy{}, &policy.StoreError{Backend: "sqlite", Op: "decode", Err: err}
	}
	return p, nil
}

// PutPolicy validates and upserts a policy.
func (s *SQLite) PutPolicy(ctx context.Context, p policy.Policy) error {
	if err := p.Validate(); err != nil {
		return err
	}
	data, err := json.Marshal(p)
	if err != nil {
		return &policy.StoreError{Backend: "sqlite", Op: "encode", Err: err}
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO policies (id, data, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at
	`, p.ID, string(data), time.Now().UTC())
	if err != nil {
		return &policy.StoreError{Backend: "sqlite", Op: "put", Err: err}
	}
	return nil
}

// DeletePolicy removes a policy by ID.
func (s *SQLite) DeletePolicy(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM policies WHERE id = ?`, id)
	if err != nil {
		return &policy.StoreError{Backend: "sqlite", Op: "delete", Err: err}
	}
	n, err := res.RowsAffected()
	if err != nil {
		return &policy.StoreError{Backend: "sqlite", Op: "delete", Err: err}
	}
	if n == 0 {
		return &policy.NotFoundError{PolicyID: id}
	}
	return nil
}
