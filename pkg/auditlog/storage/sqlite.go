package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"aegisai/aegis/pkg/auditlog"
)

// SQLiteConfig contains configuration for the SQLite audit backend.
type SQLiteConfig struct {
	// Path is the database file path.
	Path string

	// MaxOpenConns is the maximum number of open connections.
	// Default: 10
	MaxOpenConns int

	// MaxIdleConns is the maximum number of idle connections.
	// Default: 5
	MaxIdleConns int

	// WALMode enables Write-Ahead Logging for better concurrency.
	// Default: true
	WALMode bool

	// BusyTimeout is the duration to wait when the database is locked.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// DefaultSQLiteConfig returns the default SQLite configuration.
func DefaultSQLiteConfig() *SQLiteConfig {
	return &SQLiteConfig{
		Path:         "data/audit.db",
		MaxOpenConns: 10,
		MaxIdleConns: 5,
		WALMode:      true,
		BusyTimeout:  5 * time.Second,
	}
}

// SQLiteStorage implements auditlog.Storage using SQLite.
type SQLiteStorage struct {
	db     *sql.DB
	config *SQLiteConfig
	logger *slog.Logger
}

// NewSQLiteStorage opens the database, applies the schema, and enables
// WAL mode if configured.
func NewSQLiteStorage(config *SQLiteConfig) (*SQLiteStorage, error) {
	if config == nil {
		config = DefaultSQLiteConfig()
	}

	logger := slog.Default().With("component", "auditlog.storage.sqlite")

	db, err := sql.Open("sqlite3", config.Path)
	if err != nil {
		return nil, auditlog.NewStorageError("sqlite", "open", err)
	}

	db.SetMaxOpenConns(config.MaxOpenConns)
	db.SetMaxIdleConns(config.MaxIdleConns)

	s := &SQLiteStorage{
		db:     db,
		config: config,
		logger: logger,
	}

	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("SQLite audit storage initialized",
		"path", config.Path,
		"wal_mode", config.WALMode,
		"max_open_conns", config.MaxOpenConns,
	)

	return s, nil
}

func (s *SQLiteStorage) initialize() error {
	if s.config.WALMode {
		if _, err := s.db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
			return auditlog.NewStorageError("sqlite", "enable_wal", err)
		}
	}

	busyTimeoutMs := s.config.BusyTimeout.Milliseconds()
	if _, err := s.db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d;", busyTimeoutMs)); err != nil {
		return auditlog.NewStorageError("sqlite", "set_busy_timeout", err)
	}

	if _, err := s.db.Exec(Schema); err != nil {
		return auditlog.NewStorageError("sqlite", "create_schema", err)
	}

	if _, err := s.db.Exec(InsertSchemaVersion, SchemaVersion); err != nil {
		return auditlog.NewStorageError("sqlite", "insert_schema_version", err)
	}

	var version int
	err := s.db.QueryRow(GetSchemaVersion).Scan(&version)
	if err != nil && err != sql.ErrNoRows {
		return auditlog.NewStorageError("sqlite", "get_schema_version", err)
	}
	if version != SchemaVersion {
		return auditlog.NewStorageError("sqlite", "schema_version_mismatch",
			fmt.Errorf("expected schema version %d, got %d", SchemaVersion, version))
	}

	return nil
}

// Store persists an audit record.
func (s *SQLiteStorage) Store(ctx context.Context, record *auditlog.Record) error {
	activityDetails, _ := json.Marshal(record.ActivityDetails)
	inputData, _ := json.Marshal(record.InputData)
	outputData, _ := json.Marshal(record.OutputData)

	query := `
		INSERT INTO audit_logs (
			log_id, timestamp, session_id,
			user_id, user_role,
			event_type, component,
			activity_details, input_data, output_data,
			compliance_status, risk_level,
			ip_address, user_agent, request_id
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		record.LogID, record.Timestamp, record.SessionID,
		record.UserID, record.UserRole,
		record.EventType, record.Component,
		string(activityDetails), string(inputData), string(outputData),
		record.ComplianceStatus, record.RiskLevel,
		record.Metadata.IPAddress, record.Metadata.UserAgent, record.Metadata.RequestID,
	)
	if err != nil {
		return auditlog.NewStorageError("sqlite", "store", err)
	}
	return nil
}

// Query retrieves matching records, newest first.
func (s *SQLiteStorage) Query(ctx context.Context, query *auditlog.Query) ([]*auditlog.Record, error) {
	whereClause, args := buildWhereClause(query)

	sqlQuery := "SELECT * FROM audit_logs"
	if whereClause != "" {
		sqlQuery += " WHERE " + whereClause
	}
	sqlQuery += " ORDER BY timestamp DESC"

	limit := 100
	if query != nil && query.Limit > 0 {
		limit = query.Limit
	}
	sqlQuery += fmt.Sprintf(" LIMIT %d", limit)
	if query != nil && query.Offset > 0 {
		sqlQuery += fmt.Sprintf(" OFFSET %d", query.Offset)
	}

	rows, err := s.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, auditlog.NewStorageError("sqlite", "query", err)
	}
	defer rows.Close()

	records := []*auditlog.Record{}
	for rows.Next() {
		record, err := scanRow(rows)
		if err != nil {
			return nil, auditlog.NewStorageError("sqlite", "scan", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, auditlog.NewStorageError("sqlite", "query", err)
	}
	return records, nil
}

// Count returns the number of matching records.
func (s *SQLiteStorage) Count(ctx context.Context, query *auditlog.Query) (int64, error) {
	whereClause, args := buildWhereClause(query)

	sqlQuery := "SELECT COUNT(*) FROM audit_logs"
	if whereClause != "" {
		sqlQuery += " WHERE " + whereClause
	}

	var count int64
	if err := s.db.QueryRowContext(ctx, sqlQuery, args...).Scan(&count); err != nil {
		return 0, auditlog.NewStorageError("sqlite", "count", err)
	}
	return count, nil
}

// Delete removes matching records and returns the number deleted.
func (s *SQLiteStorage) Delete(ctx context.Context, query *auditlog.Query) (int64, error) {
	whereClause, args := buildWhereClause(query)

	sqlQuery := "DELETE FROM audit_logs"
	if whereClause != "" {
		sqlQuery += " WHERE " + whereClause
	}

	result, err := s.db.ExecContext(ctx, sqlQuery, args...)
	if err != nil {
		return 0, auditlog.NewStorageError("sqlite", "delete", err)
	}
	count, err := result.RowsAffected()
	if err != nil {
		return 0, auditlog.NewStorageError("sqlite", "delete", err)
	}
	return count, nil
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	if err := s.db.Close(); err != nil {
		return auditlog.NewStorageError("sqlite", "close", err)
	}
	s.logger.Info("SQLite audit storage closed")
	return nil
}

func buildWhereClause(query *auditlog.Query) (string, []any) {
	if query == nil {
		return "", nil
	}

	var conditions []string
	var args []any

	if query.StartTime != nil {
		conditions = append(conditions, "timestamp >= ?")
		args = append(args, *query.StartTime)
	}
	if query.EndTime != nil {
		conditions = append(conditions, "timestamp <= ?")
		args = append(args, *query.EndTime)
	}
	if query.UserID != "" {
		conditions = append(conditions, "user_id = ?")
		args = append(args, query.UserID)
	}
	if query.EventType != "" {
		conditions = append(conditions, "event_type = ?")
		args = append(args, query.EventType)
	}
	if query.RiskLevel != "" {
		conditions = append(conditions, "risk_level = ?")
		args = append(args, query.RiskLevel)
	}
	if query.ComplianceStatus != "" {
		conditions = append(conditions, "compliance_status = ?")
		args = append(args, query.ComplianceStatus)
	}

	whereClause := ""
	for i, condition := range conditions {
		if i > 0 {
			whereClause += " AND "
		}
		whereClause += condition
	}
	return whereClause, args
}

func scanRow(rows *sql.Rows) (*auditlog.Record, error) {
	var record auditlog.Record
	var activityDetails, inputData, outputData string

	err := rows.Scan(
		&record.LogID, &record.Timestamp, &record.SessionID,
		&record.UserID, &record.UserRole,
		&record.EventType, &record.Component,
		&activityDetails, &inputData, &outputData,
		&record.ComplianceStatus, &record.RiskLevel,
		&record.Metadata.IPAddress, &record.Metadata.UserAgent, &record.Metadata.RequestID,
	)
	if err != nil {
		return nil, err
	}

	if activityDetails != "" {
		json.Unmarshal([]byte(activityDetails), &record.ActivityDetails)
	}
	if inputData != "" {
		json.Unmarshal([]byte(inputData), &record.InputData)
	}
	if outputData != "" {
		json.Unmarshal([]byte(outputData), &record.OutputData)
	}

	return &record, nil
}
