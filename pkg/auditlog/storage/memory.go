package storage

import (
	"context"
	"sort"
	"sync"

	"aegisai/aegis/pkg/auditlog"
)

// MemoryStorage implements auditlog.Storage with an in-memory map.
// Intended for tests and the "memory" backend in development.
type MemoryStorage struct {
	mu      sync.RWMutex
	records map[string]*auditlog.Record
}

// NewMemoryStorage creates an in-memory audit storage backend.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{records: make(map[string]*auditlog.Record)}
}

// Store persists a record to memory.
func (s *MemoryStorage) Store(_ context.Context, record *auditlog.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	recordCopy := *record
	s.records[record.LogID] = &recordCopy
	return nil
}

// Query retrieves matching records, newest first.
func (s *MemoryStorage) Query(_ context.Context, query *auditlog.Query) ([]*auditlog.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var results []*auditlog.Record
	for _, record := range s.records {
		if matchesQuery(record, query) {
			recordCopy := *record
			results = append(results, &recordCopy)
		}
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Timestamp.After(results[j].Timestamp)
	})

	return paginate(results, query), nil
}

// Count returns the number of matching records.
func (s *MemoryStorage) Count(_ context.Context, query *auditlog.Query) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int64
	for _, record := range s.records {
		if matchesQuery(record, query) {
			count++
		}
	}
	return count, nil
}

// Delete removes matching records and returns how many were removed.
func (s *MemoryStorage) Delete(_ context.Context, query *auditlog.Query) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var deleted int64
	for id, record := range s.records {
		if matchesQuery(record, query) {
			delete(s.records, id)
			deleted++
		}
	}
	return deleted, nil
}

// Close is a no-op for the memory backend.
func (s *MemoryStorage) Close() error { return nil }

func matchesQuery(record *auditlog.Record, query *auditlog.Query) bool {
	if query == nil {
		return true
	}
	if query.StartTime != nil && record.Timestamp.Before(*query.StartTime) {
		return false
	}
	if query.EndTime != nil && record.Timestamp.After(*query.EndTime) {
		return false
	}
	if query.UserID != "" && record.UserID != query.UserID {
		return false
	}
	if query.EventType != "" && record.EventType != query.EventType {
		return false
	}
	if query.RiskLevel != "" && record.RiskLevel != query.RiskLevel {
		return false
	}
	if query.ComplianceStatus != "" && record.ComplianceStatus != query.ComplianceStatus {
		return false
	}
	return true
}

func paginate(records []*auditlog.Record, query *auditlog.Query) []*auditlog.Record {
	if query == nil {
		return records
	}

	start := query.Offset
	if start > len(records) {
		return []*auditlog.Record{}
	}
	records = records[start:]

	limit := query.Limit
	if limit <= 0 {
		limit = 100
	}
	if limit < len(records) {
		records = records[:limit]
	}
	return records
}
