package retention

import (
	"context"
	"testing"
	"time"

	"aegisai/aegis/pkg/auditlog"
	"aegisai/aegis/pkg/auditlog/storage"
)

func storeRecord(t *testing.T, s *storage.MemoryStorage, id string, age time.Duration) {
	t.Helper()
	err := s.Store(context.Background(), &auditlog.Record{
		LogID:            id,
		Timestamp:        time.Now().UTC().Add(-age),
		EventType:        "prompt_analysis",
		ComplianceStatus: auditlog.StatusCompliant,
		RiskLevel:        auditlog.RiskLow,
	})
	if err != nil {
		t.Fatalf("Store() error = %v", err)
	}
}

func TestPruner_DeletesExpiredRecords(t *testing.T) {
	s := storage.NewMemoryStorage()
	storeRecord(t, s, "expired", 120*24*time.Hour)
	storeRecord(t, s, "recent", 24*time.Hour)

	p := NewPruner(s, &Config{RetentionDays: 90})

	deleted, err := p.Prune(context.Background())
	if err != nil {
		t.Fatalf("Prune() error = %v", err)
	}
	if deleted != 1 {
		t.Errorf("Prune() = %d, want 1", deleted)
	}

	remaining, _ := s.Query(context.Background(), &auditlog.Query{})
	if len(remaining) != 1 || remaining[0].LogID != "recent" {
		t.Errorf("remaining = %v, want only the recent record", remaining)
	}
}

func TestPruner_ZeroRetentionKeepsEverything(t *testing.T) {
	s := storage.NewMemoryStorage()
	storeRecord(t, s, "ancient", 365*24*time.Hour)

	p := NewPruner(s, &Config{RetentionDays: 0})

	deleted, err := p.Prune(context.Background())
	if err != nil {
		t.Fatalf("Prune() error = %v", err)
	}
	if deleted != 0 {
		t.Errorf("Prune() = %d, want 0 with retention disabled", deleted)
	}

	count, _ := s.Count(context.Background(), &auditlog.Query{})
	if count != 1 {
		t.Errorf("Count() = %d, want 1", count)
	}
}

func TestPruner_NothingToPrune(t *testing.T) {
	s := storage.NewMemoryStorage()
	storeRecord(t, s, "recent", time.Hour)

	p := NewPruner(s, &Config{RetentionDays: 90})

	deleted, err := p.Prune(context.Background())
	if err != nil {
		t.Fatalf("Prune() error = %v", err)
	}
	if deleted != 0 {
		t.Errorf("Prune() = %d, want 0", deleted)
	}
}
