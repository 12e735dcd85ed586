package auditlog

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"aegisai/aegis/pkg/config"
)

// stubStorage collects stored records in memory.
type stubStorage struct {
	mu      sync.Mutex
	records []*Record
	err     error
	block   chan struct{}
}

func (s *stubStorage) Store(ctx context.Context, record *Record) error {
	if s.block != nil {
		select {
		case <-s.block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.records = append(s.records, record)
	return nil
}

func (s *stubStorage) Query(context.Context, *Query) ([]*Record, error) { return nil, nil }
func (s *stubStorage) Count(context.Context, *Query) (int64, error)    { return 0, nil }
func (s *stubStorage) Delete(context.Context, *Query) (int64, error)   { return 0, nil }
func (s *stubStorage) Close() error                                    { return nil }

func (s *stubStorage) stored() []*Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*Record(nil), s.records...)
}

type countingObserver struct {
	mu     sync.Mutex
	writes int
	drops  int
}

func (o *countingObserver) RecordAuditWrite(string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.writes++
}

func (o *countingObserver) RecordAuditDrop() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.drops++
}

func testAuditConfig() config.AuditConfig {
	return config.AuditConfig{
		Backend:        "memory",
		AsyncBuffer:    10,
		WriteTimeout:   time.Second,
		MaxFieldLength: 1000,
	}
}

func TestRecorder_WritesRecordAsync(t *testing.T) {
	storage := &stubStorage{}
	observer := &countingObserver{}
	r := NewRecorder(storage, testAuditConfig(), observer)

	err := r.Record(context.Background(), &Record{
		EventType: "prompt_analysis",
		Component: "prompt_guard",
		InputData: map[string]any{"api_key": "sk-123", "prompt": "hello"},
	})
	if err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	if err := r.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	records := storage.stored()
	if len(records) != 1 {
		t.Fatalf("stored records = %d, want 1", len(records))
	}
	stored := records[0]
	if stored.LogID == "" {
		t.Error("LogID not assigned")
	}
	if stored.InputData["api_key"] != "[REDACTED]" {
		t.Errorf("api_key = %v, want redacted before storage", stored.InputData["api_key"])
	}
	if stored.InputData["prompt"] != "hello" {
		t.Errorf("prompt = %v, want unchanged", stored.InputData["prompt"])
	}

	observer.mu.Lock()
	defer observer.mu.Unlock()
	if observer.writes != 1 {
		t.Errorf("observed writes = %d, want 1", observer.writes)
	}
}

func TestRecorder_DropsWhenChannelFull(t *testing.T) {
	block := make(chan struct{})
	storage := &stubStorage{block: block}
	observer := &countingObserver{}

	cfg := testAuditConfig()
	cfg.AsyncBuffer = 1
	cfg.WriteTimeout = 50 * time.Millisecond
	r := NewRecorder(storage, cfg, observer)
	defer func() {
		close(block)
		r.Close()
	}()

	// First record occupies the worker, second fills the buffer. The
	// third cannot be enqueued within the write timeout.
	var dropErr error
	for i := 0; i < 3; i++ {
		if err := r.Record(context.Background(), &Record{EventType: "prompt_analysis"}); err != nil {
			dropErr = err
		}
	}

	if dropErr == nil {
		t.Fatal("expected a drop error once the channel filled")
	}
	var recErr *RecorderError
	if !errors.As(dropErr, &recErr) {
		t.Fatalf("error = %v, want *RecorderError", dropErr)
	}

	observer.mu.Lock()
	defer observer.mu.Unlock()
	if observer.drops == 0 {
		t.Error("observer did not count the drop")
	}
}

func TestRecorder_StorageFailureCountsDrop(t *testing.T) {
	storage := &stubStorage{err: errors.New("disk full")}
	observer := &countingObserver{}
	r := NewRecorder(storage, testAuditConfig(), observer)

	if err := r.Record(context.Background(), &Record{EventType: "output_audit"}); err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	r.Close()

	observer.mu.Lock()
	defer observer.mu.Unlock()
	if observer.drops != 1 {
		t.Errorf("observed drops = %d, want 1", observer.drops)
	}
	if observer.writes != 0 {
		t.Errorf("observed writes = %d, want 0", observer.writes)
	}
}

func TestRecorder_NilObserver(t *testing.T) {
	storage := &stubStorage{}
	r := NewRecorder(storage, testAuditConfig(), nil)

	if err := r.Record(context.Background(), &Record{EventType: "feedback_collection"}); err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if len(storage.stored()) != 1 {
		t.Errorf("stored records = %d, want 1", len(storage.stored()))
	}
}
