package auditlog

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"aegisai/aegis/pkg/config"
)

// Observer receives audit write and drop counts. *metrics.Collector
// satisfies it.
type Observer interface {
	RecordAuditWrite(eventType string)
	RecordAuditDrop()
}

// Recorder writes audit records asynchronously so governance operations
// never block on storage. Records are sanitized before they are enqueued.
type Recorder struct {
	storage  Storage
	cfg      config.AuditConfig
	observer Observer

	recordChan chan *Record
	done       chan struct{}
	wg         sync.WaitGroup
	logger     *slog.Logger
}

// NewRecorder creates an audit recorder over the given storage backend and
// starts its background writer.
func NewRecorder(storage Storage, cfg config.AuditConfig, observer Observer) *Recorder {
	if cfg.AsyncBuffer <= 0 {
		cfg.AsyncBuffer = 1000
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 5 * time.Second
	}

	r := &Recorder{
		storage:    storage,
		cfg:        cfg,
		observer:   observer,
		recordChan: make(chan *Record, cfg.AsyncBuffer),
		done:       make(chan struct{}),
		logger:     slog.Default().With("component", "auditlog.recorder"),
	}

	r.wg.Add(1)
	go r.worker()

	r.logger.Info("audit recorder initialized",
		"backend", cfg.Backend,
		"async_buffer", cfg.AsyncBuffer,
		"write_timeout", cfg.WriteTimeout,
	)

	return r
}

// Record sanitizes and enqueues a record for async writing. It returns
// immediately; a full channel drops the record after the write timeout.
func (r *Recorder) Record(ctx context.Context, record *Record) error {
	normalize(record)

	record.ActivityDetails = Sanitize(record.ActivityDetails, r.cfg.MaxFieldLength)
	record.InputData = Sanitize(record.InputData, r.cfg.MaxFieldLength)
	record.OutputData = Sanitize(record.OutputData, r.cfg.MaxFieldLength)

	select {
	case r.recordChan <- record:
		r.logger.Debug("audit record enqueued",
			"log_id", record.LogID,
			"event_type", record.EventType,
		)
		return nil
	case <-time.After(r.cfg.WriteTimeout):
		r.logger.Error("audit channel full, dropping record",
			"log_id", record.LogID,
			"event_type", record.EventType,
			"channel_capacity", r.cfg.AsyncBuffer,
		)
		if r.observer != nil {
			r.observer.RecordAuditDrop()
		}
		return NewRecorderError(record.LogID, context.DeadlineExceeded)
	case <-r.done:
		r.logger.Warn("recorder shutting down, dropping record",
			"log_id", record.LogID,
		)
		if r.observer != nil {
			r.observer.RecordAuditDrop()
		}
		return NewRecorderError(record.LogID, context.Canceled)
	}
}

// Close drains the channel and waits for pending writes to finish.
func (r *Recorder) Close() error {
	r.logger.Info("shutting down audit recorder")
	close(r.done)
	r.wg.Wait()
	r.logger.Info("audit recorder shut down")
	return nil
}

func (r *Recorder) worker() {
	defer r.wg.Done()

	for {
		select {
		case record := <-r.recordChan:
			r.writeRecord(record)

		case <-r.done:
			r.logger.Info("draining audit channel before shutdown",
				"pending_count", len(r.recordChan),
			)
			for {
				select {
				case record := <-r.recordChan:
					r.writeRecord(record)
				default:
					r.logger.Info("audit channel drained")
					return
				}
			}
		}
	}
}

func (r *Recorder) writeRecord(record *Record) {
	ctx, cancel := context.WithTimeout(context.Background(), r.cfg.WriteTimeout)
	defer cancel()

	start := time.Now()
	if err := r.storage.Store(ctx, record); err != nil {
		r.logger.Error("failed to store audit record",
			"log_id", record.LogID,
			"event_type", record.EventType,
			"error", err,
		)
		if r.observer != nil {
			r.observer.RecordAuditDrop()
		}
		return
	}

	if r.observer != nil {
		r.observer.RecordAuditWrite(record.EventType)
	}

	duration := time.Since(start)
	r.logger.Debug("audit record stored",
		"log_id", record.LogID,
		"event_type", record.EventType,
		"duration_ms", duration.Milliseconds(),
	)

	if duration > r.cfg.WriteTimeout/2 {
		r.logger.Warn("slow audit write",
			"log_id", record.LogID,
			"duration_ms", duration.Milliseconds(),
		)
	}
}
