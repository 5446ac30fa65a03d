package memory

import (
	"log"
	"sync"
	"time"

	"github.com/khanglvm/deepthink/internal/storage"
)

const (
	// recordQueueSize is the buffer size for the record queue.
	// If full, records are dropped (non-blocking).
	recordQueueSize = 1000

	// batchFlushSize is the number of records that triggers an immediate flush.
	batchFlushSize = 10

	// flushInterval is how often pending records are flushed to disk.
	flushInterval = 50 * time.Millisecond
)

// Tracker appends query records to storage in the background with
// non-blocking writes.
type Tracker struct {
	storage  storage.Storage
	queue    chan storage.QueryRecord
	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	enabled  bool
	mu       sync.RWMutex
}

// NewTracker creates a query record tracker with background processing.
func NewTracker(s storage.Storage) *Tracker {
	t := &Tracker{
		storage:  s,
		queue:    make(chan storage.QueryRecord, recordQueueSize),
		stopChan: make(chan struct{}),
		enabled:  true,
	}

	if err := t.storage.Init(); err != nil {
		log.Printf("Warning: tracker storage initialization failed: %v", err)
		t.enabled = false
	}

	t.wg.Add(1)
	go t.processRecords()

	return t
}

// Track enqueues a query record (non-blocking).
// If the queue is full, the record is dropped and a warning is logged.
func (t *Tracker) Track(record storage.QueryRecord) {
	if !t.isEnabled() {
		return
	}

	select {
	case t.queue <- record:
	default:
		log.Printf("Warning: tracker queue full, dropping record %s", record.ID)
	}
}

// Stop gracefully shuts down the tracker, flushing remaining records.
func (t *Tracker) Stop() {
	t.stopOnce.Do(func() {
		close(t.stopChan)
		t.wg.Wait()
	})
}

// Disable disables tracking (records are ignored).
func (t *Tracker) Disable() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.enabled = false
}

// Enable enables tracking.
func (t *Tracker) Enable() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.enabled = true
}

// IsEnabled returns whether tracking is enabled.
func (t *Tracker) IsEnabled() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.enabled
}

func (t *Tracker) isEnabled() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.enabled && t.storage != nil
}

// processRecords runs in the background, batching and flushing records.
func (t *Tracker) processRecords() {
	defer t.wg.Done()

	ticker := time.NewTicker(flushInterval)
	defer ticker.Stop()

	batch := make([]storage.QueryRecord, 0, batchFlushSize)

	for {
		select {
		case record, ok := <-t.queue:
			if !ok {
				t.flush(batch)
				return
			}

			batch = append(batch, record)

			if len(batch) >= batchFlushSize {
				t.flush(batch)
				batch = make([]storage.QueryRecord, 0, batchFlushSize)
			}

		case <-ticker.C:
			if len(batch) > 0 {
				t.flush(batch)
				batch = make([]storage.QueryRecord, 0, batchFlushSize)
			}

		case <-t.stopChan:
			// Drain remaining records from the queue, flush and exit
			for {
				select {
				case record, ok := <-t.queue:
					if !ok {
						t.flush(batch)
						return
					}
					batch = append(batch, record)
					if len(batch) >= batchFlushSize {
						t.flush(batch)
						batch = make([]storage.QueryRecord, 0, batchFlushSize)
					}
				default:
					t.flush(batch)
					return
				}
			}
		}
	}
}

// flush writes a batch of records to storage.
func (t *Tracker) flush(records []storage.QueryRecord) {
	if len(records) == 0 {
		return
	}

	for _, record := range records {
		if err := t.storage.RecordQuery(record); err != nil {
			log.Printf("Warning: failed to record query: %v", err)
		}
	}
}
