package eventlog

import (
	"context"
	"sync"
	"time"

	"github.com/nkiryanov/shop/internal/logger"
	"github.com/nkiryanov/shop/internal/models"
	"github.com/nkiryanov/shop/internal/repository"
)

const (
	defaultCountWorkers = 2               // Number of workers to persist events
	defaultQueueSize    = 256             // Events waiting to be persisted
	defaultWriteTimeout = 5 * time.Second // Time to persist a single event
)

type RecorderConfig struct {
	CountWorkers int
	QueueSize    int
	WriteTimeout time.Duration
}

// Recorder is fire-and-forget audit sink
// Events are persisted by background workers, failures are logged and the event is dropped
type Recorder struct {
	countWorkers int
	writeTimeout time.Duration

	repo   repository.EventRepo
	logger logger.Logger

	// Guards queue against send after close
	mu     sync.RWMutex
	closed bool
	queue  chan models.Event
}

func NewRecorder(cfg RecorderConfig, repo repository.EventRepo, l logger.Logger) *Recorder {
	if cfg.CountWorkers <= 0 {
		cfg.CountWorkers = defaultCountWorkers
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = defaultQueueSize
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = defaultWriteTimeout
	}

	return &Recorder{
		countWorkers: cfg.CountWorkers,
		writeTimeout: cfg.WriteTimeout,
		repo:         repo,
		logger:       l,
		queue:        make(chan models.Event, cfg.QueueSize),
	}
}

// Record enqueues event and never blocks
// IP address and user agent are taken from the context if the event has none
func (r *Recorder) Record(ctx context.Context, e models.Event) {
	src := SourceFromContext(ctx)
	if e.IPAddress == "" {
		e.IPAddress = src.IPAddress
	}
	if e.UserAgent == "" {
		e.UserAgent = src.UserAgent
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		r.logger.Warn("Event dropped, recorder stopped", "event_type", e.EventType)
		return
	}

	select {
	case r.queue <- e:
	default:
		r.logger.Warn("Event dropped, queue is full", "event_type", e.EventType)
	}
}

// Start runs workers. Returned channel is closed when all workers are done
// Workers stop only after Stop is called and the queue is drained
func (r *Recorder) Start(ctx context.Context) <-chan struct{} {
	idleStopped := make(chan struct{})

	// Pending events must be saved even if the server is shutting down
	ctx = context.WithoutCancel(ctx)

	var wg sync.WaitGroup
	for i := 0; i < r.countWorkers; i++ {
		wg.Add(1)
		go func() {
			r.worker(ctx)
			wg.Done()
		}()
	}

	go func() {
		defer close(idleStopped)
		wg.Wait()
		r.logger.Debug("Event recorder stopped")
	}()

	return idleStopped
}

// Stop closes the queue. Events recorded after Stop are dropped
func (r *Recorder) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}
	r.closed = true
	close(r.queue)
}

func (r *Recorder) worker(ctx context.Context) {
	for e := range r.queue {
		writeCtx, cancel := context.WithTimeout(ctx, r.writeTimeout)
		_, err := r.repo.Create(writeCtx, e)
		cancel()

		if err != nil {
			r.logger.Error("Failed to save event", "error", err, "event_type", e.EventType)
		}
	}
}

// NoOpRecorder drops all events
type NoOpRecorder struct{}

func (NoOpRecorder) Record(context.Context, models.Event) {}
