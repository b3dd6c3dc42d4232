// Package worker runs the snapshot publisher pool. Workers drain the
// snapshot queue and deliver each snapshot to every configured sink.
// Delivery is fire-and-forget: failures are logged and counted, never
// retried, and never surface to the core.
package worker

import (
	"context"
	"sync"

	"github.com/okian/breakside/internal/domain/model"
	"github.com/okian/breakside/pkg/logger"
	"github.com/okian/breakside/pkg/metrics"
)

// Sink delivers a snapshot to one destination (archive, cache, ...).
type Sink interface {
	// Name labels the sink in logs and metrics.
	Name() string

	// Publish delivers the snapshot, honoring ctx for cancellation.
	Publish(ctx context.Context, s model.Snapshot) error
}

// Queue defines how workers receive snapshots.
type Queue interface {
	Dequeue(ctx context.Context) <-chan model.Snapshot
}

// Pool fans snapshots out from the queue to the sinks.
type Pool struct {
	queue   Queue
	sinks   []Sink
	count   int
	logger  logger.Logger
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	started bool
	mu      sync.Mutex
}

// Option applies a configuration option to the Pool.
type Option func(*Pool)

// WithWorkerCount sets the number of publisher goroutines.
func WithWorkerCount(n int) Option {
	return func(p *Pool) {
		if n > 0 {
			p.count = n
		}
	}
}

// WithLogger sets a custom logger for the pool.
func WithLogger(l logger.Logger) Option {
	return func(p *Pool) {
		if l != nil {
			p.logger = l
		}
	}
}

// NewPool creates a publisher pool reading from q and writing to sinks.
func NewPool(q Queue, sinks []Sink, opts ...Option) *Pool {
	p := &Pool{
		queue: q,
		sinks: sinks,
		count: 1,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Start launches the publisher goroutines.
func (p *Pool) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		return
	}
	if p.logger == nil {
		p.logger = logger.Get().Named("publisher")
	}

	runCtx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel

	ch := p.queue.Dequeue(runCtx)
	for i := 0; i < p.count; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			p.run(runCtx, ch)
		}()
	}
	p.started = true
	p.logger.Info(ctx, "snapshot publisher pool started",
		logger.Int("workers", p.count),
		logger.Int("sinks", len(p.sinks)),
	)
}

// Stop cancels the workers and waits for them to drain.
func (p *Pool) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.started {
		return
	}
	p.cancel()
	p.wg.Wait()
	p.started = false
}

func (p *Pool) run(ctx context.Context, ch <-chan model.Snapshot) {
	for {
		select {
		case <-ctx.Done():
			return
		case s, ok := <-ch:
			if !ok {
				return
			}
			p.publish(ctx, s)
		}
	}
}

func (p *Pool) publish(ctx context.Context, s model.Snapshot) {
	for _, sink := range p.sinks {
		if err := sink.Publish(ctx, s); err != nil {
			metrics.RecordSnapshotError(sink.Name())
			p.logger.Warn(ctx, "snapshot delivery failed",
				logger.String("sink", sink.Name()),
				logger.String("snapshot", s.ID),
				logger.Error(err),
			)
			continue
		}
		metrics.RecordSnapshotPublished(sink.Name())
		p.logger.Debug(ctx, "snapshot delivered",
			logger.String("sink", sink.Name()),
			logger.String("snapshot", s.ID),
		)
	}
}
