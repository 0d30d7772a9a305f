package events

import (
	"context"
	"sync"
	"time"

	"github.com/LeJamon/goMarketd/internal/core/tx"
	"go.uber.org/zap"
)

// Sink receives batches in commit order.
type Sink interface {
	Name() string
	Write(ctx context.Context, b Batch) error
}

// Publisher queues committed results and fans them out to sinks. It
// implements tx.EventSink. A failing sink is logged and skipped; the
// transaction it reports on has already committed.
type Publisher struct {
	sinks []Sink
	queue chan tx.ApplyResult
	done  chan struct{}
	once  sync.Once
	log   *zap.Logger
	now   func() time.Time
}

// NewPublisher creates a publisher with a queue of buffer results.
func NewPublisher(buffer int, sinks ...Sink) *Publisher {
	if buffer < 1 {
		buffer = 1
	}
	return &Publisher{
		sinks: sinks,
		queue: make(chan tx.ApplyResult, buffer),
		done:  make(chan struct{}),
		log:   zap.L().Named("events"),
		now:   time.Now,
	}
}

// Publish queues r. It blocks while the queue is full and drops r once the
// publisher has stopped.
func (p *Publisher) Publish(r tx.ApplyResult) {
	if len(r.Events) == 0 {
		return
	}
	select {
	case <-p.done:
		p.log.Warn("publisher stopped, dropping events", zap.Uint64("seq", r.Sequence))
		return
	default:
	}
	select {
	case p.queue <- r:
	case <-p.done:
		p.log.Warn("publisher stopped, dropping events", zap.Uint64("seq", r.Sequence))
	}
}

// Run delivers queued results until ctx is canceled, then drains what is
// already queued.
func (p *Publisher) Run(ctx context.Context) error {
	defer p.once.Do(func() { close(p.done) })
	for {
		select {
		case r := <-p.queue:
			p.deliver(ctx, r)
		case <-ctx.Done():
			for {
				select {
				case r := <-p.queue:
					p.deliver(context.Background(), r)
				default:
					return nil
				}
			}
		}
	}
}

func (p *Publisher) deliver(ctx context.Context, r tx.ApplyResult) {
	b, err := NewBatch(r, p.now())
	if err != nil {
		p.log.Error("encode events", zap.Uint64("seq", r.Sequence), zap.Error(err))
		return
	}
	for _, s := range p.sinks {
		if err := s.Write(ctx, b); err != nil {
			p.log.Error("sink failed",
				zap.String("sink", s.Name()),
				zap.Uint64("seq", b.Sequence),
				zap.Error(err))
		}
	}
}
