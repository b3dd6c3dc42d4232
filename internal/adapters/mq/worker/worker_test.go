package worker_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	worker "github.com/okian/breakside/internal/adapters/mq/worker"
	model "github.com/okian/breakside/internal/domain/model"
	logging "github.com/okian/breakside/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

type mockQueue struct {
	ch chan model.Snapshot
}

func newMockQueue() *mockQueue {
	return &mockQueue{ch: make(chan model.Snapshot, 10)}
}

func (mq *mockQueue) Dequeue(ctx context.Context) <-chan model.Snapshot {
	return mq.ch
}

func (mq *mockQueue) add(s model.Snapshot) {
	mq.ch <- s
}

type captureSink struct {
	name string
	fail error

	mu        sync.Mutex
	delivered []string
}

func (cs *captureSink) Name() string { return cs.name }

func (cs *captureSink) Publish(_ context.Context, s model.Snapshot) error {
	if cs.fail != nil {
		return cs.fail
	}
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.delivered = append(cs.delivered, s.ID)
	return nil
}

func (cs *captureSink) got(id string) bool {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	for _, d := range cs.delivered {
		if d == id {
			return true
		}
	}
	return false
}

func TestPool(t *testing.T) {
	convey.Convey("Given a snapshot publisher pool", t, func() {
		_ = logging.Init()

		q := newMockQueue()
		archive := &captureSink{name: "archive"}
		cache := &captureSink{name: "cache"}

		convey.Convey("When delivering snapshots to multiple sinks", func() {
			pool := worker.NewPool(q, []worker.Sink{archive, cache}, worker.WithWorkerCount(2))
			pool.Start(context.Background())
			defer pool.Stop()

			q.add(model.Snapshot{ID: "snap-1"})
			q.add(model.Snapshot{ID: "snap-2"})

			time.Sleep(50 * time.Millisecond)

			convey.Convey("Then every sink receives every snapshot", func() {
				convey.So(archive.got("snap-1"), convey.ShouldBeTrue)
				convey.So(archive.got("snap-2"), convey.ShouldBeTrue)
				convey.So(cache.got("snap-1"), convey.ShouldBeTrue)
				convey.So(cache.got("snap-2"), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When one sink keeps failing", func() {
			broken := &captureSink{name: "broken", fail: errors.New("unreachable")}
			pool := worker.NewPool(q, []worker.Sink{broken, archive})
			pool.Start(context.Background())
			defer pool.Stop()

			q.add(model.Snapshot{ID: "snap-3"})

			time.Sleep(50 * time.Millisecond)

			convey.Convey("Then the healthy sink still receives the snapshot", func() {
				convey.So(archive.got("snap-3"), convey.ShouldBeTrue)
				convey.So(broken.got("snap-3"), convey.ShouldBeFalse)
			})
		})

		convey.Convey("When the pool is stopped", func() {
			pool := worker.NewPool(q, []worker.Sink{archive})
			pool.Start(context.Background())
			pool.Stop()

			convey.Convey("Then snapshots queued afterwards stay undelivered", func() {
				q.add(model.Snapshot{ID: "snap-4"})
				time.Sleep(50 * time.Millisecond)
				convey.So(archive.got("snap-4"), convey.ShouldBeFalse)
			})

			convey.Convey("And stopping again is a no-op", func() {
				pool.Stop()
				convey.So(true, convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the queue channel closes", func() {
			pool := worker.NewPool(q, []worker.Sink{archive})
			pool.Start(context.Background())
			defer pool.Stop()

			close(q.ch)
			time.Sleep(50 * time.Millisecond)

			convey.Convey("Then the workers drain and exit", func() {
				convey.So(archive.got("never-sent"), convey.ShouldBeFalse)
			})
		})
	})
}
