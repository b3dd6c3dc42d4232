package queue_test

import (
	"context"
	"testing"
	"time"

	"github.com/okian/breakside/internal/adapters/mq/queue"
	. "github.com/smartystreets/goconvey/convey"
)

func TestInMemoryQueue(t *testing.T) {
	Convey("Given an in-memory snapshot queue", t, func() {
		ctx := context.Background()

		Convey("When enqueueing within capacity", func() {
			q := queue.NewInMemoryQueue(queue.WithCapacity(2))
			defer func() { _ = q.Close() }()

			ok1 := q.Enqueue(ctx, queue.Snapshot{ID: "s1"})
			ok2 := q.Enqueue(ctx, queue.Snapshot{ID: "s2"})

			Convey("Then both snapshots are accepted", func() {
				So(ok1, ShouldBeTrue)
				So(ok2, ShouldBeTrue)
				So(q.Len(ctx), ShouldEqual, 2)
			})

			Convey("And a third is dropped without blocking", func() {
				So(q.Enqueue(ctx, queue.Snapshot{ID: "s3"}), ShouldBeFalse)
				So(q.Len(ctx), ShouldEqual, 2)
			})
		})

		Convey("When dequeueing", func() {
			q := queue.NewInMemoryQueue(queue.WithCapacity(4))
			So(q.Enqueue(ctx, queue.Snapshot{ID: "s1"}), ShouldBeTrue)

			ch := q.Dequeue(ctx)

			Convey("Then snapshots arrive in order", func() {
				select {
				case s := <-ch:
					So(s.ID, ShouldEqual, "s1")
				case <-time.After(time.Second):
					So("timeout", ShouldBeEmpty)
				}
			})

			Convey("And the channel closes when the queue closes", func() {
				select {
				case <-ch: // drain s1
				case <-time.After(time.Second):
					So("timeout", ShouldBeEmpty)
				}
				So(q.Close(), ShouldBeNil)
				select {
				case _, open := <-ch:
					So(open, ShouldBeFalse)
				case <-time.After(time.Second):
					So("timeout", ShouldBeEmpty)
				}
			})
		})

		Convey("When the queue is closed", func() {
			q := queue.NewInMemoryQueue()
			So(q.Close(), ShouldBeNil)

			Convey("Then enqueue refuses new snapshots", func() {
				So(q.IsClosed(), ShouldBeTrue)
				So(q.Enqueue(ctx, queue.Snapshot{ID: "late"}), ShouldBeFalse)
			})

			Convey("And closing again is a no-op", func() {
				So(q.Close(), ShouldBeNil)
			})
		})
	})
}
