package watch

import (
	"context"

	"github.com/uninest/roomwatch/internal/rooms"
)

type Hooks struct {
	// OnUpdate receives the room views after each successful refresh.
	OnUpdate func([]rooms.RoomView)
	// OnError receives refresh failures; the previous views are retained.
	OnError func(error)
}

// Watcher ties a Subscriber to a View: every change notification triggers a
// full refresh through the view's single update path. Refreshes run one at a
// time on the watcher goroutine, so a fast burst of notifications collapses
// into at most one queued refresh and responses cannot land out of order.
type Watcher struct {
	view  *View
	sub   Subscriber
	hooks Hooks
	done  chan struct{}
}

func NewWatcher(view *View, sub Subscriber, hooks Hooks) *Watcher {
	return &Watcher{view: view, sub: sub, hooks: hooks, done: make(chan struct{})}
}

func (w *Watcher) Start(ctx context.Context) {
	go func() {
		defer close(w.done)
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-w.sub.Changes():
				if !ok {
					return
				}
				if err := w.view.Refresh(ctx); err != nil {
					if w.hooks.OnError != nil {
						w.hooks.OnError(err)
					}
					continue
				}
				if w.hooks.OnUpdate != nil {
					w.hooks.OnUpdate(w.view.Snapshot())
				}
			}
		}
	}()
}

// Close releases the subscription, waits for the loop to exit and freezes the
// view. Safe to call when the Start context is already cancelled.
func (w *Watcher) Close() {
	_ = w.sub.Close()
	<-w.done
	w.view.Close()
}
