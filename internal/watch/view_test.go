package watch

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/uninest/roomwatch/internal/rooms"
)

type stubLoader struct {
	mu    sync.Mutex
	snap  []rooms.OrderSnapshot
	err   error
	calls int
}

func (s *stubLoader) LoadOrderSnapshot(ctx context.Context, vendorID string, roomIDs []int64) ([]rooms.OrderSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.snap, nil
}

func (s *stubLoader) set(snap []rooms.OrderSnapshot, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap, s.err = snap, err
}

func testRooms() []rooms.Room {
	return []rooms.Room{
		{ID: 1, Name: "A1", Price: 5000, SellerID: "vendor-1", Category: rooms.RoomCategory},
		{ID: 2, Name: "A2", Price: 5500, SellerID: "vendor-1", Category: rooms.RoomCategory},
	}
}

func pendingOn(roomID int64) []rooms.OrderSnapshot {
	return []rooms.OrderSnapshot{{
		ID:     10,
		Status: rooms.StatusPendingApproval,
		Items:  []rooms.SnapshotItem{{ProductID: roomID}},
	}}
}

func viewStatus(t *testing.T, v *View, roomID int64) rooms.RoomStatus {
	t.Helper()
	for _, rv := range v.Snapshot() {
		if rv.ID == roomID {
			return rv.Status
		}
	}
	t.Fatalf("room %d not in snapshot", roomID)
	return ""
}

func TestViewStartsAllAvailable(t *testing.T) {
	v := NewView(&stubLoader{}, "vendor-1", testRooms())
	assert.Equal(t, rooms.RoomAvailable, viewStatus(t, v, 1))
	assert.Equal(t, rooms.RoomAvailable, viewStatus(t, v, 2))
}

func TestViewRefreshSwapsState(t *testing.T) {
	loader := &stubLoader{snap: pendingOn(1)}
	v := NewView(loader, "vendor-1", testRooms())

	assert.NoError(t, v.Refresh(context.Background()))
	assert.Equal(t, rooms.RoomPending, viewStatus(t, v, 1))
	assert.Equal(t, rooms.RoomAvailable, viewStatus(t, v, 2))

	// the order went away; the next refresh resets the room
	loader.set(nil, nil)
	assert.NoError(t, v.Refresh(context.Background()))
	assert.Equal(t, rooms.RoomAvailable, viewStatus(t, v, 1))
}

func TestViewRefreshFailureKeepsPriorState(t *testing.T) {
	loader := &stubLoader{snap: pendingOn(1)}
	v := NewView(loader, "vendor-1", testRooms())
	assert.NoError(t, v.Refresh(context.Background()))

	loader.set(nil, errors.New("query failed"))
	err := v.Refresh(context.Background())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "refresh room views")

	// stale but valid
	assert.Equal(t, rooms.RoomPending, viewStatus(t, v, 1))
}

func TestViewDropsRefreshAfterClose(t *testing.T) {
	loader := &stubLoader{snap: pendingOn(1)}
	v := NewView(loader, "vendor-1", testRooms())
	assert.NoError(t, v.Refresh(context.Background()))

	v.Close()
	loader.set(pendingOn(2), nil)
	assert.NoError(t, v.Refresh(context.Background()))

	// the late result did not land
	assert.Equal(t, rooms.RoomPending, viewStatus(t, v, 1))
	assert.Equal(t, rooms.RoomAvailable, viewStatus(t, v, 2))
}

type fakeSubscriber struct {
	ch        chan struct{}
	closeOnce sync.Once
}

func newFakeSubscriber() *fakeSubscriber {
	return &fakeSubscriber{ch: make(chan struct{}, 8)}
}

func (f *fakeSubscriber) Changes() <-chan struct{} { return f.ch }

func (f *fakeSubscriber) Close() error {
	f.closeOnce.Do(func() { close(f.ch) })
	return nil
}

func waitForUpdate(t *testing.T, updates <-chan []rooms.RoomView) []rooms.RoomView {
	t.Helper()
	select {
	case vs := <-updates:
		return vs
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for watcher update")
		return nil
	}
}

func TestWatcherRefreshesOnTrigger(t *testing.T) {
	loader := &stubLoader{}
	v := NewView(loader, "vendor-1", testRooms())
	sub := newFakeSubscriber()

	updates := make(chan []rooms.RoomView, 8)
	w := NewWatcher(v, sub, Hooks{
		OnUpdate: func(vs []rooms.RoomView) { updates <- vs },
	})
	w.Start(context.Background())

	loader.set(pendingOn(1), nil)
	sub.ch <- struct{}{}

	vs := waitForUpdate(t, updates)
	got := map[int64]rooms.RoomStatus{}
	for _, rv := range vs {
		got[rv.ID] = rv.Status
	}
	assert.Equal(t, map[int64]rooms.RoomStatus{1: rooms.RoomPending, 2: rooms.RoomAvailable}, got)

	w.Close()
}

func TestWatcherReportsRefreshErrors(t *testing.T) {
	loader := &stubLoader{snap: pendingOn(1)}
	v := NewView(loader, "vendor-1", testRooms())
	assert.NoError(t, v.Refresh(context.Background()))

	sub := newFakeSubscriber()
	errs := make(chan error, 8)
	w := NewWatcher(v, sub, Hooks{
		OnError: func(err error) { errs <- err },
	})
	w.Start(context.Background())

	loader.set(nil, errors.New("transport down"))
	sub.ch <- struct{}{}

	select {
	case err := <-errs:
		assert.Contains(t, err.Error(), "transport down")
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for watcher error")
	}

	// view kept its last good state
	assert.Equal(t, rooms.RoomPending, viewStatus(t, v, 1))
	w.Close()
}

func TestWatcherCloseReleasesSubscription(t *testing.T) {
	loader := &stubLoader{}
	v := NewView(loader, "vendor-1", testRooms())
	sub := newFakeSubscriber()
	w := NewWatcher(v, sub, Hooks{})
	w.Start(context.Background())

	done := make(chan struct{})
	go func() {
		w.Close()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Close did not return")
	}

	// the view is frozen; stray refresh results are dropped
	loader.set(pendingOn(1), nil)
	assert.NoError(t, v.Refresh(context.Background()))
	assert.Equal(t, rooms.RoomAvailable, viewStatus(t, v, 1))
}
