package watch

import (
	"context"
	"fmt"
	"sync"

	"github.com/uninest/roomwatch/internal/rooms"
)

// Loader pulls the current order snapshot for a vendor's rooms. Satisfied by
// *rooms.Repo.
type Loader interface {
	LoadOrderSnapshot(ctx context.Context, vendorID string, roomIDs []int64) ([]rooms.OrderSnapshot, error)
}

// View owns the derived room-view state for one hostel. All updates funnel
// through Refresh: load a full snapshot, reduce, swap. There is no
// incremental merge path.
type View struct {
	loader   Loader
	vendorID string
	roomList []rooms.Room
	roomIDs  []int64

	mu     sync.Mutex
	views  []rooms.RoomView
	closed bool
}

func NewView(loader Loader, vendorID string, rs []rooms.Room) *View {
	return &View{
		loader:   loader,
		vendorID: vendorID,
		roomList: rs,
		roomIDs:  rooms.RoomIDs(rs),
		// every room reads available until the first refresh lands
		views: rooms.Reduce(rs, nil),
	}
}

// Refresh reconciles the views from a fresh snapshot. On load failure the
// previous views stay in place and the error is returned. A refresh that
// resolves after Close is dropped.
func (v *View) Refresh(ctx context.Context) error {
	snap, err := v.loader.LoadOrderSnapshot(ctx, v.vendorID, v.roomIDs)
	if err != nil {
		return fmt.Errorf("refresh room views: %w", err)
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return nil
	}
	v.views = rooms.Reduce(v.roomList, snap)
	return nil
}

// Snapshot returns a copy of the current room views.
func (v *View) Snapshot() []rooms.RoomView {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]rooms.RoomView, len(v.views))
	copy(out, v.views)
	return out
}

// Close freezes the view; late-resolving refreshes no longer write.
func (v *View) Close() {
	v.mu.Lock()
	v.closed = true
	v.mu.Unlock()
}
