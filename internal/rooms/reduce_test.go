package rooms

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func room(id int64, name string, price int) Room {
	return Room{ID: id, Name: name, Price: price, SellerID: "vendor-1", Category: RoomCategory}
}

func order(id int64, status Status, productIDs ...int64) OrderSnapshot {
	o := OrderSnapshot{ID: id, Status: status}
	for _, pid := range productIDs {
		o.Items = append(o.Items, SnapshotItem{ProductID: pid})
	}
	return o
}

func statuses(views []RoomView) map[int64]RoomStatus {
	out := make(map[int64]RoomStatus, len(views))
	for _, v := range views {
		out[v.ID] = v.Status
	}
	return out
}

func TestReduce(t *testing.T) {
	tests := []struct {
		name   string
		rooms  []Room
		orders []OrderSnapshot
		want   map[int64]RoomStatus
	}{
		{
			name:  "no orders means every room available",
			rooms: []Room{room(1, "A1", 5000)},
			want:  map[int64]RoomStatus{1: RoomAvailable},
		},
		{
			name:   "pending approval marks room pending",
			rooms:  []Room{room(1, "A1", 5000)},
			orders: []OrderSnapshot{order(10, StatusPendingApproval, 1)},
			want:   map[int64]RoomStatus{1: RoomPending},
		},
		{
			name:   "approved marks room booked",
			rooms:  []Room{room(1, "A1", 5000)},
			orders: []OrderSnapshot{order(10, StatusApproved, 1)},
			want:   map[int64]RoomStatus{1: RoomBooked},
		},
		{
			name:  "approved wins over pending, approved first",
			rooms: []Room{room(1, "A1", 5000)},
			orders: []OrderSnapshot{
				order(10, StatusApproved, 1),
				order(11, StatusPendingApproval, 1),
			},
			want: map[int64]RoomStatus{1: RoomBooked},
		},
		{
			name:  "approved wins over pending, pending first",
			rooms: []Room{room(1, "A1", 5000)},
			orders: []OrderSnapshot{
				order(11, StatusPendingApproval, 1),
				order(10, StatusApproved, 1),
			},
			want: map[int64]RoomStatus{1: RoomBooked},
		},
		{
			name:  "multiple pendings stay pending",
			rooms: []Room{room(1, "A1", 5000)},
			orders: []OrderSnapshot{
				order(10, StatusPendingApproval, 1),
				order(11, StatusPendingApproval, 1),
			},
			want: map[int64]RoomStatus{1: RoomPending},
		},
		{
			name:  "orders for unknown rooms are ignored",
			rooms: []Room{room(1, "A1", 5000)},
			orders: []OrderSnapshot{
				order(10, StatusApproved, 99),
				order(11, StatusPendingApproval, 42),
			},
			want: map[int64]RoomStatus{1: RoomAvailable},
		},
		{
			name:  "rooms keep independent statuses",
			rooms: []Room{room(1, "A1", 5000), room(2, "A2", 5500), room(3, "B1", 6000)},
			orders: []OrderSnapshot{
				order(10, StatusApproved, 1),
				order(11, StatusPendingApproval, 2),
			},
			want: map[int64]RoomStatus{1: RoomBooked, 2: RoomPending, 3: RoomAvailable},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Reduce(tt.rooms, tt.orders)
			assert.Len(t, got, len(tt.rooms))
			assert.Equal(t, tt.want, statuses(got))
		})
	}
}

func TestReduceDeterministic(t *testing.T) {
	rs := []Room{room(1, "A1", 5000), room(2, "A2", 5500)}
	orders := []OrderSnapshot{
		order(10, StatusApproved, 1),
		order(11, StatusPendingApproval, 1),
		order(12, StatusPendingApproval, 2),
	}

	first := Reduce(rs, orders)
	second := Reduce(rs, orders)
	assert.Equal(t, first, second)
}

func TestReduceEmptySnapshotResets(t *testing.T) {
	rs := []Room{room(1, "A1", 5000), room(2, "A2", 5500)}

	busy := Reduce(rs, []OrderSnapshot{order(10, StatusApproved, 1), order(11, StatusPendingApproval, 2)})
	assert.Equal(t, map[int64]RoomStatus{1: RoomBooked, 2: RoomPending}, statuses(busy))

	// re-running against an empty order set puts everything back
	reset := Reduce(rs, nil)
	assert.Equal(t, map[int64]RoomStatus{1: RoomAvailable, 2: RoomAvailable}, statuses(reset))
}

func TestReducePreservesRoomFields(t *testing.T) {
	rs := []Room{room(1, "A1", 5000)}
	got := Reduce(rs, nil)

	assert.Equal(t, "A1", got[0].Name)
	assert.Equal(t, 5000, got[0].Price)
	assert.Equal(t, "vendor-1", got[0].SellerID)
	assert.Equal(t, RoomAvailable, got[0].Status)
}
