package rooms

// Reduce derives the visible status of every room from an order snapshot.
// An approved order marks its room booked; once booked the room is never
// downgraded by a pending_approval order later in the same pass. Rooms with
// no live order default to available, so reducing against an empty snapshot
// resets everything. Orders pointing at rooms missing from rs (stale or
// deleted listings) are ignored.
func Reduce(rs []Room, orders []OrderSnapshot) []RoomView {
	byRoom := make(map[int64]RoomStatus, len(orders))
	for _, o := range orders {
		for _, it := range o.Items {
			if byRoom[it.ProductID] == RoomBooked {
				continue
			}
			switch o.Status {
			case StatusApproved:
				byRoom[it.ProductID] = RoomBooked
			case StatusPendingApproval:
				byRoom[it.ProductID] = RoomPending
			}
		}
	}

	out := make([]RoomView, 0, len(rs))
	for _, r := range rs {
		st, ok := byRoom[r.ID]
		if !ok {
			st = RoomAvailable
		}
		out = append(out, RoomView{Room: r, Status: st})
	}
	return out
}

// RoomIDs collects the ids of rs in listing order.
func RoomIDs(rs []Room) []int64 {
	ids := make([]int64, 0, len(rs))
	for _, r := range rs {
		ids = append(ids, r.ID)
	}
	return ids
}
