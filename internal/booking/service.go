package booking

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/uninest/roomwatch/internal/rooms"
)

var ErrRoomUnavailable = errors.New("room is not available")

// Store is the slice of the orders repo the booking writer needs.
type Store interface {
	InsertOrder(ctx context.Context, buyerID, vendorID string, totalAmount int, status rooms.Status) (int64, error)
	InsertOrderItem(ctx context.Context, orderID, productID int64, quantity, price int) error
	DeleteOrder(ctx context.Context, orderID int64) error
}

type Service struct {
	Store Store
}

// Request writes a reservation request as an order + order-item pair. The two
// inserts are not atomic: if the item insert fails, the order row is deleted
// again (compensating action) so a half-written order never surfaces as a
// phantom pending room. The compensating delete is best-effort; if it fails
// too, the row is orphaned and only the original write error is returned.
//
// The availability check is read-then-write: two concurrent requests for the
// same room can both pass it, leaving the vendor to reject the duplicate at
// approval time.
func (s *Service) Request(ctx context.Context, buyerID string, room rooms.RoomView, vendorID string) (int64, error) {
	if room.Status != rooms.RoomAvailable {
		return 0, fmt.Errorf("%w: room %d is %s", ErrRoomUnavailable, room.ID, room.Status)
	}

	orderID, err := s.Store.InsertOrder(ctx, buyerID, vendorID, room.Price, rooms.StatusPendingApproval)
	if err != nil {
		return 0, fmt.Errorf("create reservation request: %w", err)
	}

	if err := s.Store.InsertOrderItem(ctx, orderID, room.ID, 1, room.Price); err != nil {
		if delErr := s.Store.DeleteOrder(ctx, orderID); delErr != nil {
			log.Printf("booking: compensating delete of order %d failed: %v", orderID, delErr)
		}
		return 0, fmt.Errorf("complete reservation details: %w", err)
	}
	return orderID, nil
}
