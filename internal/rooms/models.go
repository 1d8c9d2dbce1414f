package rooms

import "time"

// RoomCategory is the product category that marks a listing as a bookable
// hostel room.
const RoomCategory = "Hostel Room"

type Room struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Price     int       `json:"price"`
	SellerID  string    `json:"seller_id"`
	Category  string    `json:"category"`
	CreatedAt time.Time `json:"created_at"`
}

type Order struct {
	ID          int64     `json:"id"`
	BuyerID     string    `json:"buyer_id"`
	VendorID    string    `json:"vendor_id"`
	TotalAmount int       `json:"total_amount"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type OrderItem struct {
	ID        int64 `json:"id"`
	OrderID   int64 `json:"order_id"`
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
	Price     int   `json:"price"`
}

// OrderSnapshot is the lightweight order shape the availability reducer works
// on: just the status and the rooms the order touches.
type OrderSnapshot struct {
	ID     int64          `json:"id"`
	Status Status         `json:"status"`
	Items  []SnapshotItem `json:"order_items"`
}

type SnapshotItem struct {
	ProductID int64 `json:"product_id"`
}

type RoomStatus string

const (
	RoomAvailable RoomStatus = "available"
	RoomPending   RoomStatus = "pending"
	RoomBooked    RoomStatus = "booked"
)

// RoomView is a Room plus its derived booking status. It is a read-side
// projection, never persisted.
type RoomView struct {
	Room
	Status RoomStatus `json:"status"`
}
