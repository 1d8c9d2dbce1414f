package rooms

import (
	"encoding/json"
	"time"
)

const (
	EventBookingRequested = "BookingRequested"
	EventOrderApproved    = "OrderApproved"
	EventOrderRejected    = "OrderRejected"
	EventOrderCompleted   = "OrderCompleted"
)

type Envelope struct {
	EventID       string          `json:"event_id"`      // uuid
	EventType     string          `json:"event_type"`    // one of the consts above
	EventVersion  int             `json:"event_version"` // 1
	OccurredAt    time.Time       `json:"occurred_at"`   // RFC3339
	Producer      string          `json:"producer"`      // e.g., "room-api"
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"` // usually order_id
	Payload       json.RawMessage `json:"payload"`
}

// OrderChangedPayload is shared by every order lifecycle event; the event
// type says what happened, the payload says to whom.
type OrderChangedPayload struct {
	OrderID   int64  `json:"order_id"`
	VendorID  string `json:"vendor_id"`
	BuyerID   string `json:"buyer_id,omitempty"`
	ProductID int64  `json:"product_id,omitempty"`
	Status    Status `json:"status"`
}
