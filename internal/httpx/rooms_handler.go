package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/uninest/roomwatch/internal/booking"
	kafkax "github.com/uninest/roomwatch/internal/kafka"
	"github.com/uninest/roomwatch/internal/redisx"
	"github.com/uninest/roomwatch/internal/rooms"
	"github.com/uninest/roomwatch/internal/watch"
)

type RoomsHandler struct {
	Repo     *rooms.Repo
	Booking  *booking.Service
	Producer *kafkax.Producer
	Redis    *redis.Client
	Service  string
}

type CreateBookingReq struct {
	BuyerID  string `json:"buyer_id"`
	VendorID string `json:"vendor_id"`
	RoomID   int64  `json:"room_id"`
}

type OrderResp struct {
	OrderID int64        `json:"order_id"`
	Status  rooms.Status `json:"status"`
}

func (h *RoomsHandler) Register(r *chi.Mux) {
	r.Get("/hostels/{sellerID}/rooms", h.listRooms)
	r.Get("/hostels/{sellerID}/rooms/stream", h.streamRooms)
	r.Post("/bookings", h.createBooking)
	r.Post("/orders/{id}/approve", h.transition(rooms.StatusApproved, rooms.EventOrderApproved))
	r.Post("/orders/{id}/reject", h.transition(rooms.StatusRejected, rooms.EventOrderRejected))
	r.Post("/orders/{id}/complete", h.transition(rooms.StatusCompleted, rooms.EventOrderCompleted))
	r.Get("/vendors/{id}/summary", h.vendorSummary)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// roomViews computes a fresh projection: inventory + live orders -> statuses.
func (h *RoomsHandler) roomViews(ctx context.Context, sellerID string) ([]rooms.RoomView, error) {
	rs, err := h.Repo.ListRooms(ctx, sellerID)
	if err != nil {
		return nil, err
	}
	snap, err := h.Repo.LoadOrderSnapshot(ctx, sellerID, rooms.RoomIDs(rs))
	if err != nil {
		return nil, err
	}
	return rooms.Reduce(rs, snap), nil
}

func (h *RoomsHandler) listRooms(w http.ResponseWriter, r *http.Request) {
	sellerID := chi.URLParam(r, "sellerID")
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	// cache first; mutations delete the key, TTL covers the rest
	key := fmt.Sprintf(redisx.KeyRoomViews, sellerID)
	if s, err := h.Redis.Get(ctx, key).Result(); err == nil && s != "" {
		writeJSON(w, http.StatusOK, json.RawMessage(s))
		return
	}

	views, err := h.roomViews(ctx, sellerID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	b, _ := json.Marshal(views)
	_ = h.Redis.Set(ctx, key, b, redisx.TTLRoomViews).Err()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}

func (h *RoomsHandler) createBooking(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if req.BuyerID == "" || req.VendorID == "" || req.RoomID == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing fields"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	views, err := h.roomViews(ctx, req.VendorID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	var target *rooms.RoomView
	for i := range views {
		if views[i].ID == req.RoomID {
			target = &views[i]
			break
		}
	}
	if target == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "room not found"})
		return
	}

	orderID, err := h.Booking.Request(ctx, req.BuyerID, *target, req.VendorID)
	if errors.Is(err, booking.ErrRoomUnavailable) {
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	_ = h.Redis.Del(ctx, fmt.Sprintf(redisx.KeyRoomViews, req.VendorID)).Err()
	h.publishOrderChanged(r, rooms.EventBookingRequested, rooms.OrderChangedPayload{
		OrderID:   orderID,
		VendorID:  req.VendorID,
		BuyerID:   req.BuyerID,
		ProductID: req.RoomID,
		Status:    rooms.StatusPendingApproval,
	})

	writeJSON(w, http.StatusAccepted, OrderResp{OrderID: orderID, Status: rooms.StatusPendingApproval})
}

// transition builds the handler for one vendor action (approve/reject/complete).
func (h *RoomsHandler) transition(to rooms.Status, eventType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order id"})
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		o, productID, err := h.Repo.UpdateOrderStatus(ctx, orderID, to)
		switch {
		case errors.Is(err, rooms.ErrInvalidTransition):
			writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
			return
		case errors.Is(err, pgx.ErrNoRows):
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "order not found"})
			return
		case err != nil:
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}

		_ = h.Redis.Del(ctx, fmt.Sprintf(redisx.KeyRoomViews, o.VendorID)).Err()
		h.publishOrderChanged(r, eventType, rooms.OrderChangedPayload{
			OrderID:   o.ID,
			VendorID:  o.VendorID,
			BuyerID:   o.BuyerID,
			ProductID: productID,
			Status:    o.Status,
		})

		writeJSON(w, http.StatusOK, OrderResp{OrderID: o.ID, Status: o.Status})
	}
}

func (h *RoomsHandler) vendorSummary(w http.ResponseWriter, r *http.Request) {
	vendorID := chi.URLParam(r, "id")
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	s, err := h.Repo.VendorSummary(ctx, vendorID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, s)
}

// streamRooms pushes room-view snapshots over SSE. The client gets the
// current state immediately, then a full snapshot after every order change
// for this hostel. Subscription teardown rides the request context.
func (h *RoomsHandler) streamRooms(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "streaming unsupported"})
		return
	}
	sellerID := chi.URLParam(r, "sellerID")
	ctx := r.Context()

	rs, err := h.Repo.ListRooms(ctx, sellerID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	view := watch.NewView(h.Repo, sellerID, rs)
	if err := view.Refresh(ctx); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	ping := make(chan struct{}, 1)
	sub := watch.SubscribeVendor(ctx, h.Redis, sellerID)
	wt := watch.NewWatcher(view, sub, watch.Hooks{
		OnUpdate: func([]rooms.RoomView) {
			select {
			case ping <- struct{}{}:
			default:
			}
		},
		OnError: func(err error) {
			// previous snapshot stays on screen
			log.Printf("stream %s: %v", sellerID, err)
		},
	})
	wt.Start(ctx)
	defer wt.Close()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	send := func(vs []rooms.RoomView) {
		b, _ := json.Marshal(vs)
		_, _ = fmt.Fprintf(w, "data: %s\n\n", b)
		flusher.Flush()
	}
	send(view.Snapshot())

	for {
		select {
		case <-ctx.Done():
			return
		case <-ping:
			send(view.Snapshot())
		}
	}
}

func (h *RoomsHandler) publishOrderChanged(r *http.Request, eventType string, p rooms.OrderChangedPayload) {
	ev := rooms.Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      h.Service,
		TraceID:       r.Header.Get("X-Request-Id"),
		CorrelationID: strconv.FormatInt(p.OrderID, 10),
	}
	ev.Payload = kafkax.MustMarshal(p)
	h.Producer.Publish(rooms.PartitionKey(p.VendorID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(eventType)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}
