package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"

	kafkax "github.com/uninest/roomwatch/internal/kafka"
	"github.com/uninest/roomwatch/internal/redisx"
	"github.com/uninest/roomwatch/internal/rooms"
)

// Service bridges the durable order-change log to the realtime layer: each
// event becomes a bare ping on the owning vendor's pub/sub channel.
// Subscribers re-pull the full snapshot themselves; the ping carries no delta.
type Service struct {
	Redis       *redis.Client
	ServiceName string
}

// HandleOrderChanged is mounted as the consumer handler.
func (s *Service) HandleOrderChanged(ctx context.Context, m kafkago.Message) error {
	var env rooms.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		return err
	}
	switch env.EventType {
	case rooms.EventBookingRequested, rooms.EventOrderApproved,
		rooms.EventOrderRejected, rooms.EventOrderCompleted:
	default:
		return nil // ignore
	}

	// dedup on event_id: redelivery must not double-ping
	dkey := fmt.Sprintf(redisx.KeyDedup, s.ServiceName, env.EventID)
	exists, _ := redisx.Exists(ctx, s.Redis, dkey)
	if exists {
		return nil
	}
	_ = s.Redis.Set(ctx, dkey, "1", redisx.TTLDedup).Err()

	p, err := kafkax.UnwrapPayload[rooms.OrderChangedPayload](env.Payload)
	if err != nil {
		return err
	}
	if p.VendorID == "" {
		return nil
	}

	channel := fmt.Sprintf(redisx.KeyVendorChannel, p.VendorID)
	return s.Redis.Publish(ctx, channel, env.EventType).Err()
}
