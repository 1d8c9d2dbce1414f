package watch

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/uninest/roomwatch/internal/redisx"
)

// Subscriber delivers change notifications for one vendor's orders. The
// messages carry no payload; each one only says "something changed, re-pull".
type Subscriber interface {
	// Changes is closed after Close.
	Changes() <-chan struct{}
	Close() error
}

type redisSubscriber struct {
	ps  *redis.PubSub
	out chan struct{}
}

// SubscribeVendor listens on the vendor's realtime channel. Reconnection
// after a transport drop is go-redis's job, not ours.
func SubscribeVendor(ctx context.Context, rdb *redis.Client, vendorID string) Subscriber {
	ps := rdb.Subscribe(ctx, fmt.Sprintf(redisx.KeyVendorChannel, vendorID))
	s := &redisSubscriber{ps: ps, out: make(chan struct{}, 1)}
	go s.pump()
	return s
}

// pump collapses the pubsub stream into bare triggers. A trigger already
// pending is enough; extra notifications coalesce into it.
func (s *redisSubscriber) pump() {
	for range s.ps.Channel() {
		select {
		case s.out <- struct{}{}:
		default:
		}
	}
	close(s.out)
}

func (s *redisSubscriber) Changes() <-chan struct{} { return s.out }

func (s *redisSubscriber) Close() error { return s.ps.Close() }
