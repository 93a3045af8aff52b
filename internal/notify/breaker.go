package notify

import (
	"context"
	"time"

	"github.com/golang/glog"
	"github.com/sony/gobreaker"
)

// BreakerOpts configures a Breaker.
type BreakerOpts struct {
	Name string
	// MaxFailures is the number of consecutive failures that opens the
	// breaker.
	MaxFailures uint32
	// Timeout is how long the breaker stays open before a trial send.
	Timeout time.Duration
}

// Breaker stops calling a failing sink until it recovers.
type Breaker struct {
	sink Sink
	cb   *gobreaker.CircuitBreaker
}

// NewBreaker wraps sink.
func NewBreaker(sink Sink, opts BreakerOpts) *Breaker {
	limit := opts.MaxFailures
	if limit == 0 {
		limit = 5
	}
	settings := gobreaker.Settings{
		Name:    opts.Name,
		Timeout: opts.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= limit
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			glog.Warningf("notify: breaker %s %s -> %s", name, from, to)
		},
	}
	return &Breaker{sink: sink, cb: gobreaker.NewCircuitBreaker(settings)}
}

// Send forwards rec unless the breaker is open, in which case it returns
// gobreaker.ErrOpenState.
func (b *Breaker) Send(ctx context.Context, rec Record) error {
	_, err := b.cb.Execute(func() (interface{}, error) {
		return nil, b.sink.Send(ctx, rec)
	})
	return err
}

// State reports the breaker state.
func (b *Breaker) State() gobreaker.State {
	return b.cb.State()
}
