package rxpubsub

import (
	"context"

	"github.com/gordian-engine/rxepic/rxstream"
)

// FromChannel returns an Observable that emits every value received on ch.
//
// Each subscription starts a goroutine reading from ch,
// so observers are called from that goroutine.
// The observer completes when ch is closed.
// The goroutine stops without notifying the observer
// when ctx is canceled or the subscription is released.
//
// Multiple subscriptions compete for values on the same channel.
func FromChannel[T any](ctx context.Context, ch <-chan T) *rxstream.Observable[T] {
	return rxstream.New(func(obs rxstream.Observer[T]) rxstream.Unsubscriber {
		stop := make(chan struct{})

		go runChannel(ctx, ch, stop, obs)

		return rxstream.NewSubscription(func() {
			close(stop)
		})
	})
}

func runChannel[T any](
	ctx context.Context,
	ch <-chan T,
	stop <-chan struct{},
	obs rxstream.Observer[T],
) {
	for {
		select {
		case <-ctx.Done():
			return

		case <-stop:
			return

		case v, ok := <-ch:
			// Prefer stopping over delivering,
			// if more than one case became ready together.
			select {
			case <-stop:
				return
			case <-ctx.Done():
				return
			default:
			}

			if !ok {
				obs.Complete()
				return
			}

			obs.Next(v)
		}
	}
}
