package rxstream

// Merge combines sources into a single stream.
//
// With exactly one source, that source is returned unchanged.
// Otherwise the result subscribes the same downstream observer
// to every source, in order,
// so events from any source reach the observer directly and unlabeled.
// Unsubscribing the result unsubscribes every source, in order.
func Merge[T any](sources ...Subscribable[T]) Subscribable[T] {
	if len(sources) == 1 {
		return sources[0]
	}

	return New(func(obs Observer[T]) Unsubscriber {
		subs := make([]Unsubscriber, 0, len(sources))
		for _, src := range sources {
			subs = append(subs, src.Subscribe(obs))
		}

		return NewSubscription(func() {
			for _, sub := range subs {
				if sub != nil {
					sub.Unsubscribe()
				}
			}
		})
	})
}
