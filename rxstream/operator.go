package rxstream

import "fmt"

// Operator derives one stream from another.
type Operator[In, Out any] func(Subscribable[In]) Subscribable[Out]

// Pipe applies ops to src, in order.
func Pipe[T any](src Subscribable[T], ops ...Operator[T, T]) Subscribable[T] {
	for _, op := range ops {
		src = op(src)
	}
	return src
}

// Of returns a cold Observable that emits each of values in order
// and then completes, synchronously within Subscribe.
func Of[T any](values ...T) *Observable[T] {
	return New(func(obs Observer[T]) Unsubscriber {
		for _, v := range values {
			obs.Next(v)
		}
		obs.Complete()
		return nil
	})
}

// Filter returns an Operator forwarding only the values
// for which pred reports true.
//
// If pred returns an error, or panics,
// the failure is delivered to the downstream observer's Error callback
// instead of propagating out of the emitting call.
func Filter[T any](pred func(T) (bool, error)) Operator[T, T] {
	return func(src Subscribable[T]) Subscribable[T] {
		return New(func(obs Observer[T]) Unsubscriber {
			return src.Subscribe(Observer[T]{
				Next: func(v T) {
					ok, err := evalPredicate(pred, v)
					if err != nil {
						obs.Error(err)
						return
					}
					if ok {
						obs.Next(v)
					}
				},
				Error:    obs.Error,
				Complete: obs.Complete,
			})
		})
	}
}

func evalPredicate[T any](pred func(T) (bool, error), v T) (ok bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, isErr := r.(error); isErr {
				err = fmt.Errorf("filter predicate panicked: %w", e)
			} else {
				err = fmt.Errorf("filter predicate panicked: %v", r)
			}
		}
	}()

	return pred(v)
}

// Map returns an Operator that transforms every value with fn.
func Map[In, Out any](fn func(In) Out) Operator[In, Out] {
	return func(src Subscribable[In]) Subscribable[Out] {
		return New(func(obs Observer[Out]) Unsubscriber {
			return src.Subscribe(Observer[In]{
				Next: func(v In) {
					obs.Next(fn(v))
				},
				Error:    obs.Error,
				Complete: obs.Complete,
			})
		})
	}
}
