package rxstream

import (
	"errors"
	"reflect"
)

// Subscribable is the capability every stream exposes.
// It is the only thing the rest of this module requires of a stream,
// so any type with a matching Subscribe method interoperates.
type Subscribable[T any] interface {
	Subscribe(Observer[T]) Unsubscriber
}

// Observable is a cold stream.
// Every call to [*Observable.Subscribe] runs the subscribe function again,
// with its own independent [Unsubscriber].
//
// An Observable is immutable after construction.
type Observable[T any] struct {
	subscribe func(Observer[T]) Unsubscriber
}

// New returns an Observable backed by the given subscribe function.
//
// The subscribe function receives a normalized observer,
// so it may call any of its callbacks without nil checks.
// It may return nil if there is nothing to release.
//
// New panics if subscribe is nil.
func New[T any](subscribe func(Observer[T]) Unsubscriber) *Observable[T] {
	if subscribe == nil {
		panic(errors.New("BUG: rxstream.New requires a non-nil subscribe function"))
	}

	return &Observable[T]{subscribe: subscribe}
}

// Subscribe synchronously runs o's subscribe function with obs
// and returns the resulting handle.
// The returned handle is never nil.
func (o *Observable[T]) Subscribe(obs Observer[T]) Unsubscriber {
	if o == nil || o.subscribe == nil {
		panic(errors.New("BUG: Subscribe called on an Observable not created with rxstream.New"))
	}

	u := o.subscribe(obs.normalized())
	if u == nil {
		return NewSubscription(nil)
	}
	return u
}

// SubscribeFunc is shorthand for subscribing with separate callbacks.
// Any of the callbacks may be nil.
func (o *Observable[T]) SubscribeFunc(next func(T), err func(error), complete func()) Unsubscriber {
	return o.Subscribe(NewObserver(next, err, complete))
}

// AsObservable returns o.
// Streams exposing AsObservable are recognized by [From]
// and are not wrapped a second time.
func (o *Observable[T]) AsObservable() *Observable[T] {
	return o
}

// From returns an Observable for any Subscribable.
// If s already exposes AsObservable, that value is returned directly;
// otherwise s is wrapped.
func From[T any](s Subscribable[T]) *Observable[T] {
	if a, ok := s.(interface{ AsObservable() *Observable[T] }); ok {
		return a.AsObservable()
	}

	return New(s.Subscribe)
}

// IsSubscribable reports whether v is a non-nil value
// exposing the Subscribable capability for element type T.
func IsSubscribable[T any](v any) bool {
	_, err := Lookup[T](v)
	return err == nil
}

// Lookup performs the structural capability check on v.
// It returns a [NotSubscribableError] if v is nil,
// a typed nil, or lacks a Subscribe method for element type T.
func Lookup[T any](v any) (Subscribable[T], error) {
	if isNil(v) {
		return nil, NotSubscribableError{Value: v}
	}

	s, ok := v.(Subscribable[T])
	if !ok {
		return nil, NotSubscribableError{Value: v}
	}

	return s, nil
}

func isNil(v any) bool {
	if v == nil {
		return true
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return rv.IsNil()
	default:
		return false
	}
}
