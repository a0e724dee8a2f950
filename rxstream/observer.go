package rxstream

// Observer is the canonical set of callbacks receiving a stream's events.
//
// Any of the fields may be nil, in which case the corresponding event
// is ignored.
// Streams in this package normalize observers before storing them,
// so internal code never has to check for nil callbacks.
type Observer[T any] struct {
	Next     func(T)
	Error    func(error)
	Complete func()
}

// NewObserver builds an Observer from separate callbacks.
// This is the positional equivalent of an Observer struct literal.
func NewObserver[T any](next func(T), err func(error), complete func()) Observer[T] {
	return Observer[T]{
		Next:     next,
		Error:    err,
		Complete: complete,
	}
}

// normalized returns a copy of o with every nil callback
// replaced by a no-op.
func (o Observer[T]) normalized() Observer[T] {
	if o.Next == nil {
		o.Next = func(T) {}
	}
	if o.Error == nil {
		o.Error = func(error) {}
	}
	if o.Complete == nil {
		o.Complete = func() {}
	}
	return o
}
