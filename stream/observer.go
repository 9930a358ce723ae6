package stream

// Disposable is the cancellation handle an observer receives through
// OnSubscribe. Dispose may be called from any goroutine, any number of times.
type Disposable interface {
	Dispose()
	IsDisposed() bool
}

// Observer consumes the signals of one subscription: OnSubscribe exactly once,
// then any number of OnNext, then at most one of OnError or OnComplete.
type Observer[T any] interface {
	OnSubscribe(d Disposable)
	OnNext(v T)
	OnError(err error)
	OnComplete()
}

// ObserverFuncs adapts plain functions to Observer. Nil fields are ignored.
type ObserverFuncs[T any] struct {
	Subscribe func(d Disposable)
	Next      func(v T)
	Error     func(err error)
	Complete  func()
}

var _ Observer[int] = ObserverFuncs[int]{}

func (f ObserverFuncs[T]) OnSubscribe(d Disposable) {
	if f.Subscribe != nil {
		f.Subscribe(d)
	}
}

func (f ObserverFuncs[T]) OnNext(v T) {
	if f.Next != nil {
		f.Next(v)
	}
}

func (f ObserverFuncs[T]) OnError(err error) {
	if f.Error != nil {
		f.Error(err)
	}
}

func (f ObserverFuncs[T]) OnComplete() {
	if f.Complete != nil {
		f.Complete()
	}
}
