package stream

// MapFunction maps a value to another value of the same type.
type MapFunction[T any] func(v T) T

// MapOperator applies a function to each value of the stream. When fusion is
// enabled it negotiates the pull protocol with its upstream and drains it with
// Poll instead of receiving pushed values.
type MapOperator[T any] struct {
	BaseOperator
	mapFn  MapFunction[T]
	fusion FusionMode
}

var _ Operator[int] = (*MapOperator[int])(nil)

// NewMapOperator creates a new MapOperator that consumes pushed values.
func NewMapOperator[T any](id string, mapFn MapFunction[T]) *MapOperator[T] {
	return &MapOperator[T]{
		BaseOperator: *NewBaseOperator(id),
		mapFn:        mapFn,
	}
}

// WithFusion sets the fusion modes requested from the upstream handle.
// FusionNone disables negotiation.
func (o *MapOperator[T]) WithFusion(mode FusionMode) *MapOperator[T] {
	o.fusion = mode
	return o
}

// Fusion returns the requested fusion modes.
func (o *MapOperator[T]) Fusion() FusionMode {
	return o.fusion
}

// Apply returns a source that maps upstream's values.
func (o *MapOperator[T]) Apply(upstream Source[T]) Source[T] {
	return SourceFunc[T](func(downstream Observer[T]) {
		upstream.Subscribe(&mapObserver[T]{
			op:         o,
			downstream: downstream,
		})
	})
}

// mapObserver is the per-subscription state of a MapOperator. It is also the
// handle given to its downstream.
type mapObserver[T any] struct {
	op         *MapOperator[T]
	downstream Observer[T]
	upstream   Disposable
	done       bool
}

func (m *mapObserver[T]) OnSubscribe(d Disposable) {
	m.upstream = d

	var queue QueueDisposable[T]
	if m.op.fusion != FusionNone {
		if q, ok := AsQueueDisposable[T](d); ok {
			granted := q.RequestFusion(m.op.fusion)
			m.op.logger.Debug().Stringer("requested", m.op.fusion).Stringer("granted", granted).Msg("fusion negotiated")
			if granted&FusionSync != 0 {
				queue = q
			}
		}
	}

	m.downstream.OnSubscribe(m)

	if queue != nil {
		m.drain(queue)
	}
}

// drain pulls from q until it is exhausted or disposed.
func (m *mapObserver[T]) drain(q QueueDisposable[T]) {
	for {
		if q.IsDisposed() {
			q.Clear()
			return
		}
		v, ok := q.Poll()
		if !ok {
			m.done = true
			m.downstream.OnComplete()
			return
		}
		m.downstream.OnNext(m.op.mapFn(v))
	}
}

func (m *mapObserver[T]) OnNext(v T) {
	if m.done {
		return
	}
	m.downstream.OnNext(m.op.mapFn(v))
}

func (m *mapObserver[T]) OnError(err error) {
	if m.done {
		return
	}
	m.done = true
	m.downstream.OnError(err)
}

func (m *mapObserver[T]) OnComplete() {
	if m.done {
		return
	}
	m.done = true
	m.downstream.OnComplete()
}

func (m *mapObserver[T]) Dispose() {
	m.upstream.Dispose()
}

func (m *mapObserver[T]) IsDisposed() bool {
	return m.upstream.IsDisposed()
}
