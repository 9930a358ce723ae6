package stream

// Source is a cold producer. Every call to Subscribe starts an independent
// run with its own state, delivered to exactly one observer.
type Source[T any] interface {
	// Subscribe wires o to a fresh subscription. Implementations call
	// o.OnSubscribe before any other signal.
	Subscribe(o Observer[T])
}

// SourceFunc lets an ordinary function act as a Source.
type SourceFunc[T any] func(o Observer[T])

// Subscribe calls f(o).
func (f SourceFunc[T]) Subscribe(o Observer[T]) {
	f(o)
}
