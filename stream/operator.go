package stream

// Operator is a stage placed between a source and a sink.
type Operator[T any] interface {
	// ID returns the unique identifier of the operator.
	ID() string
	// Apply returns a source that emits upstream's values transformed by the
	// operator. Apply does not subscribe; subscription happens when the
	// returned source is subscribed.
	Apply(upstream Source[T]) Source[T]
}
