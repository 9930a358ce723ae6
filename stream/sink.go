package stream

import (
	"sync"

	"github.com/rs/zerolog"
	"github.com/tarungka/rxwire/internal/logger"
)

// CollectSink records every signal it receives. It is safe to read from other
// goroutines while the subscription is running.
type CollectSink[T any] struct {
	mu         sync.Mutex
	disposable Disposable
	values     []T
	completed  int
	err        error
	done       chan struct{}
	closeOnce  sync.Once
}

var _ Observer[int] = (*CollectSink[int])(nil)

// NewCollectSink creates a new CollectSink.
func NewCollectSink[T any]() *CollectSink[T] {
	return &CollectSink[T]{done: make(chan struct{})}
}

func (s *CollectSink[T]) OnSubscribe(d Disposable) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.disposable = d
}

func (s *CollectSink[T]) OnNext(v T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values = append(s.values, v)
}

func (s *CollectSink[T]) OnError(err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
	s.closeOnce.Do(func() { close(s.done) })
}

func (s *CollectSink[T]) OnComplete() {
	s.mu.Lock()
	s.completed++
	s.mu.Unlock()
	s.closeOnce.Do(func() { close(s.done) })
}

// Values returns a copy of the values received so far.
func (s *CollectSink[T]) Values() []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]T, len(s.values))
	copy(out, s.values)
	return out
}

// Completed reports how many times OnComplete was called.
func (s *CollectSink[T]) Completed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.completed
}

func (s *CollectSink[T]) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Disposable returns the handle received in OnSubscribe, or nil.
func (s *CollectSink[T]) Disposable() Disposable {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.disposable
}

// Done is closed on the first terminal signal.
func (s *CollectSink[T]) Done() <-chan struct{} {
	return s.done
}

// LogSink writes every value to a zerolog logger.
type LogSink[T any] struct {
	logger zerolog.Logger
	count  uint64
}

var _ Observer[int] = (*LogSink[int])(nil)

// NewLogSink creates a new LogSink.
func NewLogSink[T any]() *LogSink[T] {
	return &LogSink[T]{logger: logger.GetLogger("log-sink")}
}

func (s *LogSink[T]) OnSubscribe(d Disposable) {
	s.logger.Trace().Msg("subscribed")
}

func (s *LogSink[T]) OnNext(v T) {
	s.count++
	s.logger.Info().Interface("value", v).Msg("sink")
}

func (s *LogSink[T]) OnError(err error) {
	s.logger.Err(err).Uint64("received", s.count).Msg("stream failed")
}

func (s *LogSink[T]) OnComplete() {
	s.logger.Info().Uint64("received", s.count).Msg("stream completed")
}
