package sinks

import (
	"errors"
	"sync"

	"github.com/rs/zerolog"
	"github.com/tarungka/rxwire/stream"
)

var (
	ErrUnknownSinkType = errors.New("unknown sink type")
	ErrMissingConfig   = errors.New("missing sink config value")
)

// Sink is an observer backed by an external resource that must be released.
type Sink interface {
	stream.Observer[int]
	Close() error
}

// sinkBase holds what every external sink shares: the subscription handle and
// the first write error. A failed write disposes the subscription since an
// observer callback cannot return an error.
type sinkBase struct {
	logger zerolog.Logger

	mu         sync.Mutex
	disposable stream.Disposable
	err        error
}

func (b *sinkBase) OnSubscribe(d stream.Disposable) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.disposable = d
}

func (b *sinkBase) fail(err error) {
	b.mu.Lock()
	if b.err == nil {
		b.err = err
	}
	d := b.disposable
	b.mu.Unlock()

	b.logger.Err(err).Msg("sink write failed, disposing subscription")
	if d != nil {
		d.Dispose()
	}
}

func (b *sinkBase) failed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.err != nil
}

// Err returns the first write error, if any.
func (b *sinkBase) Err() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.err
}

// logSink adapts stream.LogSink to Sink.
type logSink struct {
	*stream.LogSink[int]
}

func (logSink) Close() error { return nil }
