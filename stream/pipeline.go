package stream

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/tarungka/rxwire/internal/logger"
)

// ErrIncomplete is returned by Pipeline.Run when the source stopped without
// a terminal signal, e.g. because the sink disposed its handle.
var ErrIncomplete = errors.New("stream ended without a terminal signal")

// Pipeline connects a source, a chain of operators and a sink.
type Pipeline[T any] struct {
	name      string
	source    Source[T]
	operators []Operator[T]
	sink      Observer[T]
	metrics   *PipelineMetrics
	logger    zerolog.Logger
}

// NewPipeline creates a new Pipeline.
func NewPipeline[T any](name string, source Source[T], sink Observer[T]) *Pipeline[T] {
	return &Pipeline[T]{
		name:    name,
		source:  source,
		sink:    sink,
		metrics: NewPipelineMetrics(name),
		logger:  logger.GetLogger("pipeline").With().Str("pipeline", name).Logger(),
	}
}

// AddOperator adds an operator to the pipeline.
func (p *Pipeline[T]) AddOperator(operator Operator[T]) {
	p.operators = append(p.operators, operator)
}

func (p *Pipeline[T]) Name() string { return p.name }

func (p *Pipeline[T]) Metrics() *PipelineMetrics { return p.metrics }

// Run subscribes the sink to the source through every operator and returns
// once the subscription has ended. Emission happens on the calling goroutine.
// Cancelling ctx from another goroutine disposes the subscription; values
// already in flight are still delivered.
func (p *Pipeline[T]) Run(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	runID, err := uuid.NewV7()
	if err != nil {
		return err
	}
	runLogger := p.logger.With().Str("run_id", runID.String()).Logger()

	src := p.source
	for _, op := range p.operators {
		src = op.Apply(src)
	}

	p.metrics.IncrementRuns()
	startTime := time.Now()
	g := &guardObserver[T]{
		ctx:        ctx,
		downstream: p.sink,
		metrics:    p.metrics,
		logger:     &runLogger,
	}

	runLogger.Debug().Int("operators", len(p.operators)).Msg("subscribing")
	src.Subscribe(g)
	if g.stop != nil {
		g.stop()
	}
	p.metrics.RecordRunTime(time.Since(startTime))

	switch {
	case g.err != nil:
		runLogger.Err(g.err).Uint64("emitted", g.emitted).Msg("run failed")
		return g.err
	case g.completed:
		runLogger.Debug().Uint64("emitted", g.emitted).Msg("run completed")
		return nil
	case ctx.Err() != nil:
		runLogger.Debug().Uint64("emitted", g.emitted).Msg("run cancelled")
		return ctx.Err()
	default:
		runLogger.Debug().Uint64("emitted", g.emitted).Msg("run ended without terminal signal")
		return ErrIncomplete
	}
}

// guardObserver sits in front of the sink. It ties the subscription handle to
// the run context and records the outcome of the run.
type guardObserver[T any] struct {
	ctx        context.Context
	downstream Observer[T]
	metrics    *PipelineMetrics
	logger     *zerolog.Logger

	stop      func() bool
	emitted   uint64
	completed bool
	err       error
}

func (g *guardObserver[T]) OnSubscribe(d Disposable) {
	g.stop = context.AfterFunc(g.ctx, func() {
		if !d.IsDisposed() {
			g.metrics.IncrementDisposed()
		}
		d.Dispose()
	})
	g.downstream.OnSubscribe(d)
}

func (g *guardObserver[T]) OnNext(v T) {
	g.emitted++
	g.metrics.IncrementEmitted()
	g.logger.Trace().Interface("value", v).Msg("next")
	g.downstream.OnNext(v)
}

func (g *guardObserver[T]) OnError(err error) {
	g.err = err
	g.metrics.IncrementFailed()
	g.downstream.OnError(err)
}

func (g *guardObserver[T]) OnComplete() {
	g.completed = true
	g.metrics.IncrementCompleted()
	g.downstream.OnComplete()
}
