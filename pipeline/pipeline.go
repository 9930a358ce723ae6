package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/tarungka/rxwire/sinks"
	"github.com/tarungka/rxwire/sources"
	"github.com/tarungka/rxwire/stream"
)

// DataPipeline is a configured stream.Pipeline together with the sink it
// owns.
type DataPipeline struct {
	config   Config
	source   stream.Source[int]
	sink     sinks.Sink
	pipeline *stream.Pipeline[int]
}

// NewDataPipeline builds the source, the optional map stage and the sink
// described by cfg. A fusion mode other than none without a mapper inserts
// an identity map stage, since that stage is the one pulling from the source.
func NewDataPipeline(cfg Config, sourceFactory *sources.Factory, sinkFactory *sinks.Factory) (*DataPipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	fusion, _ := stream.ParseFusionMode(cfg.Fusion)
	mapFn, _ := LookupMapper(cfg.Map)

	src, err := sourceFactory.Create(cfg.Source)
	if err != nil {
		return nil, err
	}
	sink, err := sinkFactory.Create(cfg.Sink)
	if err != nil {
		return nil, err
	}

	p := stream.NewPipeline[int](cfg.Name, src, sink)
	if mapFn == nil && fusion != stream.FusionNone {
		mapFn, _ = LookupMapper("identity")
	}
	if mapFn != nil {
		p.AddOperator(stream.NewMapOperator(cfg.Name+"-map", mapFn).WithFusion(fusion))
	}

	return &DataPipeline{
		config:   cfg,
		source:   src,
		sink:     sink,
		pipeline: p,
	}, nil
}

func (dp *DataPipeline) Name() string { return dp.config.Name }

func (dp *DataPipeline) Sink() sinks.Sink { return dp.sink }

func (dp *DataPipeline) Metrics() stream.MetricsSnapshot {
	return dp.pipeline.Metrics().GetMetrics()
}

// Show describes the pipeline for logs.
func (dp *DataPipeline) Show() string {
	fusion := dp.config.Fusion
	if fusion == "" {
		fusion = "none"
	}
	mapper := dp.config.Map
	if mapper == "" {
		mapper = "-"
	}
	return fmt.Sprintf("%s: %v -> map(%s, fusion=%s) -> %s", dp.config.Name, dp.source, mapper, fusion, dp.config.Sink.ConnectionType)
}

// Run runs the pipeline once. A sink write failure is reported even when the
// stream itself ended normally.
func (dp *DataPipeline) Run(ctx context.Context) error {
	log.Debug().Msgf("Creating and running pipeline: %s", dp.Show())
	err := dp.pipeline.Run(ctx)
	if werr := sinkErr(dp.sink); werr != nil {
		return errors.Join(werr, err)
	}
	return err
}

// Close releases the sink.
func (dp *DataPipeline) Close() error {
	return dp.sink.Close()
}

func sinkErr(s sinks.Sink) error {
	if e, ok := s.(interface{ Err() error }); ok {
		return e.Err()
	}
	return nil
}
