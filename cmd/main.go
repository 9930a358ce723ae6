package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"

	"github.com/knadh/koanf/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	flag "github.com/spf13/pflag"
	"github.com/tarungka/rxwire/internal/logger"
	"github.com/tarungka/rxwire/pipeline"
	"github.com/tarungka/rxwire/sinks"
	"github.com/tarungka/rxwire/sources"
)

var buildString = "unknown"

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		log.Error().Err(err).Msg("rxwire failed")
		os.Exit(1)
	}
}

func run(args []string) error {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	ko := koanf.New(".")

	if err := initFlags(ko, args); err != nil {
		return err
	}

	if ko.Bool("version") {
		fmt.Println(buildString)
		return nil
	}

	logger.SetDevelopment(ko.Bool("dev"))
	if err := logger.SetLevel(ko.String("log-level")); err != nil {
		return err
	}
	log.Logger = logger.GetLogger("rxwire")
	log.Info().Str("build", buildString).Msg("Starting the application")

	configs, err := pipelineConfigs(ko)
	if err != nil {
		return err
	}

	sourceFactory := sources.NewFactory()
	sinkFactory := sinks.NewFactory()

	var pipelines []*pipeline.DataPipeline
	defer func() {
		for _, dp := range pipelines {
			if err := dp.Close(); err != nil {
				log.Err(err).Str("pipeline", dp.Name()).Msg("error closing sink")
			}
		}
	}()
	for _, cfg := range configs {
		dp, err := pipeline.NewDataPipeline(cfg, sourceFactory, sinkFactory)
		if err != nil {
			return err
		}
		log.Debug().Msgf("Created pipeline: %s", dp.Show())
		pipelines = append(pipelines, dp)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return pipeline.RunAll(ctx, pipelines)
}

// pipelineConfigs returns the configured pipelines, or a single one built
// from the flags when the config has none.
func pipelineConfigs(ko *koanf.Koanf) ([]pipeline.Config, error) {
	configs, err := pipeline.ParseConfig(ko)
	if err == nil {
		return configs, nil
	}
	if !errors.Is(err, pipeline.ErrNoPipelines) {
		return nil, err
	}

	sinkType := ko.String("sink")
	sinkConfig := map[string]string{}
	switch sinkType {
	case "file":
		sinkConfig["file_path"] = ko.String("sink-path")
	case "badger":
		sinkConfig["path"] = ko.String("sink-path")
	}

	cfg := pipeline.Config{
		Name:   "default",
		Fusion: ko.String("fusion"),
		Map:    ko.String("map"),
		Source: sources.SourceConfig{
			Name:           "default",
			ConnectionType: "range",
			Config: map[string]string{
				"start": strconv.Itoa(ko.Int("start")),
				"count": strconv.Itoa(ko.Int("count")),
			},
		},
		Sink: sinks.SinkConfig{
			Name:           "default",
			ConnectionType: sinkType,
			Config:         sinkConfig,
		},
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return []pipeline.Config{cfg}, nil
}
