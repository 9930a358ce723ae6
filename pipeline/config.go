package pipeline

import (
	"errors"
	"fmt"

	"github.com/knadh/koanf/v2"
	"github.com/rs/zerolog/log"
	"github.com/tarungka/rxwire/sinks"
	"github.com/tarungka/rxwire/sources"
	"github.com/tarungka/rxwire/stream"
)

var ErrNoPipelines = errors.New("no pipelines configured")

// Config describes one source -> map -> sink pipeline.
type Config struct {
	Name   string               `koanf:"name" json:"name"`
	Fusion string               `koanf:"fusion" json:"fusion"`
	Map    string               `koanf:"map" json:"map"`
	Source sources.SourceConfig `koanf:"source" json:"source"`
	Sink   sinks.SinkConfig     `koanf:"sink" json:"sink"`
}

// Validate checks the fields that do not depend on the factories.
func (c Config) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("pipeline without a name")
	}
	if _, err := stream.ParseFusionMode(c.Fusion); err != nil {
		return fmt.Errorf("pipeline %q: %w", c.Name, err)
	}
	if _, err := LookupMapper(c.Map); err != nil {
		return fmt.Errorf("pipeline %q: %w", c.Name, err)
	}
	return nil
}

// ParseConfig reads the "pipelines" key.
func ParseConfig(ko *koanf.Koanf) ([]Config, error) {
	if !ko.Exists("pipelines") {
		return nil, ErrNoPipelines
	}

	var all []Config
	if err := ko.Unmarshal("pipelines", &all); err != nil {
		log.Err(err).Msg("Error when un-marshaling pipelines")
		return nil, err
	}
	if len(all) == 0 {
		return nil, ErrNoPipelines
	}

	seen := make(map[string]bool, len(all))
	for _, c := range all {
		if err := c.Validate(); err != nil {
			return nil, err
		}
		if seen[c.Name] {
			return nil, fmt.Errorf("duplicate pipeline name %q", c.Name)
		}
		seen[c.Name] = true
	}
	return all, nil
}
