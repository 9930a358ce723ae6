package sinks

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/tarungka/rxwire/stream"
)

// SinkCreator builds a sink from its config entries.
type SinkCreator func(config map[string]string) (Sink, error)

// Factory creates sinks by type name.
type Factory struct {
	mu       sync.RWMutex
	creators map[string]SinkCreator
}

// NewFactory returns a factory with the log, file, badger and kafka sinks
// registered.
func NewFactory() *Factory {
	f := &Factory{creators: make(map[string]SinkCreator)}
	f.Register("log", func(map[string]string) (Sink, error) {
		return logSink{stream.NewLogSink[int]()}, nil
	})
	f.Register("file", func(config map[string]string) (Sink, error) {
		return NewFileSink(config["file_path"])
	})
	f.Register("badger", func(config map[string]string) (Sink, error) {
		return NewBadgerSink(config["path"])
	})
	f.Register("kafka", func(config map[string]string) (Sink, error) {
		var timeout time.Duration
		if raw := config["produce_timeout"]; raw != "" {
			d, err := time.ParseDuration(raw)
			if err != nil {
				return nil, fmt.Errorf("invalid produce_timeout %q: %w", raw, err)
			}
			timeout = d
		}
		return NewKafkaSink(config["bootstrap_servers"], config["topic"], timeout)
	})
	return f
}

// Register adds or replaces the creator for a sink type.
func (f *Factory) Register(name string, creator SinkCreator) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.creators[name]; exists {
		log.Debug().Str("type", name).Msg("overriding registered sink type")
	}
	f.creators[name] = creator
}

// Types returns the registered type names, sorted.
func (f *Factory) Types() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	names := make([]string, 0, len(f.creators))
	for name := range f.creators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Create builds the sink described by cfg.
func (f *Factory) Create(cfg SinkConfig) (Sink, error) {
	f.mu.RLock()
	creator, exists := f.creators[cfg.ConnectionType]
	f.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSinkType, cfg.ConnectionType)
	}
	sink, err := creator(cfg.Config)
	if err != nil {
		return nil, fmt.Errorf("sink %q: %w", cfg.Name, err)
	}
	log.Debug().Str("name", cfg.Name).Str("type", cfg.ConnectionType).Msg("created sink")
	return sink, nil
}
