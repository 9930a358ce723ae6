package sources

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/tarungka/rxwire/stream"
)

var (
	ErrUnknownSourceType = errors.New("unknown source type")
	ErrInvalidConfig     = errors.New("invalid source config")
)

// SourceCreator builds a source from its config entries.
type SourceCreator func(config map[string]string) (stream.Source[int], error)

// Factory creates sources by type name.
type Factory struct {
	mu       sync.RWMutex
	creators map[string]SourceCreator
}

// NewFactory returns a factory with the built-in source types registered.
func NewFactory() *Factory {
	f := &Factory{creators: make(map[string]SourceCreator)}
	f.Register("range", newRangeFromConfig)
	f.Register("empty", func(map[string]string) (stream.Source[int], error) {
		return NewRange(0, 0), nil
	})
	return f
}

// Register adds or replaces the creator for a source type.
func (f *Factory) Register(name string, creator SourceCreator) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, exists := f.creators[name]; exists {
		log.Debug().Str("type", name).Msg("overriding registered source type")
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

// Create builds the source described by cfg.
func (f *Factory) Create(cfg SourceConfig) (stream.Source[int], error) {
	f.mu.RLock()
	creator, exists := f.creators[cfg.ConnectionType]
	f.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSourceType, cfg.ConnectionType)
	}
	src, err := creator(cfg.Config)
	if err != nil {
		return nil, fmt.Errorf("source %q: %w", cfg.Name, err)
	}
	log.Debug().Str("name", cfg.Name).Str("type", cfg.ConnectionType).Msgf("created source %v", src)
	return src, nil
}

func newRangeFromConfig(config map[string]string) (stream.Source[int], error) {
	start, err := intParam(config, "start", 0)
	if err != nil {
		return nil, err
	}
	if config["count"] == "" {
		return nil, fmt.Errorf("%w: missing count", ErrInvalidConfig)
	}
	count, err := intParam(config, "count", 0)
	if err != nil {
		return nil, err
	}
	return NewRange(start, count), nil
}

// intParam returns def when key is absent or empty.
func intParam(config map[string]string, key string, def int) (int, error) {
	raw, ok := config[key]
	if !ok || raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q is not an integer", ErrInvalidConfig, key, raw)
	}
	return v, nil
}
