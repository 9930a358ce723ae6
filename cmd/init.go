package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/rs/zerolog/log"
	flag "github.com/spf13/pflag"
)

func newFlagSet() *flag.FlagSet {
	f := flag.NewFlagSet("config", flag.ContinueOnError)
	f.Usage = func() {
		fmt.Println(f.FlagUsages())
	}

	f.StringSlice("config", nil, "path to one or more config files (will be merged in order)")
	f.Int("start", 0, "first value of the range when no pipelines are configured")
	f.Int("count", 10, "number of values of the range when no pipelines are configured")
	f.String("fusion", "none", "fusion mode requested by the map stage (none|sync)")
	f.String("map", "", "named mapper applied to every value (identity|double|square|negate)")
	f.String("sink", "log", "sink type when no pipelines are configured (log|file|badger|kafka)")
	f.String("sink-path", "", "file_path for the file sink, path for the badger sink")
	f.String("log-level", "info", "log level")
	f.Bool("dev", false, "human readable console logs")
	f.Bool("version", false, "show current version of the build")
	return f
}

// initFlags parses args, loads every config file named by --config and then
// overlays the flags that were set explicitly.
func initFlags(ko *koanf.Koanf, args []string) error {
	f := newFlagSet()
	if err := f.Parse(args); err != nil {
		return fmt.Errorf("error loading flags: %w", err)
	}
	log.Trace().Msg("No errors when parsing the flags")

	configs, _ := f.GetStringSlice("config")
	for _, path := range configs {
		if err := loadConfigFile(ko, path); err != nil {
			return err
		}
	}

	if err := ko.Load(posflag.Provider(f, ".", ko), nil); err != nil {
		return fmt.Errorf("error reading flag config: %w", err)
	}
	return nil
}

func loadConfigFile(ko *koanf.Koanf, path string) error {
	log.Debug().Msgf("Reading config from %s", path)
	var parser koanf.Parser
	fileExtension := path[strings.LastIndex(path, ".")+1:]
	switch fileExtension {
	case "yaml", "yml":
		parser = yaml.Parser()
	case "json":
		parser = json.Parser()
	default:
		return fmt.Errorf("unsupported file extension %q", fileExtension)
	}
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("error reading config: %w", err)
	}
	if err := ko.Load(file.Provider(path), parser); err != nil {
		return fmt.Errorf("error reading config %s: %w", path, err)
	}
	log.Trace().Msg("Successfully read the contents of the config file")
	return nil
}
