// Package config loads notebrief's configuration from config.yaml,
// environment variables (NOTEBRIEF_ prefix), and command-line flags,
// in that order of precedence.
package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	yamlparser "github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// EnvPrefix is the prefix for environment variable overrides. Double
// underscores separate nesting levels, e.g.
// NOTEBRIEF_FILE_SELECTION__MAX_FILES=30.
const EnvPrefix = "NOTEBRIEF_"

// SelectionConfig controls the file selection engine.
type SelectionConfig struct {
	MaxFiles          int `koanf:"max_files" validate:"gte=1"`
	DiscoveryInterval int `koanf:"discovery_interval"`
}

// SpacedRepetitionConfig controls the quiz level scheduler.
type SpacedRepetitionConfig struct {
	Enabled   bool  `koanf:"enabled"`
	MaxLevel  int   `koanf:"max_level" validate:"gte=0"`
	Intervals []int `koanf:"intervals" validate:"min=1,dive,gte=1"`
}

// QuizConfig groups the quiz answer server and scheduler settings.
type QuizConfig struct {
	ServerHost       string                 `koanf:"server_host" validate:"required"`
	ServerPort       int                    `koanf:"server_port" validate:"gte=0,lte=65535"`
	SpacedRepetition SpacedRepetitionConfig `koanf:"spaced_repetition"`
}

// Config is the full application configuration.
type Config struct {
	InputFolders     []string        `koanf:"input_folders"`
	OutputFolderName string          `koanf:"output_folder_name" validate:"required"`
	TargetExtensions []string        `koanf:"target_extensions" validate:"min=1"`
	Selection        SelectionConfig `koanf:"file_selection"`
	Quiz             QuizConfig      `koanf:"quiz"`
}

// Default returns the stock configuration.
func Default() Config {
	return Config{
		OutputFolderName: "_briefings",
		TargetExtensions: []string{".md"},
		Selection: SelectionConfig{
			MaxFiles:          20,
			DiscoveryInterval: 5,
		},
		Quiz: QuizConfig{
			ServerHost: "127.0.0.1",
			ServerPort: 0,
			SpacedRepetition: SpacedRepetitionConfig{
				Enabled:   true,
				MaxLevel:  5,
				Intervals: []int{1, 3, 7, 14, 30, 60},
			},
		},
	}
}

// Load reads configuration from the given file path (skipped when the
// path is empty), then environment variables, then flags. Defaults fill
// anything left unset. The result is validated before returning.
func Load(path string, flags *pflag.FlagSet) (Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yamlparser.Parser()); err != nil {
			return Config{}, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		return strings.ReplaceAll(key, "__", ".")
	}), nil); err != nil {
		return Config{}, fmt.Errorf("failed to load environment overrides: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
			return Config{}, fmt.Errorf("failed to load flag overrides: %w", err)
		}
	}

	cfg := Default()
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
