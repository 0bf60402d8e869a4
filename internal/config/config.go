package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// Config holds the runtime settings for the studio server.
type Config struct {
	DataDir        string `koanf:"data_dir" validate:"required"`
	DBPath         string `koanf:"db_path" validate:"required"`
	ListenAddr     string `koanf:"listen_addr" validate:"required"`
	SessionMinutes int    `koanf:"session_minutes" validate:"min=1"`
	CurriculumRepo string `koanf:"curriculum_repo"` // optional git URL to sync data from
}

// Flags registers the command-line flags, with their defaults, on a fresh
// FlagSet.
func Flags() *pflag.FlagSet {
	f := pflag.NewFlagSet("hskstudio", pflag.ExitOnError)
	f.String("config", "", "Path to an optional YAML config file")
	f.String("data-dir", "data", "Directory holding the curriculum JSON files")
	f.String("db-path", "hskstudio.db", "Path to the SQLite progress database")
	f.String("listen-addr", ":8080", "HTTP listen address")
	f.Int("session-minutes", 25, "Length of one focus session in minutes")
	f.String("curriculum-repo", "", "Optional git URL to sync the curriculum from")
	return f
}

// Load resolves the configuration. Precedence, lowest to highest: flag
// defaults, YAML config file, HSKS_-prefixed environment variables,
// explicitly set flags.
func Load(f *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if path, _ := f.GetString("config"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("HSKS_", ".", func(key string) string {
		return strings.ToLower(strings.TrimPrefix(key, "HSKS_"))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment config: %w", err)
	}

	if err := k.Load(posflag.ProviderWithFlag(f, ".", k, func(flag *pflag.Flag) (string, interface{}) {
		return strings.ReplaceAll(flag.Name, "-", "_"), posflag.FlagVal(f, flag)
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load flag config: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// MustLoad parses os.Args and exits on error, for use from main.
func MustLoad() *Config {
	f := Flags()
	_ = f.Parse(os.Args[1:])
	cfg, err := Load(f)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	return cfg
}
