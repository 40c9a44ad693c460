// Package config holds the service settings and loads them from YAML or TOML.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Config is the full set of service settings.
type Config struct {
	Listen string `yaml:"listen" toml:"listen" json:"listen"`
	Port   int    `yaml:"port" toml:"port" json:"port"`

	CSV   string `yaml:"csv" toml:"csv" json:"csv"`
	DB    string `yaml:"db" toml:"db" json:"db"`
	Table string `yaml:"table" toml:"table" json:"table"`
	Width int    `yaml:"width" toml:"width" json:"width"`

	FigureWidth  int `yaml:"figure_width" toml:"figure_width" json:"figure_width"`
	FigureHeight int `yaml:"figure_height" toml:"figure_height" json:"figure_height"`

	PlotDir  string `yaml:"plot_dir" toml:"plot_dir" json:"plot_dir"`
	PlotKeep int    `yaml:"plot_keep" toml:"plot_keep" json:"plot_keep"`

	LogFile       string `yaml:"log_file" toml:"log_file" json:"log_file"`
	LogMaxSizeMB  int    `yaml:"log_max_size_mb" toml:"log_max_size_mb" json:"log_max_size_mb"`
	LogMaxAgeDays int    `yaml:"log_max_age_days" toml:"log_max_age_days" json:"log_max_age_days"`
	Verbose       bool   `yaml:"verbose" toml:"verbose" json:"verbose"`

	CORSOrigins []string `yaml:"cors_origins" toml:"cors_origins" json:"cors_origins,omitempty"`
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		Listen:        "localhost",
		Port:          8080,
		CSV:           "img.csv",
		DB:            "challenge.db",
		Table:         "img",
		Width:         150,
		FigureWidth:   1800,
		FigureHeight:  800,
		PlotKeep:      100,
		LogMaxSizeMB:  100,
		LogMaxAgeDays: 28,
	}
}

// Addr returns the listen address as host:port.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Listen, strconv.Itoa(c.Port))
}

// Load reads a config file over Default(). The format follows the extension:
// .yaml/.yml or .toml. Unknown keys are an error in both formats.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	case ".toml":
		md, err := toml.Decode(string(data), &cfg)
		if err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			return cfg, fmt.Errorf("parse config %s: unknown keys %s", path, strings.Join(keys, ", "))
		}
	default:
		return cfg, fmt.Errorf("config %s: unsupported format %q (want .yaml, .yml or .toml)", path, ext)
	}
	return cfg, nil
}
