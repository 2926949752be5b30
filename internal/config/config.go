// Package config loads a batch job description from a YAML file, the
// environment and command-line flags.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/creasty/defaults"
	vd "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/moontasirabtahee/image-resizer-tool/internal/filter"
	"github.com/moontasirabtahee/image-resizer-tool/internal/sizing"
)

const envPrefix = "RESIZER"

type Config struct {
	Output  Output                    `mapstructure:"output"`
	Size    Size                      `mapstructure:"size"`
	Filters map[filter.ID]filter.Entry `mapstructure:"filters"`
	Log     Log                       `mapstructure:"log"`
}

type Output struct {
	Dir         string `mapstructure:"dir" default:"resized"`
	Prefix      string `mapstructure:"prefix"`
	JPEGQuality int    `mapstructure:"jpeg_quality" default:"95"`
}

// Size selects the sizing policy. Exactly one of Preset, Percentage, or
// Width and/or Height may be set.
type Size struct {
	Preset     string  `mapstructure:"preset"`
	Width      int     `mapstructure:"width"`
	Height     int     `mapstructure:"height"`
	Percentage float64 `mapstructure:"percentage"`
}

type Log struct {
	Level      string `mapstructure:"level" default:"info"`
	Dev        bool   `mapstructure:"dev"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb" default:"10"`
	MaxBackups int    `mapstructure:"max_backups" default:"3"`
	MaxAgeDays int    `mapstructure:"max_age_days" default:"28"`
	Compress   bool   `mapstructure:"compress"`
}

// Flag names bound to configuration keys.
var flagKeys = map[string]string{
	"output":    "output.dir",
	"prefix":    "output.prefix",
	"quality":   "output.jpeg_quality",
	"preset":    "size.preset",
	"width":     "size.width",
	"height":    "size.height",
	"percent":   "size.percentage",
	"log-level": "log.level",
	"log-file":  "log.file",
	"dev":       "log.dev",
}

// Load reads path (if non-empty), RESIZER_* environment variables and the
// flags in fs that were set explicitly, in increasing order of precedence.
func Load(path string, fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if fs != nil {
		for name, key := range flagKeys {
			if f := fs.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, err
				}
			}
		}
	}

	c := &Config{}
	if err := defaults.Set(c); err != nil {
		return nil, fmt.Errorf("failed to set defaults: %w", err)
	}
	if err := v.Unmarshal(c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := defaults.Set(c); err != nil {
		return nil, fmt.Errorf("failed to set defaults after unmarshal: %w", err)
	}
	if c.Filters == nil {
		c.Filters = map[filter.ID]filter.Entry{}
	}

	return c, nil
}

func (c Config) Validate() error {
	return vd.ValidateStruct(&c,
		vd.Field(&c.Output),
		vd.Field(&c.Size),
		vd.Field(&c.Log),
		vd.Field(&c.Filters, vd.By(func(any) error { return c.FilterSpec().Validate() })),
	)
}

func (o Output) Validate() error {
	return vd.ValidateStruct(&o,
		vd.Field(&o.Dir, vd.Required),
		vd.Field(&o.JPEGQuality, vd.Min(1), vd.Max(100)),
	)
}

func (s Size) Validate() error {
	_, err := s.Policy()
	return err
}

func (l Log) Validate() error {
	return vd.ValidateStruct(&l,
		vd.Field(&l.Level, vd.In("debug", "info", "warn", "error")),
		vd.Field(&l.MaxSizeMB, vd.Min(1)),
		vd.Field(&l.MaxBackups, vd.Min(0)),
		vd.Field(&l.MaxAgeDays, vd.Min(0)),
	)
}

var errAmbiguousSize = errors.New("ambiguous size: choose one of preset, percentage, or width/height")

// Policy converts the size settings into a sizing policy.
func (s Size) Policy() (sizing.Policy, error) {
	fixed := s.Width != 0 || s.Height != 0
	set := 0
	for _, ok := range []bool{s.Preset != "", s.Percentage != 0, fixed} {
		if ok {
			set++
		}
	}
	if set == 0 {
		return nil, sizing.ErrNoPolicy
	}
	if set > 1 {
		return nil, fmt.Errorf("%w: %w", sizing.ErrInvalidPolicy, errAmbiguousSize)
	}

	var p sizing.Policy
	switch {
	case s.Preset != "":
		preset, err := sizing.LookupPreset(s.Preset)
		if err != nil {
			return nil, err
		}
		p = preset
	case s.Percentage != 0:
		p = sizing.Percentage{P: s.Percentage}
	case s.Width != 0 && s.Height != 0:
		p = sizing.FixedWidthHeight{W: s.Width, H: s.Height}
	case s.Width != 0:
		p = sizing.FixedWidth{W: s.Width}
	default:
		p = sizing.FixedHeight{H: s.Height}
	}
	return p, sizing.Check(p)
}

// FilterSpec returns the configured filters.
func (c Config) FilterSpec() filter.Spec {
	spec := make(filter.Spec, len(c.Filters))
	for id, e := range c.Filters {
		spec[filter.ID(strings.ToLower(string(id)))] = e
	}
	return spec
}
