// Package config loads the tunables of the spatial systems from YAML or JSON.
package config

import (
	"io"
	"os"
	"time"

	"github.com/pkg/errors"

	"github.com/llamasearchai/llamaquest/internal/core/errs"
	"github.com/llamasearchai/llamaquest/internal/core/observability/log"
	"github.com/llamasearchai/llamaquest/internal/core/systems/physics"
	"github.com/llamasearchai/llamaquest/internal/core/systems/visibility"
	"github.com/llamasearchai/llamaquest/pkg/encoding"
)

type Config struct {
	Log         LogConfig         `json:"log" yaml:"log"`
	Pathfinding PathfindingConfig `json:"pathfinding" yaml:"pathfinding"`
	Visibility  VisibilityConfig  `json:"visibility" yaml:"visibility"`
	Physics     PhysicsConfig     `json:"physics" yaml:"physics"`
	Dispatch    DispatchConfig    `json:"dispatch" yaml:"dispatch"`
}

type LogConfig struct {
	Level string `json:"level" yaml:"level"`
}

type PathfindingConfig struct {
	// MaxExploredNodes is the default A* node budget. 0 means unbounded.
	MaxExploredNodes int `json:"max_explored_nodes" yaml:"max_explored_nodes"`
	// CacheSize bounds the path cache. 0 disables it.
	CacheSize int `json:"cache_size" yaml:"cache_size"`
}

type VisibilityConfig struct {
	DefaultRadius int `json:"default_radius" yaml:"default_radius"`
}

// PhysicsConfig holds the default zone and named zones. Zone entries are
// complete configs; they do not inherit from the default.
type PhysicsConfig struct {
	Default physics.Config            `json:"default" yaml:"default"`
	Zones   map[string]physics.Config `json:"zones,omitempty" yaml:"zones,omitempty"`
}

type DispatchConfig struct {
	// Workers bounds concurrent queries per batch. 0 means GOMAXPROCS.
	Workers int      `json:"workers" yaml:"workers"`
	Timeout Duration `json:"timeout" yaml:"timeout"`
}

// Duration is a time.Duration written as "250ms" in config files.
type Duration time.Duration

func (d Duration) Std() time.Duration { return time.Duration(d) }

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*d = 0
		return nil
	}
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

func Default() *Config {
	return &Config{
		Log:         LogConfig{Level: log.LevelInfo.String()},
		Pathfinding: PathfindingConfig{MaxExploredNodes: 0, CacheSize: 256},
		Visibility:  VisibilityConfig{DefaultRadius: visibility.DefaultRadius},
		Physics:     PhysicsConfig{Default: physics.DefaultConfig()},
		Dispatch:    DispatchConfig{},
	}
}

// LogLevel parses Log.Level.
func (c *Config) LogLevel() (log.Level, error) {
	return log.ParseLevel(c.Log.Level)
}

// Validate reports the first invalid setting. Every failure wraps errs.ErrInvalidParameter.
func (c *Config) Validate() error {
	if _, err := c.LogLevel(); err != nil {
		return errors.Wrapf(errs.ErrInvalidParameter, "config: log: %v", err)
	}
	if c.Pathfinding.MaxExploredNodes < 0 {
		return errors.Wrapf(errs.ErrInvalidParameter, "config: pathfinding.max_explored_nodes %d", c.Pathfinding.MaxExploredNodes)
	}
	if c.Pathfinding.CacheSize < 0 {
		return errors.Wrapf(errs.ErrInvalidParameter, "config: pathfinding.cache_size %d", c.Pathfinding.CacheSize)
	}
	if c.Visibility.DefaultRadius < 0 {
		return errors.Wrapf(errs.ErrInvalidParameter, "config: visibility.default_radius %d", c.Visibility.DefaultRadius)
	}
	if err := c.Physics.Default.Validate(); err != nil {
		return errors.Wrap(err, "config: physics.default")
	}
	for name, zone := range c.Physics.Zones {
		if err := zone.Validate(); err != nil {
			return errors.Wrapf(err, "config: physics.zones.%s", name)
		}
	}
	if c.Dispatch.Workers < 0 {
		return errors.Wrapf(errs.ErrInvalidParameter, "config: dispatch.workers %d", c.Dispatch.Workers)
	}
	if c.Dispatch.Timeout < 0 {
		return errors.Wrapf(errs.ErrInvalidParameter, "config: dispatch.timeout %v", c.Dispatch.Timeout.Std())
	}
	return nil
}

// LoadYAML decodes r over the defaults and validates the result.
func LoadYAML(r io.Reader) (*Config, error) {
	return load(r, encoding.FormatYAML)
}

// LoadJSON decodes r over the defaults and validates the result.
func LoadJSON(r io.Reader) (*Config, error) {
	return load(r, encoding.FormatJSON)
}

// LoadFile picks the decoder from the file extension.
func LoadFile(path string) (*Config, error) {
	format, err := encoding.FormatFromPath(path)
	if err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	defer f.Close()

	c, err := load(f, format)
	if err != nil {
		return nil, errors.Wrapf(err, "load config %s", path)
	}
	return c, nil
}

func load(r io.Reader, format encoding.Format) (*Config, error) {
	c := Default()
	// an empty document keeps the defaults
	if err := encoding.Decode(r, format, c); err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Wrapf(err, "decode %s config", format)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}
