// Copyright 2026 The fanctl Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// DefaultPath is where "fanctl run" looks for its configuration when
// --config is not given.
const DefaultPath = "/etc/fanctl/config.json"

// ErrConfig is matched (via errors.Is) by every error this package
// returns for an unreadable, malformed, or invalid configuration.
var ErrConfig = errors.New("invalid configuration")

// Error wraps a configuration failure. Startup treats it as fatal; a
// reload reports it to the requesting client and keeps the previous
// configuration.
type Error struct {
	Err error
}

func (e *Error) Error() string {
	return "config error: " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports ErrConfig as matching so callers can test the error kind
// without unwrapping to the concrete type.
func (e *Error) Is(target error) bool { return target == ErrConfig }

// Config is the fan strategy document.
type Config struct {
	// DefaultStrategy is used on AC power and whenever no discharging
	// strategy is configured. Must name a key of Strategies.
	DefaultStrategy string `json:"defaultStrategy" yaml:"defaultStrategy"`

	// StrategyOnDischarging is used while running on battery. Empty
	// means "use DefaultStrategy".
	StrategyOnDischarging string `json:"strategyOnDischarging" yaml:"strategyOnDischarging"`

	// Strategies maps strategy names to their parameters.
	Strategies map[string]Strategy `json:"strategies" yaml:"strategies"`

	// Digest identifies the source document. Set by Parse and
	// ParseYAML.
	Digest Digest `json:"-" yaml:"-"`
}

// Strategy bundles a speed curve with its timing parameters.
type Strategy struct {
	// FanSpeedUpdateFrequency is the number of control ticks between
	// duty cycle recomputations. Must be at least 1.
	FanSpeedUpdateFrequency int `json:"fanSpeedUpdateFrequency" yaml:"fanSpeedUpdateFrequency"`

	// MovingAverageInterval is how many recent valid samples feed the
	// moving average. Zero averages the whole history.
	MovingAverageInterval int `json:"movingAverageInterval" yaml:"movingAverageInterval"`

	// SpeedCurve maps temperatures to duty cycles. Order matters for
	// interpolation but is not validated.
	SpeedCurve []CurvePoint `json:"speedCurve" yaml:"speedCurve"`
}

// CurvePoint is one control point of a speed curve: at Temp degrees
// Celsius the fan runs at Speed percent.
type CurvePoint struct {
	Temp  int `json:"temp" yaml:"temp"`
	Speed int `json:"speed" yaml:"speed"`
}

// Source produces a validated Config. The daemon holds one so the
// "reload" command can re-read the same location it started from.
type Source interface {
	Load() (*Config, error)
}

// FileSource loads configuration from a fixed path.
type FileSource struct {
	Path string
}

// Load reads and validates the file at s.Path.
func (s FileSource) Load() (*Config, error) {
	return LoadFile(s.Path)
}

// LoadFile reads the configuration at path, decodes it according to
// its extension (.yaml/.yml as YAML, anything else as JSONC), and
// validates it.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &Error{Err: fmt.Errorf("reading config file %s: %w", path, err)}
	}

	var cfg *Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		cfg, err = ParseYAML(data)
	default:
		cfg, err = Parse(data)
	}
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse strips JSONC comments and trailing commas from data, decodes
// the result, and validates it.
func Parse(data []byte) (*Config, error) {
	stripped := jsonc.ToJSON(data)

	var cfg Config
	decoder := json.NewDecoder(bytes.NewReader(stripped))
	if err := decoder.Decode(&cfg); err != nil {
		return nil, &Error{Err: fmt.Errorf("parsing config: %w", err)}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.Digest = DigestOf(data)
	return &cfg, nil
}

// ParseYAML decodes a YAML document and validates it.
func ParseYAML(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, &Error{Err: fmt.Errorf("parsing config: %w", err)}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.Digest = DigestOf(data)
	return &cfg, nil
}

// Validate checks the cross-references and per-strategy constraints.
// All problems are reported together, strategies in name order.
func (c *Config) Validate() error {
	var errs []error

	if _, ok := c.Strategies[c.DefaultStrategy]; !ok {
		errs = append(errs, fmt.Errorf("default strategy %q is not a valid strategy", c.DefaultStrategy))
	}

	if c.StrategyOnDischarging != "" {
		if _, ok := c.Strategies[c.StrategyOnDischarging]; !ok {
			errs = append(errs, fmt.Errorf("discharging strategy %q is not a valid strategy", c.StrategyOnDischarging))
		}
	}

	for _, name := range c.StrategyNames() {
		strategy := c.Strategies[name]
		if len(strategy.SpeedCurve) == 0 {
			errs = append(errs, fmt.Errorf("strategy %q has an empty speed curve", name))
		}
		if strategy.FanSpeedUpdateFrequency < 1 {
			errs = append(errs, fmt.Errorf("strategy %q: fanSpeedUpdateFrequency must be at least 1, got %d",
				name, strategy.FanSpeedUpdateFrequency))
		}
		if strategy.MovingAverageInterval < 0 {
			errs = append(errs, fmt.Errorf("strategy %q: movingAverageInterval must not be negative, got %d",
				name, strategy.MovingAverageInterval))
		}
		for index, point := range strategy.SpeedCurve {
			if point.Speed < 0 || point.Speed > 100 {
				errs = append(errs, fmt.Errorf("strategy %q: speedCurve[%d] speed %d is outside 0-100",
					name, index, point.Speed))
			}
			if point.Temp < 0 {
				errs = append(errs, fmt.Errorf("strategy %q: speedCurve[%d] temp %d is negative",
					name, index, point.Temp))
			}
		}
	}

	if len(errs) > 0 {
		return &Error{Err: errors.Join(errs...)}
	}
	return nil
}

// Strategy returns the named strategy.
func (c *Config) Strategy(name string) (Strategy, bool) {
	strategy, ok := c.Strategies[name]
	return strategy, ok
}

// Has reports whether name is a configured strategy.
func (c *Config) Has(name string) bool {
	_, ok := c.Strategies[name]
	return ok
}

// DischargingStrategyName returns the strategy used on battery:
// StrategyOnDischarging when set, DefaultStrategy otherwise.
func (c *Config) DischargingStrategyName() string {
	if c.StrategyOnDischarging == "" {
		return c.DefaultStrategy
	}
	return c.StrategyOnDischarging
}

// StrategyNames returns every configured strategy name, sorted.
func (c *Config) StrategyNames() []string {
	names := make([]string, 0, len(c.Strategies))
	for name := range c.Strategies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
