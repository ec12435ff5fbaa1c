package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/kilianp07/pitwall/core/engine"
	"github.com/kilianp07/pitwall/core/metrics"
	"github.com/kilianp07/pitwall/infra/telemetry"
)

type Config struct {
	Engine    engine.Config   `json:"engine"`
	Race      RaceConfig      `json:"race"`
	Telemetry TelemetryConfig `json:"telemetry"`
	Metrics   metrics.Config  `json:"metrics"`
}

// TelemetryConfig selects the lap-sample source for the race loop.
type TelemetryConfig struct {
	// Source is one of "csv", "mqtt" or "sim".
	Source string               `json:"source"`
	CSV    string               `json:"csv"`
	MQTT   telemetry.MQTTConfig `json:"mqtt"`
}

// SetDefaults applies sane defaults.
func (c *TelemetryConfig) SetDefaults() {
	if c.Source == "" {
		c.Source = "csv"
	}
	c.MQTT.SetDefaults()
}

// Validate checks the source selection.
func (c TelemetryConfig) Validate() error {
	switch c.Source {
	case "csv":
		if c.CSV == "" {
			return fmt.Errorf("telemetry source csv requires a file path")
		}
	case "mqtt":
		if err := c.MQTT.Validate(); err != nil {
			return err
		}
	case "sim":
	default:
		return fmt.Errorf("unknown telemetry source %q", c.Source)
	}
	return nil
}

func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides
	if err := k.Load(env.Provider("PW_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "pw_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.Engine.SetDefaults()
	cfg.Race.SetDefaults()
	cfg.Telemetry.SetDefaults()
	cfg.Metrics.SetDefaults()
	if err := cfg.Engine.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Race.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Telemetry.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
