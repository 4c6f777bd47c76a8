// Package config loads and validates the harness configuration: how many
// runs, which browser mode, and the parameters of every chaos experiment.
// Configuration is read once at startup and never mutated afterwards; all
// runs share the same read-only values.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/haasonsaas/chaoswright/internal/chaos"
)

// Config is the main configuration structure for the harness.
type Config struct {
	Harness HarnessConfig `yaml:"harness"`
	Browser BrowserConfig `yaml:"browser"`
	Chaos   ChaosConfig   `yaml:"chaos"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
	Tracing TracingConfig `yaml:"tracing"`
}

// HarnessConfig holds run-loop settings. CLI flags override these.
type HarnessConfig struct {
	Runs    int    `yaml:"runs"`
	Seed    int64  `yaml:"seed"`
	BaseURL string `yaml:"base_url"`
	Chaos   bool   `yaml:"chaos"`
}

type BrowserConfig struct {
	Headless       bool `yaml:"headless"`
	ViewportWidth  int  `yaml:"viewport_width"`
	ViewportHeight int  `yaml:"viewport_height"`

	// DefaultTimeoutMs bounds individual page operations until a bot
	// overrides it.
	DefaultTimeoutMs int `yaml:"default_timeout_ms"`
}

// ChaosConfig selects and parameterizes experiments. A nil section disables
// that experiment. Magnitudes are integer milliseconds, matching how chaos
// windows are reported in events.
type ChaosConfig struct {
	RandomDelay  *RandomDelayConfig  `yaml:"random_delay"`
	ModalOverlay *ModalOverlayConfig `yaml:"modal_overlay"`
	NetworkChaos *NetworkChaosConfig `yaml:"network_chaos"`
}

type RandomDelayConfig struct {
	Probability float64 `yaml:"probability"`
	MinMs       int     `yaml:"min_ms"`
	MaxMs       int     `yaml:"max_ms"`
}

type ModalOverlayConfig struct {
	Probability float64 `yaml:"probability"`
	MinMs       int     `yaml:"min_ms"`
	MaxMs       int     `yaml:"max_ms"`
}

type NetworkChaosConfig struct {
	ThrottleProbability float64 `yaml:"throttle_probability"`
	OfflineProbability  float64 `yaml:"offline_probability"`
	LatencyMsMin        int     `yaml:"latency_ms_min"`
	LatencyMsMax        int     `yaml:"latency_ms_max"`
	DownKbpsMin         int     `yaml:"down_kbps_min"`
	DownKbpsMax         int     `yaml:"down_kbps_max"`
	UpKbpsMin           int     `yaml:"up_kbps_min"`
	UpKbpsMax           int     `yaml:"up_kbps_max"`
	OfflineMsMin        int     `yaml:"offline_ms_min"`
	OfflineMsMax        int     `yaml:"offline_ms_max"`
	ThrottleMsMin       int     `yaml:"throttle_ms_min"`
	ThrottleMsMax       int     `yaml:"throttle_ms_max"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type MetricsConfig struct {
	// Addr is the listen address for the Prometheus endpoint, e.g.
	// "localhost:9290". Empty disables the listener.
	Addr string `yaml:"addr"`
}

type TracingConfig struct {
	// Endpoint is the OTLP gRPC collector address. Empty disables tracing.
	Endpoint string `yaml:"endpoint"`
	Insecure bool   `yaml:"insecure"`
}

// Default returns the configuration used when no file is given: every
// experiment enabled with moderate parameters.
func Default() *Config {
	return &Config{
		Harness: HarnessConfig{
			Runs:  5,
			Seed:  42,
			Chaos: true,
		},
		Browser: BrowserConfig{
			Headless:         true,
			ViewportWidth:    1280,
			ViewportHeight:   800,
			DefaultTimeoutMs: 30000,
		},
		Chaos: ChaosConfig{
			RandomDelay: &RandomDelayConfig{
				Probability: 1.0,
				MinMs:       50,
				MaxMs:       600,
			},
			ModalOverlay: &ModalOverlayConfig{
				Probability: 0.25,
				MinMs:       700,
				MaxMs:       2200,
			},
			NetworkChaos: &NetworkChaosConfig{
				ThrottleProbability: 0.25,
				OfflineProbability:  0.10,
				LatencyMsMin:        300,
				LatencyMsMax:        1200,
				DownKbpsMin:         200,
				DownKbpsMax:         1500,
				UpKbpsMin:           100,
				UpKbpsMax:           800,
				OfflineMsMin:        800,
				OfflineMsMax:        2500,
				ThrottleMsMin:       2000,
				ThrottleMsMax:       6000,
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads configuration from path, layered over defaults. An empty path
// returns the defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

// Validate checks the configuration before any run starts. A failure here is
// fatal: the process exits without executing a single run.
func (c *Config) Validate() error {
	if c.Harness.Runs < 1 {
		return fmt.Errorf("harness.runs must be >= 1, got %d", c.Harness.Runs)
	}
	if c.Browser.DefaultTimeoutMs < 0 {
		return fmt.Errorf("browser.default_timeout_ms must be >= 0, got %d", c.Browser.DefaultTimeoutMs)
	}

	if d := c.Chaos.RandomDelay; d != nil {
		if err := validProbability("chaos.random_delay.probability", d.Probability); err != nil {
			return err
		}
		if err := validRange("chaos.random_delay", d.MinMs, d.MaxMs); err != nil {
			return err
		}
	}
	if o := c.Chaos.ModalOverlay; o != nil {
		if err := validProbability("chaos.modal_overlay.probability", o.Probability); err != nil {
			return err
		}
		if err := validRange("chaos.modal_overlay", o.MinMs, o.MaxMs); err != nil {
			return err
		}
	}
	if n := c.Chaos.NetworkChaos; n != nil {
		if err := validProbability("chaos.network_chaos.throttle_probability", n.ThrottleProbability); err != nil {
			return err
		}
		if err := validProbability("chaos.network_chaos.offline_probability", n.OfflineProbability); err != nil {
			return err
		}
		if n.ThrottleProbability+n.OfflineProbability > 1 {
			return fmt.Errorf("chaos.network_chaos: throttle_probability + offline_probability must be <= 1")
		}
		ranges := []struct {
			name     string
			min, max int
		}{
			{"latency_ms", n.LatencyMsMin, n.LatencyMsMax},
			{"down_kbps", n.DownKbpsMin, n.DownKbpsMax},
			{"up_kbps", n.UpKbpsMin, n.UpKbpsMax},
			{"offline_ms", n.OfflineMsMin, n.OfflineMsMax},
			{"throttle_ms", n.ThrottleMsMin, n.ThrottleMsMax},
		}
		for _, r := range ranges {
			if err := validRange("chaos.network_chaos."+r.name, r.min, r.max); err != nil {
				return err
			}
		}
	}
	return nil
}

func validProbability(name string, p float64) error {
	if p < 0 || p > 1 {
		return fmt.Errorf("%s must be in [0, 1], got %v", name, p)
	}
	return nil
}

func validRange(name string, min, max int) error {
	if min < 0 {
		return fmt.Errorf("%s: minimum must be >= 0, got %d", name, min)
	}
	if max < min {
		return fmt.Errorf("%s: maximum %d is below minimum %d", name, max, min)
	}
	return nil
}

// Experiments converts the chaos section into the engine's configuration.
func (c *ChaosConfig) Experiments() chaos.Config {
	var cfg chaos.Config
	if d := c.RandomDelay; d != nil {
		cfg.Delay = &chaos.DelayConfig{
			Probability: d.Probability,
			Min:         time.Duration(d.MinMs) * time.Millisecond,
			Max:         time.Duration(d.MaxMs) * time.Millisecond,
		}
	}
	if o := c.ModalOverlay; o != nil {
		cfg.Overlay = &chaos.OverlayConfig{
			Probability: o.Probability,
			Min:         time.Duration(o.MinMs) * time.Millisecond,
			Max:         time.Duration(o.MaxMs) * time.Millisecond,
		}
	}
	if n := c.NetworkChaos; n != nil {
		cfg.Network = &chaos.NetworkConfig{
			ThrottleProbability: n.ThrottleProbability,
			OfflineProbability:  n.OfflineProbability,
			LatencyMin:          time.Duration(n.LatencyMsMin) * time.Millisecond,
			LatencyMax:          time.Duration(n.LatencyMsMax) * time.Millisecond,
			DownloadKbpsMin:     n.DownKbpsMin,
			DownloadKbpsMax:     n.DownKbpsMax,
			UploadKbpsMin:       n.UpKbpsMin,
			UploadKbpsMax:       n.UpKbpsMax,
			OfflineMin:          time.Duration(n.OfflineMsMin) * time.Millisecond,
			OfflineMax:          time.Duration(n.OfflineMsMax) * time.Millisecond,
			ThrottleMin:         time.Duration(n.ThrottleMsMin) * time.Millisecond,
			ThrottleMax:         time.Duration(n.ThrottleMsMax) * time.Millisecond,
		}
	}
	return cfg
}
