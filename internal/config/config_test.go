package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate, got %v", err)
	}
	if cfg.Chaos.RandomDelay == nil || cfg.Chaos.ModalOverlay == nil || cfg.Chaos.NetworkChaos == nil {
		t.Error("default config should enable all experiments")
	}
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error = %v", err)
	}
	if cfg.Harness.Runs != 5 {
		t.Errorf("Runs = %d, want default 5", cfg.Harness.Runs)
	}
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	content := `
harness:
  runs: 12
  seed: 7
  base_url: https://demo.playwright.dev/todomvc/
chaos:
  random_delay:
    probability: 0.5
    min_ms: 10
    max_ms: 20
logging:
  level: debug
`
	path := filepath.Join(t.TempDir(), "chaoswright.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Harness.Runs != 12 {
		t.Errorf("Runs = %d, want 12", cfg.Harness.Runs)
	}
	if cfg.Harness.Seed != 7 {
		t.Errorf("Seed = %d, want 7", cfg.Harness.Seed)
	}
	if got := cfg.Chaos.RandomDelay.Probability; got != 0.5 {
		t.Errorf("RandomDelay.Probability = %v, want 0.5", got)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/chaoswright.yaml"); err == nil {
		t.Fatal("Load() should fail for a missing file")
	}
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "zero runs",
			mutate:  func(c *Config) { c.Harness.Runs = 0 },
			wantErr: "runs must be >= 1",
		},
		{
			name:    "probability above one",
			mutate:  func(c *Config) { c.Chaos.RandomDelay.Probability = 1.5 },
			wantErr: "must be in [0, 1]",
		},
		{
			name:    "negative probability",
			mutate:  func(c *Config) { c.Chaos.ModalOverlay.Probability = -0.1 },
			wantErr: "must be in [0, 1]",
		},
		{
			name:    "inverted delay range",
			mutate:  func(c *Config) { c.Chaos.RandomDelay.MinMs = 100; c.Chaos.RandomDelay.MaxMs = 50 },
			wantErr: "below minimum",
		},
		{
			name: "combined network probabilities above one",
			mutate: func(c *Config) {
				c.Chaos.NetworkChaos.ThrottleProbability = 0.7
				c.Chaos.NetworkChaos.OfflineProbability = 0.7
			},
			wantErr: "must be <= 1",
		},
		{
			name:    "negative latency bound",
			mutate:  func(c *Config) { c.Chaos.NetworkChaos.LatencyMsMin = -5 },
			wantErr: "must be >= 0",
		},
		{
			name:    "negative browser timeout",
			mutate:  func(c *Config) { c.Browser.DefaultTimeoutMs = -1 },
			wantErr: "default_timeout_ms",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate() expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %q, want substring %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidateDisabledExperimentsSkipped(t *testing.T) {
	cfg := Default()
	cfg.Chaos = ChaosConfig{}
	if err := cfg.Validate(); err != nil {
		t.Errorf("config with no experiments should validate, got %v", err)
	}
}

func TestExperimentsConversion(t *testing.T) {
	cfg := Default()
	engine := cfg.Chaos.Experiments()

	if engine.Delay == nil || engine.Overlay == nil || engine.Network == nil {
		t.Fatal("all experiment sections should convert")
	}
	if engine.Delay.Min != 50*time.Millisecond || engine.Delay.Max != 600*time.Millisecond {
		t.Errorf("delay bounds = [%v, %v], want [50ms, 600ms]", engine.Delay.Min, engine.Delay.Max)
	}
	if engine.Network.OfflineMin != 800*time.Millisecond {
		t.Errorf("OfflineMin = %v, want 800ms", engine.Network.OfflineMin)
	}

	empty := (&ChaosConfig{}).Experiments()
	if empty.Delay != nil || empty.Overlay != nil || empty.Network != nil {
		t.Error("empty chaos config should convert to no experiments")
	}
}
