package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name   string
		config LogConfig
	}{
		{
			name: "json format",
			config: LogConfig{
				Level:  "info",
				Format: "json",
			},
		},
		{
			name: "text format",
			config: LogConfig{
				Level:  "debug",
				Format: "text",
			},
		},
		{
			name:   "defaults",
			config: LogConfig{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := NewLogger(tt.config)
			if logger == nil {
				t.Fatal("NewLogger() returned nil")
			}
			if logger.logger == nil {
				t.Error("Logger.logger is nil")
			}
		})
	}
}

func TestLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LogConfig{Level: "warn", Format: "text", Output: &buf})

	ctx := context.Background()
	logger.Debug(ctx, "debug message")
	logger.Info(ctx, "info message")
	logger.Warn(ctx, "warn message")
	logger.Error(ctx, "error message")

	out := buf.String()
	if strings.Contains(out, "debug message") || strings.Contains(out, "info message") {
		t.Errorf("levels below warn should be filtered, got: %s", out)
	}
	if !strings.Contains(out, "warn message") || !strings.Contains(out, "error message") {
		t.Errorf("warn and error should be logged, got: %s", out)
	}
}

func TestLoggerRunCorrelation(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LogConfig{Level: "info", Format: "json", Output: &buf})

	ctx := AddRunID(context.Background(), "run-7")
	ctx = AddSessionID(ctx, "sess-1")
	ctx = AddBot(ctx, "todomvc")
	logger.Info(ctx, "experiment triggered", "experiment", "random_delay")

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("log output is not valid JSON: %v", err)
	}
	if record["run_id"] != "run-7" {
		t.Errorf("run_id = %v, want run-7", record["run_id"])
	}
	if record["session_id"] != "sess-1" {
		t.Errorf("session_id = %v, want sess-1", record["session_id"])
	}
	if record["bot"] != "todomvc" {
		t.Errorf("bot = %v, want todomvc", record["bot"])
	}
	if record["experiment"] != "random_delay" {
		t.Errorf("experiment = %v, want random_delay", record["experiment"])
	}
}

func TestContextAccessors(t *testing.T) {
	ctx := context.Background()
	if GetRunID(ctx) != "" || GetSessionID(ctx) != "" || GetBot(ctx) != "" {
		t.Error("empty context should return empty IDs")
	}

	ctx = AddRunID(ctx, "r1")
	if GetRunID(ctx) != "r1" {
		t.Errorf("GetRunID() = %q, want r1", GetRunID(ctx))
	}
}
