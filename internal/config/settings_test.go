package config

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"log/slog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envVars = []string{
	"TECHSTACK_LENS_DATASET",
	"TECHSTACK_LENS_FORMAT",
	"TECHSTACK_LENS_ADDR",
	"TECHSTACK_LENS_LOG_LEVEL",
	"TECHSTACK_LENS_LOG_FORMAT",
	"TECHSTACK_LENS_LOG_FILE",
	"TECHSTACK_LENS_VERBOSE",
	"TECHSTACK_LENS_SEARCH_INDEX",
}

// clearEnv blanks every setting variable for the duration of the test
func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range envVars {
		t.Setenv(name, "")
	}
}

func TestDefaultSettings(t *testing.T) {
	settings := DefaultSettings()

	assert.Empty(t, settings.Dataset, "Dataset should be empty (built-in) by default")
	assert.Equal(t, "text", settings.Format)
	assert.Equal(t, DefaultAddr, settings.Addr)
	assert.False(t, settings.Verbose)
	assert.False(t, settings.SearchIndex, "Scanner should be the default searcher")
	assert.Equal(t, slog.LevelError, settings.LogLevel, "LogLevel should be Error by default")
	assert.Equal(t, "text", settings.LogFormat, "LogFormat should be text by default")
}

func TestLoadSettings_WithDefaults(t *testing.T) {
	clearEnv(t)

	assert.Equal(t, DefaultSettings(), LoadSettings())
}

func TestLoadSettings_WithEnvironmentVariables(t *testing.T) {
	clearEnv(t)
	t.Setenv("TECHSTACK_LENS_DATASET", "/data/stack.yaml")
	t.Setenv("TECHSTACK_LENS_FORMAT", "JSON")
	t.Setenv("TECHSTACK_LENS_ADDR", ":9090")
	t.Setenv("TECHSTACK_LENS_LOG_LEVEL", "debug")
	t.Setenv("TECHSTACK_LENS_LOG_FORMAT", "json")
	t.Setenv("TECHSTACK_LENS_LOG_FILE", "/tmp/lens.log")
	t.Setenv("TECHSTACK_LENS_VERBOSE", "true")
	t.Setenv("TECHSTACK_LENS_SEARCH_INDEX", "TRUE")

	settings := LoadSettings()

	assert.Equal(t, "/data/stack.yaml", settings.Dataset)
	assert.Equal(t, "json", settings.Format)
	assert.Equal(t, ":9090", settings.Addr)
	assert.Equal(t, slog.LevelDebug, settings.LogLevel)
	assert.Equal(t, "json", settings.LogFormat)
	assert.Equal(t, "/tmp/lens.log", settings.LogFile)
	assert.True(t, settings.Verbose)
	assert.True(t, settings.SearchIndex)
}

func TestLoadSettings_InvalidLogLevel(t *testing.T) {
	clearEnv(t)
	t.Setenv("TECHSTACK_LENS_LOG_LEVEL", "invalid")

	settings := LoadSettings()

	// Should fall back to default for invalid log level
	assert.Equal(t, slog.LevelError, settings.LogLevel, "Should use default log level for invalid input")
}

func TestLoadSettings_BooleanParsing(t *testing.T) {
	tests := []struct {
		name     string
		envValue string
		expected bool
	}{
		{"true lowercase", "true", true},
		{"true uppercase", "TRUE", true},
		{"false lowercase", "false", false},
		{"false uppercase", "FALSE", false},
		{"invalid value", "maybe", false}, // Should default to false
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("TECHSTACK_LENS_VERBOSE", tt.envValue)
			t.Setenv("TECHSTACK_LENS_SEARCH_INDEX", tt.envValue)

			settings := LoadSettings()
			assert.Equal(t, tt.expected, settings.Verbose)
			assert.Equal(t, tt.expected, settings.SearchIndex)
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{"warn", slog.LevelWarn, false},
		{"warning", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"fatal", slog.LevelError, false},
		{"loud", slog.LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLogLevel(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConfigureLogger_TextFormat(t *testing.T) {
	settings := &Settings{
		LogLevel:  slog.LevelDebug,
		LogFormat: "text",
	}

	logger := settings.ConfigureLogger()
	assert.NotNil(t, logger)
	assert.True(t, logger.Enabled(context.Background(), slog.LevelDebug))
}

func TestConfigureLogger_JSONFormat(t *testing.T) {
	settings := &Settings{
		LogLevel:  slog.LevelWarn,
		LogFormat: "json",
	}

	logger := settings.ConfigureLogger()
	assert.NotNil(t, logger)
	assert.False(t, logger.Enabled(context.Background(), slog.LevelInfo))
}

func TestConfigureLogger_LogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lens.log")
	settings := &Settings{
		LogLevel:  slog.LevelInfo,
		LogFormat: "json",
		LogFile:   path,
	}

	settings.ConfigureLogger().Info("Dataset loaded", "categories", 6)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.Contains(data, []byte(`"msg":"Dataset loaded"`)))
	assert.True(t, bytes.Contains(data, []byte(`"categories":6`)))
}

func TestConfigureLogger_UnwritableLogFile(t *testing.T) {
	settings := &Settings{
		LogLevel:  slog.LevelInfo,
		LogFormat: "text",
		LogFile:   filepath.Join(t.TempDir(), "missing", "lens.log"),
	}

	// Falls back to stderr
	assert.NotNil(t, settings.ConfigureLogger())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(s *Settings)
		wantErr bool
	}{
		{"defaults", func(s *Settings) {}, false},
		{"yaml format", func(s *Settings) { s.Format = "yaml" }, false},
		{"bad format", func(s *Settings) { s.Format = "xml" }, true},
		{"bad log format", func(s *Settings) { s.LogFormat = "logfmt" }, true},
		{"empty address", func(s *Settings) { s.Addr = "" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings()
			tt.modify(s)
			err := s.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateOutputFormat(t *testing.T) {
	for _, f := range []string{"text", "json", "yaml", "JSON"} {
		assert.NoError(t, ValidateOutputFormat(f), f)
	}
	err := ValidateOutputFormat("xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Valid formats are: text, json, yaml")
}

// Test that LoadSettings doesn't modify the default settings
func TestLoadSettings_DoesNotModifyDefaults(t *testing.T) {
	clearEnv(t)
	defaultSettings := DefaultSettings()

	t.Setenv("TECHSTACK_LENS_VERBOSE", "true")
	settings := LoadSettings()

	assert.False(t, defaultSettings.Verbose, "Default settings should not be modified")
	assert.True(t, settings.Verbose, "Loaded settings should have environment override")
}
