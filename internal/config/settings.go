package config

import (
	"fmt"
	"io"
	"os"
	"strings"

	"log/slog"
)

// EnvPrefix is the prefix of every environment override
const EnvPrefix = "TECHSTACK_LENS_"

// DefaultAddr is the default listen address of the API server
const DefaultAddr = "127.0.0.1:8080"

// ValidOutputFormats defines the supported output formats
var ValidOutputFormats = map[string]bool{
	"text": true,
	"json": true,
	"yaml": true,
}

// Settings holds all techstack-lens configuration
type Settings struct {
	// Dataset file, empty for the built-in dataset
	Dataset string

	// Output settings
	Format string

	// Behavior
	Verbose     bool
	SearchIndex bool // Answer searches from the inverted index instead of scanning

	// Server
	Addr string

	// Logging
	LogLevel  slog.Level
	LogFormat string // "text" or "json"
	LogFile   string // Optional: write logs to file instead of stderr
}

// DefaultSettings returns default configuration
func DefaultSettings() *Settings {
	return &Settings{
		Dataset:     "",
		Format:      "text",
		Verbose:     false,
		SearchIndex: false,
		Addr:        DefaultAddr,
		LogLevel:    slog.LevelError, // only errors by default
		LogFormat:   "text",
		LogFile:     "", // Empty = stderr
	}
}

// LoadSettings creates settings from defaults and applies environment variable overrides
func LoadSettings() *Settings {
	settings := DefaultSettings()

	if dataset := getenv("DATASET"); dataset != "" {
		settings.Dataset = dataset
	}

	if format := getenv("FORMAT"); format != "" {
		settings.Format = NormalizeFormat(format)
	}

	if addr := getenv("ADDR"); addr != "" {
		settings.Addr = addr
	}

	// Logging settings
	if logLevel := getenv("LOG_LEVEL"); logLevel != "" {
		if level, err := ParseLogLevel(logLevel); err == nil {
			settings.LogLevel = level
		}
	}

	if logFormat := getenv("LOG_FORMAT"); logFormat != "" {
		settings.LogFormat = strings.ToLower(logFormat)
	}

	if logFile := getenv("LOG_FILE"); logFile != "" {
		settings.LogFile = logFile
	}

	if verbose := getenv("VERBOSE"); verbose != "" {
		settings.Verbose = strings.ToLower(verbose) == "true"
	}

	if index := getenv("SEARCH_INDEX"); index != "" {
		settings.SearchIndex = strings.ToLower(index) == "true"
	}

	return settings
}

func getenv(name string) string {
	return os.Getenv(EnvPrefix + name)
}

// ParseLogLevel converts string log level to slog.Level
func ParseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	case "fatal":
		return slog.LevelError, nil // slog doesn't have fatal, use error
	default:
		return slog.LevelInfo, fmt.Errorf("invalid log level: %s", level)
	}
}

// ConfigureLogger builds the logger described by the settings
func (s *Settings) ConfigureLogger() *slog.Logger {
	var handler slog.Handler

	// Set output destination
	var output io.Writer = os.Stderr
	if s.LogFile != "" {
		file, err := os.OpenFile(s.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			// Fallback to stderr if file can't be opened
			fmt.Fprintf(os.Stderr, "Warning: Cannot open log file %s: %v\n", s.LogFile, err)
			output = os.Stderr
		} else {
			output = file
		}
	}

	opts := &slog.HandlerOptions{
		Level: s.LogLevel,
	}

	if s.LogFormat == "json" {
		handler = slog.NewJSONHandler(output, opts)
	} else {
		handler = slog.NewTextHandler(output, opts)
	}

	return slog.New(handler)
}

// Validate checks if settings are valid
func (s *Settings) Validate() error {
	if err := ValidateOutputFormat(s.Format); err != nil {
		return err
	}
	if s.LogFormat != "text" && s.LogFormat != "json" {
		return fmt.Errorf("invalid log format: %s. Valid formats are: text, json", s.LogFormat)
	}
	if s.Addr == "" {
		return fmt.Errorf("listen address is required")
	}
	return nil
}

// ValidateOutputFormat checks if the given format is valid
func ValidateOutputFormat(format string) error {
	if !ValidOutputFormats[strings.ToLower(format)] {
		return fmt.Errorf("invalid format: %s. Valid formats are: text, json, yaml", format)
	}
	return nil
}

// NormalizeFormat normalizes the format string to lowercase
func NormalizeFormat(format string) string {
	return strings.ToLower(format)
}
