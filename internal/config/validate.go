package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateWhisper(); err != nil {
		return err
	}
	if err := c.validateChunking(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateWhisper() error {
	if c.Whisper.Endpoint == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/streamscribe/config.toml"
		}
		return fmt.Errorf("whisper.endpoint is required; edit %s (create with 'streamscribe config init')", defaultPath)
	}
	parsed, err := url.Parse(c.Whisper.Endpoint)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("whisper.endpoint %q is not a valid URL", c.Whisper.Endpoint)
	}
	if !knownWhisperModel(c.Whisper.Model) {
		return fmt.Errorf("whisper.model %q is not recognized (expected one of %s)",
			c.Whisper.Model, strings.Join(KnownWhisperModels, ", "))
	}
	if c.Whisper.Temperature < 0 || c.Whisper.Temperature > 1 {
		return errors.New("whisper.temperature must be between 0 and 1")
	}
	if c.Whisper.NoSpeechThreshold < 0 || c.Whisper.NoSpeechThreshold > 1 {
		return errors.New("whisper.no_speech_threshold must be between 0 and 1")
	}
	return nil
}

func (c *Config) validateChunking() error {
	if c.Chunking.DurationSeconds <= 0 {
		return errors.New("chunking.duration_seconds must be positive")
	}
	if c.Chunking.OverlapSeconds < 0 {
		return errors.New("chunking.overlap_seconds must not be negative")
	}
	if c.Chunking.OverlapSeconds >= c.Chunking.DurationSeconds {
		return fmt.Errorf("chunking.overlap_seconds (%d) must be smaller than chunking.duration_seconds (%d)",
			c.Chunking.OverlapSeconds, c.Chunking.DurationSeconds)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}

func knownWhisperModel(model string) bool {
	base := model
	// Versioned variants like large-v3 or large-v3-turbo reduce to their base size.
	if idx := strings.Index(model, "-"); idx > 0 {
		base = model[:idx]
	}
	for _, known := range KnownWhisperModels {
		if base == known {
			return true
		}
	}
	return false
}
