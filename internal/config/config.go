// Package config provides the configuration structure for the kanade
// synthesis service.
package config

import (
	"fmt"

	"github.com/book-expert/configurator"
	"github.com/book-expert/logger"
)

// NATSConfig holds the configuration for NATS.
type NATSConfig struct {
	URL              string `toml:"url"`
	SynthesisSubject string `toml:"synthesis_subject"`
	TextBucket       string `toml:"text_object_store_bucket"`
	AudioBucket      string `toml:"audio_object_store_bucket"`
}

// EngineConfig holds the configuration for the synthesis engine.
type EngineConfig struct {
	EncoderModelPath       string `toml:"encoder_model_path"`
	TokenizerPath          string `toml:"tokenizer_path"`
	VoiceDir               string `toml:"voice_dir"`
	MaxLoadedModels        int    `toml:"max_loaded_models"`
	AnalyzerURL            string `toml:"analyzer_url"`
	AnalyzerTimeoutSeconds int    `toml:"analyzer_timeout_seconds"`
}

// PathsConfig holds the configuration for file paths.
type PathsConfig struct {
	BaseLogsDir string `toml:"base_logs_dir"`
}

// Config is the root configuration structure.
type Config struct {
	NATS   NATSConfig   `toml:"nats"`
	Engine EngineConfig `toml:"engine"`
	Paths  PathsConfig  `toml:"paths"`
}

// Load loads the configuration for the kanade service.
func Load(log *logger.Logger) (*Config, error) {
	var cfg Config

	err := configurator.Load(&cfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration from configurator: %w", err)
	}

	return &cfg, nil
}
