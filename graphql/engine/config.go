/**
 * Copyright (c) 2018, The Artemis Authors.
 *
 * Permission to use, copy, modify, and/or distribute this software for any
 * purpose with or without fee is hereby granted, provided that the above
 * copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES
 * WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF
 * MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR
 * ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES
 * WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN
 * ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF
 * OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package engine

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Configuration keys understood by LoadConfig.
const (
	KeyDocumentCacheSize = "document_cache_size"
	KeyTracing           = "tracing"
	KeyLogLevel          = "log_level"
	KeyMaxConcurrency    = "max_concurrency"
	KeyMaxDepth          = "max_depth"
)

// EnvPrefix prefixes the environment variables overriding configuration keys (for example,
// GQLEXEC_LOG_LEVEL).
const EnvPrefix = "GQLEXEC"

// DefaultDocumentCacheSize is the number of parsed documents kept by default.
const DefaultDocumentCacheSize = 1024

// Config configures an Engine.
type Config struct {
	// DocumentCacheSize is the number of parsed documents to keep. 0 disables the cache.
	DocumentCacheSize int

	// Tracing enables one span per operation and one per field.
	Tracing bool

	// LogLevel is one of debug, info, warn and error.
	LogLevel string

	// MaxConcurrency limits the number of resolvers running at the same time for one request. 0
	// means unbounded.
	MaxConcurrency int

	// MaxDepth rejects documents nesting fields deeper than this. 0 means unbounded.
	MaxDepth int
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{
		DocumentCacheSize: DefaultDocumentCacheSize,
		LogLevel:          "info",
	}
}

// Validate reports the first invalid setting.
func (config Config) Validate() error {
	if config.DocumentCacheSize < 0 {
		return fmt.Errorf("%s must not be negative but got %d", KeyDocumentCacheSize, config.DocumentCacheSize)
	}
	if config.MaxConcurrency < 0 {
		return fmt.Errorf("%s must not be negative but got %d", KeyMaxConcurrency, config.MaxConcurrency)
	}
	if config.MaxDepth < 0 {
		return fmt.Errorf("%s must not be negative but got %d", KeyMaxDepth, config.MaxDepth)
	}
	if _, err := parseLevel(config.LogLevel); err != nil {
		return err
	}
	return nil
}

// SetDefaults registers the default of every key in v.
func SetDefaults(v *viper.Viper) {
	defaults := DefaultConfig()
	v.SetDefault(KeyDocumentCacheSize, defaults.DocumentCacheSize)
	v.SetDefault(KeyTracing, defaults.Tracing)
	v.SetDefault(KeyLogLevel, defaults.LogLevel)
	v.SetDefault(KeyMaxConcurrency, defaults.MaxConcurrency)
	v.SetDefault(KeyMaxDepth, defaults.MaxDepth)
}

// NewViper returns a viper instance reading GQLEXEC_ environment variables and, when configFile is
// not empty, the given file.
func NewViper(configFile string) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", configFile, err)
		}
	}
	return v, nil
}

// LoadConfig reads an engine configuration from v and validates it.
func LoadConfig(v *viper.Viper) (Config, error) {
	config := Config{
		DocumentCacheSize: v.GetInt(KeyDocumentCacheSize),
		Tracing:           v.GetBool(KeyTracing),
		LogLevel:          v.GetString(KeyLogLevel),
		MaxConcurrency:    v.GetInt(KeyMaxConcurrency),
		MaxDepth:          v.GetInt(KeyMaxDepth),
	}
	if err := config.Validate(); err != nil {
		return Config{}, err
	}
	return config, nil
}

func parseLevel(level string) (zapcore.Level, error) {
	var l zapcore.Level
	switch level {
	case "debug", "info", "warn", "error":
		if err := l.UnmarshalText([]byte(level)); err != nil {
			return l, err
		}
		return l, nil
	}
	return l, fmt.Errorf("%s must be one of debug, info, warn and error but got %q", KeyLogLevel, level)
}

// NewLogger builds a production logger writing at the configured level.
func NewLogger(config Config) (*zap.Logger, error) {
	level, err := parseLevel(config.LogLevel)
	if err != nil {
		return nil, err
	}
	zapConfig := zap.NewProductionConfig()
	zapConfig.Level = zap.NewAtomicLevelAt(level)
	return zapConfig.Build()
}
