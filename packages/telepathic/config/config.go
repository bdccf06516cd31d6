package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultSelfToken     = "this."
	DefaultBindAttribute = "data-bind"
	DefaultChangeEvent   = "change"
	DefaultCacheMaxSize  = 100
	DefaultLogLevel      = "info"
)

// Config represents the engine configuration
type Config struct {
	// SelfToken is stripped from the front of every marker path.
	SelfToken string
	// BindAttribute names the placeholder attribute generated for text markers.
	BindAttribute string
	// ChangeEvent is the DOM event that pulls attribute values back.
	ChangeEvent string
	// CacheMaxSize is the maximum number of loaded templates kept. 0 disables caching.
	CacheMaxSize int
	// CacheTTL is the time-to-live for cached templates. 0 means no expiration.
	CacheTTL time.Duration
	// LogLevel controls the Console verbosity (debug, info, warn, error, off).
	LogLevel string
}

// NewConfig creates a new Config with optional parameters
func NewConfig(opts ...Option) *Config {
	config := &Config{
		SelfToken:     DefaultSelfToken,
		BindAttribute: DefaultBindAttribute,
		ChangeEvent:   DefaultChangeEvent,
		CacheMaxSize:  DefaultCacheMaxSize,
		LogLevel:      DefaultLogLevel,
	}

	for _, opt := range opts {
		opt(config)
	}

	return config
}

// Option is a function that modifies Config
type Option func(*Config)

// WithSelfToken sets the self-reference prefix
func WithSelfToken(token string) Option {
	return func(c *Config) {
		c.SelfToken = token
	}
}

// WithBindAttribute sets the placeholder attribute name
func WithBindAttribute(name string) Option {
	return func(c *Config) {
		c.BindAttribute = name
	}
}

// WithChangeEvent sets the write-back event name
func WithChangeEvent(event string) Option {
	return func(c *Config) {
		c.ChangeEvent = event
	}
}

// WithCacheMaxSize sets the template cache capacity
func WithCacheMaxSize(size int) Option {
	return func(c *Config) {
		c.CacheMaxSize = size
	}
}

// WithCacheTTL sets the template cache time-to-live
func WithCacheTTL(ttl time.Duration) Option {
	return func(c *Config) {
		c.CacheTTL = ttl
	}
}

// WithLogLevel sets the Console level
func WithLogLevel(level string) Option {
	return func(c *Config) {
		c.LogLevel = level
	}
}

// FromEnvironment creates a Config from TELEPATHIC_* environment variables,
// applying opts afterwards
func FromEnvironment(opts ...Option) *Config {
	config := NewConfig()

	if val := os.Getenv("TELEPATHIC_SELF_TOKEN"); val != "" {
		config.SelfToken = val
	}

	if val := os.Getenv("TELEPATHIC_BIND_ATTRIBUTE"); val != "" {
		config.BindAttribute = val
	}

	if val := os.Getenv("TELEPATHIC_CHANGE_EVENT"); val != "" {
		config.ChangeEvent = val
	}

	if val := os.Getenv("TELEPATHIC_CACHE_MAX_SIZE"); val != "" {
		if size, err := strconv.Atoi(val); err == nil {
			config.CacheMaxSize = size
		}
	}

	if val := os.Getenv("TELEPATHIC_CACHE_TTL"); val != "" {
		if duration, err := time.ParseDuration(val); err == nil {
			config.CacheTTL = duration
		}
	}

	if val := os.Getenv("TELEPATHIC_LOG_LEVEL"); val != "" {
		config.LogLevel = strings.ToLower(val)
	}

	for _, opt := range opts {
		opt(config)
	}

	return config
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.CacheMaxSize < 0 {
		return errors.New("cache max size cannot be negative")
	}
	if c.CacheTTL < 0 {
		return errors.New("cache TTL cannot be negative")
	}
	if strings.TrimSpace(c.BindAttribute) == "" {
		return errors.New("bind attribute cannot be empty")
	}
	if strings.TrimSpace(c.ChangeEvent) == "" {
		return errors.New("change event cannot be empty")
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error", "off":
	default:
		return errors.New("invalid log level: " + c.LogLevel)
	}
	return nil
}
