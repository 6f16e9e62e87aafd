package config

import "time"

// Config holds server configuration values.
type Config struct {
	Addr              string        `mapstructure:"addr" yaml:"addr"`
	Mode              string        `mapstructure:"mode" yaml:"mode"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	LogLevel          string        `mapstructure:"log_level" yaml:"log_level"`
	StaticPath        string        `mapstructure:"static_path" yaml:"static_path"`

	SessionSecret string        `mapstructure:"session_secret" yaml:"session_secret"`
	SessionTTL    time.Duration `mapstructure:"session_ttl" yaml:"session_ttl"`

	MessageMaxLength   int `mapstructure:"message_max_length" yaml:"message_max_length"`
	SubscriberBuffer   int `mapstructure:"subscriber_buffer" yaml:"subscriber_buffer"`
	RateLimitPerMinute int `mapstructure:"rate_limit_per_minute" yaml:"rate_limit_per_minute"`

	TurnstileSecret string `mapstructure:"turnstile_secret" yaml:"turnstile_secret"`
	TurnstileURL    string `mapstructure:"turnstile_url" yaml:"turnstile_url"`
}

// Default returns configuration with reasonable starter defaults.
func Default() Config {
	return Config{
		Addr:               ":8080",
		Mode:               "release",
		ReadHeaderTimeout:  5 * time.Second,
		ShutdownTimeout:    5 * time.Second,
		LogLevel:           "info",
		StaticPath:         "./public",
		SessionTTL:         24 * time.Hour,
		MessageMaxLength:   2000,
		SubscriberBuffer:   64,
		RateLimitPerMinute: 60,
	}
}
