package twswire

import (
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Config holds transport settings, usually loaded from a TOML file.
type Config struct {
	Address         string
	BufferSize      int
	MaxMessageSize  int
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	LogLevel        zerolog.Level
}

type fileConfig struct {
	Address         string `toml:"address"`
	BufferSize      int    `toml:"buffer_size"`
	MaxMessageSize  int    `toml:"max_message_size"`
	IdleTimeout     string `toml:"idle_timeout"`
	ShutdownTimeout string `toml:"shutdown_timeout"`
	LogLevel        string `toml:"log_level"`
}

// DefaultConfig returns the settings used when no file overrides them.
func DefaultConfig() Config {
	return Config{
		Address:        "127.0.0.1:7497",
		BufferSize:     16,
		MaxMessageSize: defaultMaxPackageLength,
		IdleTimeout:    defaultIdleTimeout,
		LogLevel:       zerolog.InfoLevel,
	}
}

// LoadConfig reads path and applies every key it defines on top of DefaultConfig.
func LoadConfig(path string) (Config, error) {
	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, errors.Wrap(err, "load config")
	}
	return raw.apply(meta, DefaultConfig())
}

// ParseConfig is LoadConfig for an in-memory document.
func ParseConfig(data string) (Config, error) {
	var raw fileConfig
	meta, err := toml.Decode(data, &raw)
	if err != nil {
		return Config{}, errors.Wrap(err, "parse config")
	}
	return raw.apply(meta, DefaultConfig())
}

func (raw fileConfig) apply(meta toml.MetaData, cfg Config) (Config, error) {
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, errors.Errorf("config: unknown key %q", undecoded[0].String())
	}

	if meta.IsDefined("address") {
		cfg.Address = strings.TrimSpace(raw.Address)
	}
	if meta.IsDefined("buffer_size") {
		if raw.BufferSize <= 0 {
			return Config{}, errors.Errorf("config: buffer_size must be positive, got %d", raw.BufferSize)
		}
		cfg.BufferSize = raw.BufferSize
	}
	if meta.IsDefined("max_message_size") {
		if raw.MaxMessageSize <= 0 {
			return Config{}, errors.Errorf("config: max_message_size must be positive, got %d", raw.MaxMessageSize)
		}
		cfg.MaxMessageSize = raw.MaxMessageSize
	}
	if meta.IsDefined("idle_timeout") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.IdleTimeout))
		if err != nil {
			return Config{}, errors.Wrap(err, "parse idle_timeout")
		}
		cfg.IdleTimeout = d
	}
	if meta.IsDefined("shutdown_timeout") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.ShutdownTimeout))
		if err != nil {
			return Config{}, errors.Wrap(err, "parse shutdown_timeout")
		}
		cfg.ShutdownTimeout = d
	}
	if meta.IsDefined("log_level") {
		lvl, ok := ParseLogLevel(raw.LogLevel)
		if !ok {
			return Config{}, errors.Errorf("config: unknown log_level %q", raw.LogLevel)
		}
		cfg.LogLevel = lvl
	}
	return cfg, nil
}

// ConnOptions converts the transport settings into Conn options. Codec and
// callbacks still have to be supplied by the caller.
func (c Config) ConnOptions() []Option {
	return []Option{
		BufferSizeOption(c.BufferSize),
		MessageMaxSize(c.MaxMessageSize),
		IdleTimeoutOption(c.IdleTimeout),
		CustomCodecOption(NewWireCodec(c.MaxMessageSize)),
	}
}

// ServerOptions converts the settings into Server options. Accepted
// connections get ConnOptions.
func (c Config) ServerOptions() []ServerOption {
	return []ServerOption{
		ServerShutdownTimeoutOption(c.ShutdownTimeout),
		ServerConnOptions(c.ConnOptions()...),
	}
}

// ParseLogLevel maps a textual level to a zerolog level. The second result
// is false for unrecognized input.
func ParseLogLevel(raw string) (zerolog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "trace":
		return zerolog.TraceLevel, true
	case "debug":
		return zerolog.DebugLevel, true
	case "info":
		return zerolog.InfoLevel, true
	case "warn", "warning":
		return zerolog.WarnLevel, true
	case "error":
		return zerolog.ErrorLevel, true
	case "disabled", "off", "none":
		return zerolog.Disabled, true
	}
	if n, err := strconv.Atoi(raw); err == nil && n >= int(zerolog.TraceLevel) && n <= int(zerolog.Disabled) {
		return zerolog.Level(n), true
	}
	return zerolog.InfoLevel, false
}
