package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrStorageProviderInvalid = errors.New("pagebuilder config: storage provider is invalid")
	ErrStorageDialectInvalid  = errors.New("pagebuilder config: storage dialect is invalid")
	ErrCacheRequiresBun       = errors.New("pagebuilder config: repository cache requires the bun storage provider")
	ErrCacheTTLInvalid        = errors.New("pagebuilder config: cache ttl must be zero or positive")
	ErrLoggingProviderUnknown = errors.New("pagebuilder config: logging provider is invalid")
	ErrLoggingLevelInvalid    = errors.New("pagebuilder config: logging level is invalid")
	ErrLoggingFormatInvalid   = errors.New("pagebuilder config: logging format is invalid")
)

const (
	StorageMemory = "memory"
	StorageBun    = "bun"

	DialectSQLite   = "sqlite"
	DialectPostgres = "postgres"

	DefaultSQLiteDSN = "file::memory:?cache=shared"

	LoggingNone     = "none"
	LoggingGoLogger = "gologger"
)

// Config aggregates storage, cache, logging and feature settings of the page
// builder module.
type Config struct {
	Storage  StorageConfig
	Cache    CacheConfig
	Logging  LoggingConfig
	Features Features
}

// StorageConfig selects the repository implementation. DSN is only used to
// open a sqlite database when the host does not supply one.
type StorageConfig struct {
	Provider string
	Dialect  string
	DSN      string
}

// CacheConfig toggles the go-repository-cache decorator on bun repositories.
type CacheConfig struct {
	Enabled bool
	TTL     time.Duration
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string
	Level     string
	Format    string
	AddSource bool
	Focus     []string
}

// Features toggles optional behaviour of the page service.
type Features struct {
	// SanitizeRichText runs rich-text values through the HTML sanitizer on save.
	SanitizeRichText bool
	// BlockInvalidPublish refuses to publish pages whose content fails validation.
	BlockInvalidPublish bool
	// EnforceMaxBounds reports lists above their maximum count as errors.
	EnforceMaxBounds bool
}

// DefaultConfig returns in-memory storage, no logging and both safety
// features on.
func DefaultConfig() Config {
	return Config{
		Storage: StorageConfig{
			Provider: StorageMemory,
			Dialect:  DialectSQLite,
			DSN:      DefaultSQLiteDSN,
		},
		Cache: CacheConfig{
			TTL: time.Minute,
		},
		Logging: LoggingConfig{
			Provider: LoggingNone,
			Level:    "info",
			Format:   "json",
		},
		Features: Features{
			SanitizeRichText:    true,
			BlockInvalidPublish: true,
		},
	}
}

// Validate performs consistency checks.
func (cfg Config) Validate() error {
	provider := normalize(cfg.Storage.Provider)
	switch provider {
	case StorageMemory, StorageBun:
	default:
		return fmt.Errorf("%w: %q", ErrStorageProviderInvalid, cfg.Storage.Provider)
	}
	if provider == StorageBun {
		switch normalize(cfg.Storage.Dialect) {
		case DialectSQLite, DialectPostgres:
		default:
			return fmt.Errorf("%w: %q", ErrStorageDialectInvalid, cfg.Storage.Dialect)
		}
	}
	if cfg.Cache.Enabled && provider != StorageBun {
		return ErrCacheRequiresBun
	}
	if cfg.Cache.TTL < 0 {
		return ErrCacheTTLInvalid
	}

	logging := normalize(cfg.Logging.Provider)
	switch logging {
	case "", LoggingNone:
		return nil
	case LoggingGoLogger:
	default:
		return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, logging)
	}
	if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
		return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
	}
	if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
		return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
	}
	return nil
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func isSupportedLevel(level string) bool {
	switch normalize(level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch normalize(format) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
