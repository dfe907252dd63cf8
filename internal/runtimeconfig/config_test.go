package runtimeconfig_test

import (
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-pagebuilder/internal/runtimeconfig"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() returned unexpected error: %v", err)
	}
	if !cfg.Features.BlockInvalidPublish || !cfg.Features.SanitizeRichText {
		t.Fatalf("expected safety features on by default, got %+v", cfg.Features)
	}
	if cfg.Features.EnforceMaxBounds {
		t.Fatalf("expected max bounds off by default")
	}
}

func TestConfigValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*runtimeconfig.Config)
		want   error
	}{
		{
			name:   "unknown storage provider",
			mutate: func(cfg *runtimeconfig.Config) { cfg.Storage.Provider = "redis" },
			want:   runtimeconfig.ErrStorageProviderInvalid,
		},
		{
			name: "unknown dialect",
			mutate: func(cfg *runtimeconfig.Config) {
				cfg.Storage.Provider = "bun"
				cfg.Storage.Dialect = "mysql"
			},
			want: runtimeconfig.ErrStorageDialectInvalid,
		},
		{
			name:   "cache on memory storage",
			mutate: func(cfg *runtimeconfig.Config) { cfg.Cache.Enabled = true },
			want:   runtimeconfig.ErrCacheRequiresBun,
		},
		{
			name: "negative ttl",
			mutate: func(cfg *runtimeconfig.Config) {
				cfg.Cache.TTL = -time.Second
			},
			want: runtimeconfig.ErrCacheTTLInvalid,
		},
		{
			name:   "unknown logging provider",
			mutate: func(cfg *runtimeconfig.Config) { cfg.Logging.Provider = "syslog" },
			want:   runtimeconfig.ErrLoggingProviderUnknown,
		},
		{
			name: "invalid level",
			mutate: func(cfg *runtimeconfig.Config) {
				cfg.Logging.Provider = "gologger"
				cfg.Logging.Level = "loud"
			},
			want: runtimeconfig.ErrLoggingLevelInvalid,
		},
		{
			name: "invalid format",
			mutate: func(cfg *runtimeconfig.Config) {
				cfg.Logging.Provider = "gologger"
				cfg.Logging.Format = "xml"
			},
			want: runtimeconfig.ErrLoggingFormatInvalid,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := runtimeconfig.DefaultConfig()
			tc.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestConfigValidateAcceptsBunWithCache(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Storage.Provider = "BUN"
	cfg.Storage.Dialect = "postgres"
	cfg.Cache.Enabled = true
	cfg.Logging.Provider = "gologger"
	cfg.Logging.Format = "pretty"

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() returned unexpected error: %v", err)
	}
}
