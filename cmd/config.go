package cmd

import (
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	defaultLookupTimeoutSecs = 10
	defaultQueryDelayMs      = 500
	defaultRetryCount        = 0
)

// Config captures runtime settings for the interactive session, resolved
// once from the viper-backed config file with defaults for everything.
type Config struct {
	// LookupTimeout bounds each registry query.
	LookupTimeout time.Duration
	// QueryDelay paces successive lookups so registries are not hammered.
	QueryDelay time.Duration
	// RetryCount is the number of additional attempts after a transport
	// failure.
	RetryCount int
	// RDAPFallback enables a second lookup over RDAP when WHOIS fails.
	RDAPFallback bool
	// DedupAvailable records each available domain at most once per session.
	DedupAvailable bool
}

// bindLookupFlags declares command-line overrides for the lookup settings and
// binds them into viper, so a flag given on the command line beats the config
// file.
func bindLookupFlags(fs *pflag.FlagSet) error {
	fs.Int("timeout", defaultLookupTimeoutSecs, "per-lookup timeout in seconds")
	fs.Int("delay", defaultQueryDelayMs, "pause between lookups in milliseconds")
	fs.Int("retries", defaultRetryCount, "extra attempts after a transport failure")

	for flag, key := range map[string]string{
		"timeout": "lookup_timeout_seconds",
		"delay":   "query_delay_ms",
		"retries": "retry_count",
	} {
		if err := viper.BindPFlag(key, fs.Lookup(flag)); err != nil {
			return err
		}
	}
	return nil
}

func resolveConfig() Config {
	v := viper.GetViper()
	v.SetDefault("lookup_timeout_seconds", defaultLookupTimeoutSecs)
	v.SetDefault("query_delay_ms", defaultQueryDelayMs)
	v.SetDefault("retry_count", defaultRetryCount)
	v.SetDefault("rdap_fallback", true)
	v.SetDefault("dedup_available", true)

	cfg := Config{
		LookupTimeout:  time.Duration(v.GetInt("lookup_timeout_seconds")) * time.Second,
		QueryDelay:     time.Duration(v.GetInt("query_delay_ms")) * time.Millisecond,
		RetryCount:     v.GetInt("retry_count"),
		RDAPFallback:   v.GetBool("rdap_fallback"),
		DedupAvailable: v.GetBool("dedup_available"),
	}
	if cfg.LookupTimeout <= 0 {
		cfg.LookupTimeout = defaultLookupTimeoutSecs * time.Second
	}
	if cfg.QueryDelay < 0 {
		cfg.QueryDelay = 0
	}
	if cfg.RetryCount < 0 {
		cfg.RetryCount = 0
	}
	return cfg
}
