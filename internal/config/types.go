package config

import "time"

// Config is the contents of config.toml after environment overrides.
type Config struct {
	Address        string                   `toml:"address"         env:"ADDRESS"`
	Timeout        time.Duration            `toml:"timeout"         env:"TIMEOUT"`
	MaxConcurrency int                      `toml:"max_concurrency" env:"MAX_CONCURRENCY"`
	RateLimit      float64                  `toml:"rate_limit"`
	RateBurst      int                      `toml:"rate_burst"`
	LogLevel       string                   `toml:"log_level"       env:"LOG_LEVEL"`
	Networks       map[string]NetworkConfig `toml:"networks"`

	// internal: where the file was read from, and non-fatal problems found
	path     string
	warnings []string
}

// NetworkConfig is one [networks.<chain id>] table.
type NetworkConfig struct {
	Name         string        `toml:"name"`
	RPCURL       string        `toml:"rpc_url"`
	NativeSymbol string        `toml:"native_symbol"`
	Tokens       []TokenConfig `toml:"tokens"`
}

// TokenConfig is one [[networks.<chain id>.tokens]] entry.
type TokenConfig struct {
	Symbol   string `toml:"symbol"`
	Address  string `toml:"address"`
	Decimals uint8  `toml:"decimals"`
}
