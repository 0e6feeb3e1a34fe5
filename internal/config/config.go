package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/Mohsinsiddi/walletfetch/internal/chain"
	"github.com/Mohsinsiddi/walletfetch/internal/engine"
	"github.com/caarlos0/env/v11"
)

// ErrConfigNotFound is returned when config.toml does not exist.
var ErrConfigNotFound = errors.New("config file not found")

// location holds the directory override read from the environment.
type location struct {
	Dir string `env:"CONFIG_DIR"`
}

// DefaultDir returns ~/.config/walletfetch.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home dir: %w", err)
	}
	return filepath.Join(home, ".config", "walletfetch"), nil
}

// Load reads config.toml from dir. An empty dir falls back to
// $WALLETFETCH_CONFIG_DIR, then to DefaultDir. Environment variables
// prefixed WALLETFETCH_ override values from the file.
func Load(dir string) (*Config, error) {
	if dir == "" {
		var loc location
		if err := env.ParseWithOptions(&loc, env.Options{Prefix: envPrefix}); err != nil {
			return nil, fmt.Errorf("reading environment: %w", err)
		}
		dir = loc.Dir
	}
	if dir == "" {
		d, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		dir = d
	}

	path := filepath.Join(dir, configFile)
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w at %s", ErrConfigNotFound, path)
	}

	cfg := defaults()
	cfg.path = path

	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	for _, key := range md.Undecoded() {
		cfg.warnf("unknown config key %q", key.String())
	}
	for _, key := range cfg.networkKeys() {
		if _, err := strconv.ParseUint(key, 10, 64); err != nil {
			cfg.warnf("skipping network %q: key is not a chain id", key)
		}
	}

	if err := env.ParseWithOptions(cfg, env.Options{Prefix: envPrefix}); err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Path returns the file the config was loaded from.
func (c *Config) Path() string { return c.path }

// Warnings returns non-fatal problems found while loading, such as skipped
// network entries.
func (c *Config) Warnings() []string { return c.warnings }

// Settings returns the run parameters for the engine.
func (c *Config) Settings() engine.Settings {
	return engine.Settings{
		Timeout:        c.Timeout,
		MaxConcurrency: c.MaxConcurrency,
	}
}

// NetworkSet builds the configured networks. Keys that are not chain ids
// are skipped (Load records a warning for each); invalid RPC URLs or token
// entries are errors.
func (c *Config) NetworkSet() (chain.NetworkSet, error) {
	keys := c.networkKeys()
	networks := make([]chain.Network, 0, len(keys))
	for _, key := range keys {
		nc := c.Networks[key]
		id, err := strconv.ParseUint(key, 10, 64)
		if err != nil {
			continue
		}
		n, err := nc.network(id)
		if err != nil {
			return chain.NetworkSet{}, fmt.Errorf("networks.%s: %w", key, err)
		}
		networks = append(networks, n)
	}
	return chain.NewNetworkSet(networks...)
}

func (nc NetworkConfig) network(id uint64) (chain.Network, error) {
	if nc.Name == "" {
		return chain.Network{}, errors.New("name is required")
	}
	if err := validateRPCURL(nc.RPCURL); err != nil {
		return chain.Network{}, err
	}

	n := chain.Network{
		ChainID:      id,
		Name:         nc.Name,
		RPCURL:       nc.RPCURL,
		NativeSymbol: nc.NativeSymbol,
	}
	for i, tc := range nc.Tokens {
		if tc.Symbol == "" {
			return chain.Network{}, fmt.Errorf("tokens[%d]: symbol is required", i)
		}
		addr, err := chain.ParseAddress(tc.Address)
		if err != nil {
			return chain.Network{}, fmt.Errorf("tokens[%d] (%s): %w", i, tc.Symbol, err)
		}
		n.Tokens = append(n.Tokens, chain.TokenSpec{
			Symbol:   tc.Symbol,
			Address:  addr,
			Decimals: tc.Decimals,
		})
	}
	return n, nil
}

func validateRPCURL(raw string) error {
	if raw == "" {
		return errors.New("rpc_url is required")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("rpc_url %q: %w", raw, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("rpc_url %q: must be an http(s) URL", raw)
	}
	return nil
}

// --- helpers ---

func defaults() *Config {
	return &Config{
		Timeout:   defaultTimeout,
		RateBurst: defaultRateBurst,
		LogLevel:  defaultLogLevel,
	}
}

func (c *Config) validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	if c.MaxConcurrency < 0 {
		return fmt.Errorf("max_concurrency must not be negative, got %d", c.MaxConcurrency)
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("rate_limit must not be negative, got %g", c.RateLimit)
	}
	return nil
}

func (c *Config) networkKeys() []string {
	keys := make([]string, 0, len(c.Networks))
	for k := range c.Networks {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (c *Config) warnf(format string, args ...any) {
	c.warnings = append(c.warnings, fmt.Sprintf(format, args...))
}
