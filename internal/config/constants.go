package config

import "time"

const (
	defaultTimeout   = 15 * time.Second
	defaultRateBurst = 1
	defaultLogLevel  = "warn"

	configFile = "config.toml"
	envPrefix  = "WALLETFETCH_"
)
