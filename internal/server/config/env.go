package config

import "github.com/caarlos0/env/v11"

// parseEnv overlays Config fields from environment variables using the `env`
// tags declared on Config. Unset variables leave the existing values intact.
func parseEnv(config *Config) {
	if err := env.Parse(config); err != nil {
		panic(err)
	}
}
