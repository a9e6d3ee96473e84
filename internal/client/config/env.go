package config

import "github.com/dmitrijs2005/promptify/internal/flagx"

const (
	EnvPrefix = "PROMPTIFY"

	EnvServerAddr    = "PROMPTIFY_SERVER_ADDR"
	EnvCacheFile     = "PROMPTIFY_CACHE_FILE"
	EnvIdentityToken = "PROMPTIFY_TOKEN"
)

// parseEnv overlays Config with PROMPTIFY_* variables that are set.
func parseEnv(cfg *Config) {
	env := flagx.NewEnv(EnvPrefix)
	env.String(EnvServerAddr, &cfg.ServerEndpointAddr)
	env.String(EnvCacheFile, &cfg.CacheFile)
	env.String(EnvIdentityToken, &cfg.IdentityToken)
}
