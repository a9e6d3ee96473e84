package config

import "github.com/dmitrijs2005/promptify/internal/flagx"

// Environment variables recognized by the server.
const (
	EnvPrefix = "PROMPTIFY"

	EnvGRPCAddr       = "PROMPTIFY_GRPC_ADDR"
	EnvMetricsAddr    = "PROMPTIFY_METRICS_ADDR"
	EnvDatabaseDSN    = "PROMPTIFY_DATABASE_DSN"
	EnvIdentitySecret = "PROMPTIFY_IDENTITY_SECRET"
	EnvStartingCoins  = "PROMPTIFY_STARTING_COINS"
	EnvLogBackend     = "PROMPTIFY_LOG_BACKEND"
	EnvImageURLTTL    = "PROMPTIFY_IMAGE_URL_TTL"
	EnvS3RootUser     = "PROMPTIFY_S3_ROOT_USER"
	EnvS3RootPassword = "PROMPTIFY_S3_ROOT_PASSWORD"
	EnvS3Bucket       = "PROMPTIFY_S3_BUCKET"
	EnvS3Region       = "PROMPTIFY_S3_REGION"
	EnvS3BaseEndpoint = "PROMPTIFY_S3_BASE_ENDPOINT"
)

// parseEnv overlays values from PROMPTIFY_* variables. Malformed numeric or
// duration values panic, like malformed flags.
func parseEnv(config *Config) {
	env := flagx.NewEnv(EnvPrefix)
	env.String(EnvGRPCAddr, &config.EndpointAddrGRPC)
	env.String(EnvMetricsAddr, &config.MetricsAddr)
	env.String(EnvDatabaseDSN, &config.DatabaseDSN)
	env.String(EnvIdentitySecret, &config.IdentitySecret)
	if err := env.Int(EnvStartingCoins, &config.StartingCoins); err != nil {
		panic(err)
	}
	env.String(EnvLogBackend, &config.LogBackend)
	if err := env.Duration(EnvImageURLTTL, &config.ImageURLValidityDuration); err != nil {
		panic(err)
	}
	env.String(EnvS3RootUser, &config.S3RootUser)
	env.String(EnvS3RootPassword, &config.S3RootPassword)
	env.String(EnvS3Bucket, &config.S3Bucket)
	env.String(EnvS3Region, &config.S3Region)
	env.String(EnvS3BaseEndpoint, &config.S3BaseEndpoint)
}
