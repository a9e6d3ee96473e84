package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/promptify/internal/flagx"
	"github.com/dmitrijs2005/promptify/internal/timex"
)

// JsonConfig is the on-disk shape of the server configuration. Durations
// accept either "15m" style strings or integer nanoseconds. Zero values leave
// the corresponding Config field untouched.
type JsonConfig struct {
	EndpointAddrGRPC         string         `json:"endpoint_addr_grpc"`
	MetricsAddr              string         `json:"metrics_addr"`
	DatabaseDSN              string         `json:"database_dsn"`
	IdentitySecret           string         `json:"identity_secret"`
	StartingCoins            int            `json:"starting_coins"`
	LogBackend               string         `json:"log_backend"`
	ImageURLValidityDuration timex.Duration `json:"image_url_validity_duration"`
	S3RootUser               string         `json:"s3_root_user"`
	S3RootPassword           string         `json:"s3_root_password"`
	S3Bucket                 string         `json:"s3_bucket"`
	S3Region                 string         `json:"s3_region"`
	S3BaseEndpoint           string         `json:"s3_base_endpoint"`
}

// parseJson overlays values from the file named by -c/-config. Without the
// flag nothing is loaded. An unreadable or malformed file panics.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.MetricsAddr, c.MetricsAddr)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.IdentitySecret, c.IdentitySecret)
	if c.StartingCoins > 0 {
		config.StartingCoins = c.StartingCoins
	}
	setString(&config.LogBackend, c.LogBackend)
	if c.ImageURLValidityDuration.Duration > 0 {
		config.ImageURLValidityDuration = c.ImageURLValidityDuration.Duration
	}
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
