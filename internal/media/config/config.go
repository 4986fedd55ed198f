// Package config handles configuration for the media server: defaults,
// environment overlay, and command-line flags, applied in that order.
package config

import "time"

// Config holds runtime settings for the media server.
//
// Fields:
//   - EndpointAddr: bind address for the HTTP endpoint.
//   - S3RootUser / S3RootPassword: credentials for the S3-compatible backend.
//   - S3Bucket / S3Region / S3BaseEndpoint: object storage settings.
//   - MaxUploadBytes: upper bound on accepted payload size.
//   - UploadTimeout: per-request deadline for the store round trip.
type Config struct {
	EndpointAddr   string        `env:"MEDIA_ADDR"`
	S3RootUser     string        `env:"S3_ROOT_USER"`
	S3RootPassword string        `env:"S3_ROOT_PASSWORD"`
	S3Bucket       string        `env:"S3_BUCKET"`
	S3Region       string        `env:"S3_REGION"`
	S3BaseEndpoint string        `env:"S3_BASE_ENDPOINT"`
	MaxUploadBytes int64         `env:"MAX_UPLOAD_BYTES"`
	UploadTimeout  time.Duration `env:"UPLOAD_TIMEOUT"`
}

// LoadDefaults populates Config with development defaults.
// NOTE: These values are insecure for production and should be overridden.
func (c *Config) LoadDefaults() {
	c.EndpointAddr = ":3002"
	c.S3RootUser = "admin"
	c.S3RootPassword = "secretpassword"
	c.S3Bucket = "photos"
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = "http://127.0.0.1:9000/"
	c.MaxUploadBytes = 5 * 1024 * 1024
	c.UploadTimeout = 30 * time.Second
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from environment variables and finally from command-line flags.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	parseFlags(cfg)
	return cfg, nil
}
