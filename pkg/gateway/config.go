// Copyright (C) 2025 Storj Labs, Inc.
// See LICENSE for copying information.

package gateway

import (
	"os"
	"strings"

	"github.com/zeebo/errs"
)

// Error is a class of gateway errors.
var Error = errs.Class("gateway")

// Config configures the object upload gateway peer.
type Config struct {
	// Address to serve MCP requests on.
	Address string

	// Endpoint, AccessKey, SecretKey and Secure configure the connection to
	// the object store.
	Endpoint  string
	AccessKey string
	SecretKey string
	Secure    bool

	// Bucket is the bucket all uploads land in.
	Bucket string

	// PublicBaseURL is the base of derived public URLs, without a trailing
	// slash.
	PublicBaseURL string
}

// LoadConfig reads the gateway configuration from the environment. The
// store endpoint, credentials and public base URL are required; everything
// else has defaults.
func LoadConfig() (Config, error) {
	config := Config{
		Address: getEnv("ADDRESS", ":8050"),
		Bucket:  getEnv("MINIO_BUCKET", "images"),
		Secure:  getEnv("MINIO_SECURE", "false") == "true",
	}

	var missing []string
	for _, required := range []struct {
		name string
		dst  *string
	}{
		{"MINIO_ENDPOINT", &config.Endpoint},
		{"MINIO_ACCESS_KEY", &config.AccessKey},
		{"MINIO_SECRET_KEY", &config.SecretKey},
		{"PUBLIC_BASE_URL", &config.PublicBaseURL},
	} {
		value := os.Getenv(required.name)
		if value == "" {
			missing = append(missing, required.name)
			continue
		}
		*required.dst = value
	}
	if len(missing) > 0 {
		return Config{}, Error.New("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	config.PublicBaseURL = strings.TrimRight(config.PublicBaseURL, "/")

	return config, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
