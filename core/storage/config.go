package storage

// Config holds configuration for the media blob store.
type Config struct {
	// Endpoint is the URL of the storage service.
	Endpoint string `mapstructure:"endpoint" default:"localhost:9000"`
	// AccessKey is the access key ID for authentication.
	AccessKey string `mapstructure:"access_key" default:"minioadmin"`
	// SecretKey is the secret access key for authentication.
	SecretKey string `mapstructure:"secret_key" default:"minioadmin"`
	// UseSSL indicates whether to use SSL/TLS for connections.
	UseSSL bool `mapstructure:"use_ssl" default:"false"`
	// Bucket is the name of the bucket to store media in.
	Bucket string `mapstructure:"bucket" default:"media"`
	// Region is the location of the bucket (e.g., us-east-1).
	Region string `mapstructure:"region" default:""`
	// TimeoutSeconds is the connection timeout in seconds.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
	// MediaPrefix is the object key prefix for uploaded record media.
	MediaPrefix string `mapstructure:"media_prefix" default:"qr"`
	// PublicURL, when set, is used to build permanent media URLs
	// (PublicURL/bucket/key) instead of presigned ones.
	PublicURL string `mapstructure:"public_url" default:""`
	// PresignExpiryHours is the validity of presigned media URLs.
	PresignExpiryHours int `mapstructure:"presign_expiry_hours" default:"168"`
}
