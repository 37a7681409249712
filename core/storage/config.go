package storage

// Backend kinds supported by the uploader.
const (
	BackendLocal = "local"
	BackendS3    = "s3"
)

// Config holds configuration for the storage provider.
type Config struct {
	// Backend selects the uploader implementation (local, s3).
	Backend string `mapstructure:"backend" default:"local"`
	// Endpoint is the URL of the object storage service.
	Endpoint string `mapstructure:"endpoint" default:"localhost:9000"`
	// AccessKey is the access key ID for authentication.
	AccessKey string `mapstructure:"access_key" default:"minioadmin"`
	// SecretKey is the secret access key for authentication.
	SecretKey string `mapstructure:"secret_key" default:"minioadmin"`
	// UseSSL indicates whether to use SSL/TLS for connections.
	UseSSL bool `mapstructure:"use_ssl" default:"false"`
	// Bucket is the name of the bucket uploads are stored in.
	Bucket string `mapstructure:"bucket" default:"uploads"`
	// Region is the location of the bucket (e.g., us-east-1).
	Region string `mapstructure:"region" default:""`
	// LocalRoot is the uploads directory for the local backend.
	LocalRoot string `mapstructure:"local_root" default:"./uploads"`
	// BaseURL is the public URL prefix for local uploads.
	BaseURL string `mapstructure:"base_url" default:"http://localhost:8080/uploads"`
	// TimeoutSeconds is the connection timeout in seconds.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}

// IsValidBackend checks if the configured backend is supported.
func (c Config) IsValidBackend() bool {
	switch c.Backend {
	case BackendLocal, BackendS3:
		return true
	default:
		return false
	}
}
