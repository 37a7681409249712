package server

// Config holds configuration for the HTTP server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// ApiKey is the secret key required to access the API.
	ApiKey string `mapstructure:"api_key" default:""`
	// Host is the externally visible host name, used when building
	// access URLs for uploaded files.
	Host string `mapstructure:"host" default:"localhost:8080"`
	// Private enables private-instance mode: task-run submissions that
	// carry file references have their whole payload wrapped into a
	// single uploaded answer blob.
	Private bool `mapstructure:"private" default:"false"`
}
