package config

// Config is the composed configuration surface consumed by the portal.
type Config interface {
	EnvConfig
	APIConfig
}

// EnvConfig covers process-level settings.
type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetEnv() string
	GetSessionFile() string
}

// APIConfig locates the remote MediLink API.
type APIConfig interface {
	// GetAPIBaseURL is the base endpoint relative resource paths resolve
	// against.
	GetAPIBaseURL() string
	// GetAuthBaseURL is the base for the login and refresh endpoints.
	// Defaults to the API base.
	GetAuthBaseURL() string
}
