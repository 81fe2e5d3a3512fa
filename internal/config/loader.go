// Package config loads portal configuration from a YAML file and
// MEDILINK_-prefixed environment variables.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const envPrefix = "MEDILINK"

// Settings is the concrete configuration shape. Fields are populated from
// medilink.yaml and may be overridden via environment variables, e.g.
// MEDILINK_API_BASE_URL.
type Settings struct {
	Port        string `mapstructure:"port" validate:"required"`
	AppName     string `mapstructure:"app_name" validate:"required"`
	Env         string `mapstructure:"env" validate:"required,oneof=DEV PROD"`
	SessionFile string `mapstructure:"session_file" validate:"required"`

	API APISettings `mapstructure:"api"`
}

// APISettings locates the remote MediLink API endpoints.
type APISettings struct {
	BaseURL     string `mapstructure:"base_url" validate:"required,url"`
	AuthBaseURL string `mapstructure:"auth_base_url" validate:"omitempty,url"`
}

var _ Config = Settings{}

// InitViper initializes viper with the configuration file and environment
// variables. When configFile is empty, medilink.yaml/.yml is searched in the
// working directory, $HOME/.medilink, and /etc/medilink.
func InitViper(configFile string) {
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else if found := findConfigFile(); found != "" {
		viper.SetConfigFile(found)
	} else {
		viper.SetConfigName("medilink")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	_ = viper.BindEnv("port")
	_ = viper.BindEnv("app_name")
	_ = viper.BindEnv("env")
	_ = viper.BindEnv("session_file")
	_ = viper.BindEnv("api.base_url")
	_ = viper.BindEnv("api.auth_base_url")
}

// New reads, defaults, and validates the configuration. A missing config
// file is fine as long as the required values arrive via environment
// variables or defaults.
func New() (Settings, error) {
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(errors.Cause(err)) {
			return Settings{}, errors.Wrap(err, "[config.New] read config file")
		}
	}

	applyDefaults()

	var settings Settings
	if err := viper.Unmarshal(&settings); err != nil {
		return Settings{}, errors.Wrap(err, "[config.New] unmarshal config")
	}

	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(settings); err != nil {
		return Settings{}, errors.Wrap(err, "[config.New] invalid configuration")
	}
	return settings, nil
}

func applyDefaults() {
	viper.SetDefault("port", "8080")
	viper.SetDefault("app_name", "MediLink Portal")
	viper.SetDefault("env", "DEV")
	viper.SetDefault("session_file", defaultSessionFile())
	viper.SetDefault("api.base_url", "https://localhost:7179")
}

func defaultSessionFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".medilink", "session.json")
	}
	return filepath.Join(home, ".medilink", "session.json")
}

func findConfigFile() string {
	home, _ := os.UserHomeDir()
	paths := []string{"."}
	if home != "" {
		paths = append(paths, filepath.Join(home, ".medilink"))
	}
	paths = append(paths, "/etc/medilink")

	for _, dir := range paths {
		for _, ext := range []string{".yaml", ".yml"} {
			path := filepath.Join(dir, "medilink"+ext)
			if _, err := os.Stat(path); err == nil {
				return path
			}
		}
	}
	return ""
}

// GetPort returns the listen port, always with a leading colon.
func (s Settings) GetPort() string {
	if strings.HasPrefix(s.Port, ":") {
		return s.Port
	}
	return ":" + s.Port
}

func (s Settings) GetAppName() string { return s.AppName }

func (s Settings) GetEnv() string { return s.Env }

func (s Settings) GetSessionFile() string { return s.SessionFile }

func (s Settings) GetAPIBaseURL() string { return s.API.BaseURL }

// GetAuthBaseURL falls back to the API base when no dedicated auth endpoint
// is configured.
func (s Settings) GetAuthBaseURL() string {
	if s.API.AuthBaseURL != "" {
		return s.API.AuthBaseURL
	}
	return s.API.BaseURL
}
