package config

import (
	"os"
	"path/filepath"
)

const (
	appNameVar      = "APP_NAME"
	apiBaseURLVar   = "PSYSTOCK_API_URL"
	httpTimeoutVar  = "PSYSTOCK_HTTP_TIMEOUT"
	credentialsVar  = "PSYSTOCK_CREDENTIALS"
	logLevelVar     = "PSYSTOCK_LOG_LEVEL"
	environmentVar  = "PSYSTOCK_ENV"
	defaultBaseURL  = "http://localhost:8000"
	defaultTimeout  = "30s"
	defaultLogLevel = "info"
)

type EnvVars struct{}

var _ EnvConfig = EnvVars{}
var _ APIConfig = EnvVars{}

func (EnvVars) GetAppName() string {
	return GetEnv(appNameVar, "Psystock")
}

func (EnvVars) GetEnv() string {
	return GetEnv(environmentVar, "development")
}

func (EnvVars) GetAPIBaseURL() string {
	return GetEnv(apiBaseURLVar, defaultBaseURL)
}

// GetHTTPTimeout returns the request timeout as a duration string (e.g. "30s").
func (EnvVars) GetHTTPTimeout() string {
	return GetEnv(httpTimeoutVar, defaultTimeout)
}

// GetCredentialsPath returns the path of the local credentials database.
func (EnvVars) GetCredentialsPath() string {
	if path := os.Getenv(credentialsVar); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".psystock/credentials.db"
	}
	return filepath.Join(home, ".psystock", "credentials.db")
}

func (EnvVars) GetLogLevel() string {
	return GetEnv(logLevelVar, defaultLogLevel)
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}
