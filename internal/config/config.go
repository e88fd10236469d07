package config

type Config interface {
	EnvConfig
	APIConfig
}

type EnvConfig interface {
	GetAppName() string
	GetEnv() string
	GetCredentialsPath() string
	GetLogLevel() string
}

type APIConfig interface {
	GetAPIBaseURL() string
	GetHTTPTimeout() string
}

type mainConfig struct {
	EnvVars
}

func New() Config {
	return mainConfig{}
}
