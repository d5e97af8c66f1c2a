package config

// Config represents the main toolhost configuration
type Config struct {
	// Server configuration
	Server ServerConfig `json:"server" mapstructure:"server"`

	// Fetch tool configuration
	Fetch FetchConfig `json:"fetch" mapstructure:"fetch"`

	// Logging configuration
	Logging LoggingConfig `json:"logging" mapstructure:"logging"`

	// Data directory
	DataDir string `json:"data_dir" mapstructure:"data_dir"`
}

// ServerConfig holds server identity and gateway settings
type ServerConfig struct {
	Name    string `json:"name" mapstructure:"name"`
	Version string `json:"version" mapstructure:"version"`
	Listen  string `json:"listen" mapstructure:"listen"` // host:port for the WebSocket gateway, empty = stdio only
}

// FetchConfig holds fetch tool settings
type FetchConfig struct {
	TimeoutSeconds int `json:"timeout_seconds" mapstructure:"timeout_seconds"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level   string `json:"level" mapstructure:"level"`
	File    string `json:"file" mapstructure:"file"`
	Console bool   `json:"console" mapstructure:"console"`
	Pretty  bool   `json:"pretty" mapstructure:"pretty"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Name:    "toolhost",
			Version: "0.1.0",
		},
		Fetch: FetchConfig{
			TimeoutSeconds: 30,
		},
		Logging: LoggingConfig{
			Level:   "info",
			Console: true,
		},
	}
}
