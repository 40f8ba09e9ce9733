package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `json:"server"`
	Database DatabaseConfig `json:"database"`
	Oracle   OracleConfig   `json:"oracle"`
	Memory   MemoryConfig   `json:"memory"`
	Auth     AuthConfig     `json:"auth"`
}

type ServerConfig struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

type DatabaseConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	Database string `json:"database"`
	SSLMode  string `json:"sslmode"`
}

// OracleConfig configures the summarization backend.
type OracleConfig struct {
	Type    string `json:"type"` // "openai" or "stub"
	APIKey  string `json:"api_key,omitempty"`
	BaseURL string `json:"base_url,omitempty"`
	Model   string `json:"model"`
}

// MemoryConfig holds the conversation-memory tuning knobs. Both values are
// explicit configuration rather than package constants so tests can override
// them without touching global state.
type MemoryConfig struct {
	// SummaryThreshold is the minimum number of unsummarized messages that
	// triggers an incremental summary. It is a trigger floor, not a batch cap.
	SummaryThreshold int `json:"summary_threshold"`
	// RecentMessages caps how many unsummarized messages the context
	// assembler includes verbatim.
	RecentMessages int `json:"recent_messages"`
}

type AuthConfig struct {
	// ServiceSecret signs service-to-service bearer tokens. Empty disables
	// authentication (development mode).
	ServiceSecret string `json:"service_secret,omitempty"`
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("json")

	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	homeDir, err := os.UserHomeDir()
	if err == nil {
		viper.AddConfigPath(filepath.Join(homeDir, ".accordia"))
	}

	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.host", "localhost")
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.user", "accordia")
	viper.SetDefault("database.database", "accordia")
	viper.SetDefault("database.sslmode", "disable")
	viper.SetDefault("oracle.type", "openai")
	viper.SetDefault("oracle.model", "gpt-4o-mini")
	viper.SetDefault("memory.summary_threshold", 10)
	viper.SetDefault("memory.recent_messages", 10)

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			cfg := defaultConfig()
			loadEnvOverrides(cfg)
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	loadEnvOverrides(&cfg)

	return &cfg, nil
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "localhost",
			Port: 8080,
		},
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "accordia",
			Password: "",
			Database: "accordia",
			SSLMode:  "disable",
		},
		Oracle: OracleConfig{
			Type:  "openai",
			Model: "gpt-4o-mini",
		},
		Memory: DefaultMemoryConfig(),
	}
}

// DefaultMemoryConfig returns the documented defaults for the memory knobs.
func DefaultMemoryConfig() MemoryConfig {
	return MemoryConfig{
		SummaryThreshold: 10,
		RecentMessages:   10,
	}
}

func loadEnvOverrides(cfg *Config) {
	if port := os.Getenv("ACCORDIA_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.Server.Port = p
		}
	}
	if host := os.Getenv("ACCORDIA_HOST"); host != "" {
		cfg.Server.Host = host
	}

	if dbHost := os.Getenv("POSTGRES_HOST"); dbHost != "" {
		cfg.Database.Host = dbHost
	}
	if dbPort := os.Getenv("POSTGRES_PORT"); dbPort != "" {
		if port, err := strconv.Atoi(dbPort); err == nil {
			cfg.Database.Port = port
		}
	}
	if dbUser := os.Getenv("POSTGRES_USER"); dbUser != "" {
		cfg.Database.User = dbUser
	}
	if dbPass := os.Getenv("POSTGRES_PASSWORD"); dbPass != "" {
		cfg.Database.Password = dbPass
	}
	if dbName := os.Getenv("POSTGRES_DB"); dbName != "" {
		cfg.Database.Database = dbName
	}

	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		cfg.Oracle.APIKey = key
	}
	if secret := os.Getenv("ACCORDIA_SERVICE_SECRET"); secret != "" {
		cfg.Auth.ServiceSecret = secret
	}
}
