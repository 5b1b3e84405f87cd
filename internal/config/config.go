package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	configPathEnv = "QUIZSOLVER_CONFIG"
	emailEnv      = "EMAIL"
	secretEnv     = "SECRET"
	groqAPIKeyEnv = "GROQ_API_KEY"
	groqModelEnv  = "GROQ_MODEL"
	hostEnv       = "HOST"
	portEnv       = "PORT"
	dbPathEnv     = "DB_PATH"
	logLevelEnv   = "LOG_LEVEL"
)

// Config holds high-level settings required across the application.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Quiz     QuizConfig     `yaml:"quiz"`
	LLM      LLMConfig      `yaml:"llm"`
	Database DatabaseConfig `yaml:"database"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ServerConfig describes the inbound HTTP listener.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Addr renders the listen address for net/http.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// QuizConfig carries the account identity and loop budgets.
type QuizConfig struct {
	Email          string `yaml:"email"`
	Secret         string `yaml:"secret"`
	TimeoutSeconds int    `yaml:"timeoutSeconds"`
	MaxRetries     int    `yaml:"maxRetries"`
}

// Timeout resolves the per-quiz wall-clock budget.
func (q QuizConfig) Timeout() time.Duration {
	return time.Duration(q.TimeoutSeconds) * time.Second
}

// LLMConfig defines how to contact the Groq-compatible completion API.
type LLMConfig struct {
	Endpoint string   `yaml:"endpoint"`
	APIKey   string   `yaml:"apiKey"`
	Models   []string `yaml:"models"`
}

// DatabaseConfig describes the result store location.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// LoggingConfig selects the log verbosity.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Load reads the optional .env file, YAML configuration (if present),
// applies environment overrides and validates required secrets.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("config: no .env file loaded: %v", err)
	}

	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that the account identity and LLM credential are set.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Quiz.Email) == "" {
		return fmt.Errorf("EMAIL is required")
	}
	if strings.TrimSpace(c.Quiz.Secret) == "" {
		return fmt.Errorf("SECRET is required")
	}
	if strings.TrimSpace(c.LLM.APIKey) == "" {
		return fmt.Errorf("GROQ_API_KEY is required")
	}
	if c.Quiz.TimeoutSeconds <= 0 {
		return fmt.Errorf("quiz timeout must be positive")
	}
	if c.Quiz.MaxRetries <= 0 {
		return fmt.Errorf("quiz maxRetries must be positive")
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(emailEnv); v != "" {
		c.Quiz.Email = strings.Trim(v, `"'`)
	}
	if v := os.Getenv(secretEnv); v != "" {
		c.Quiz.Secret = strings.Trim(v, `"'`)
	}
	if v := os.Getenv(groqAPIKeyEnv); v != "" {
		c.LLM.APIKey = strings.Trim(v, `"'`)
	}
	if v := os.Getenv(groqModelEnv); v != "" {
		c.LLM.Models = append([]string{v}, c.LLM.Models...)
	}
	if v := os.Getenv(hostEnv); v != "" {
		c.Server.Host = v
	}
	if v := os.Getenv(portEnv); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		}
	}
	if v := os.Getenv(dbPathEnv); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}
}

func mergeConfig(base, override Config) Config {
	if override.Server.Host != "" {
		base.Server.Host = override.Server.Host
	}
	if override.Server.Port != 0 {
		base.Server.Port = override.Server.Port
	}

	if override.Quiz.Email != "" {
		base.Quiz.Email = override.Quiz.Email
	}
	if override.Quiz.Secret != "" {
		base.Quiz.Secret = override.Quiz.Secret
	}
	if override.Quiz.TimeoutSeconds != 0 {
		base.Quiz.TimeoutSeconds = override.Quiz.TimeoutSeconds
	}
	if override.Quiz.MaxRetries != 0 {
		base.Quiz.MaxRetries = override.Quiz.MaxRetries
	}

	if override.LLM.Endpoint != "" {
		base.LLM.Endpoint = override.LLM.Endpoint
	}
	if override.LLM.APIKey != "" {
		base.LLM.APIKey = override.LLM.APIKey
	}
	if len(override.LLM.Models) > 0 {
		base.LLM.Models = override.LLM.Models
	}

	if override.Database.Path != "" {
		base.Database.Path = override.Database.Path
	}
	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Server: ServerConfig{Host: "0.0.0.0", Port: 8000},
		Quiz: QuizConfig{
			TimeoutSeconds: 180,
			MaxRetries:     5,
		},
		LLM: LLMConfig{
			Endpoint: "https://api.groq.com/openai/v1/chat/completions",
			Models: []string{
				"llama-3.1-8b-instant",
				"llama-3.1-70b-versatile",
				"mixtral-8x7b-32768",
				"gemma2-9b-it",
			},
		},
		Database: DatabaseConfig{Path: "./data/quizsolver.db"},
		Logging:  LoggingConfig{Level: "info"},
	}
}
