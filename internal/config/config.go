package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	go_ora "github.com/sijms/go-ora/v2"
	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Server    ServerConfig
	DB        DBConfig
	Redis     RedisConfig
	Logger    LoggerConfig
	JWT       JWTConfig
	Gemini    GeminiConfig
	Ollama    OllamaConfig
	LLM       LLMConfig
	Retry     RetryConfig
	Quota     QuotaConfig
	RateLimit RateLimitConfig
	CORS      CORSConfig
	Cache     CacheConfig
}

type AppConfig struct {
	Name string
	Env  string
}

// IsProduction reports whether error details must be hidden from clients.
func (a AppConfig) IsProduction() bool {
	return a.Env == "production"
}

type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	BodyLimit    int
}

type DBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type LoggerConfig struct {
	Level string
	Env   string
}

type JWTConfig struct {
	SecretKey string
	Expiry    time.Duration
}

type GeminiConfig struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

type OllamaConfig struct {
	ServerURL string
	Model     string
	Timeout   time.Duration
}

// LLMConfig selects which model client backs the AI pipeline ("gemini" or "ollama").
type LLMConfig struct {
	Provider string
}

type RetryConfig struct {
	MaxRetries        int
	InitialDelay      time.Duration
	MaxDelay          time.Duration
	Jitter            float64
	DefaultRetryAfter time.Duration
}

type QuotaConfig struct {
	TTL     time.Duration
	Backend string
}

type RateLimitConfig struct {
	Max    int
	Window time.Duration
}

type CORSConfig struct {
	AllowOrigins string
}

type CacheConfig struct {
	ExplanationTTL time.Duration
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "prepmate")
	v.SetDefault("app.env", "development")

	v.SetDefault("server.port", 8000)
	v.SetDefault("server.read_timeout", "60s")
	v.SetDefault("server.write_timeout", "60s")
	v.SetDefault("server.idle_timeout", "60s")
	v.SetDefault("server.body_limit", 10*1024*1024)

	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 1521)
	v.SetDefault("db.user", "prepmate")
	v.SetDefault("db.password", "")
	v.SetDefault("db.name", "FREEPDB1")

	v.SetDefault("redis.address", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("logger.level", "info")

	v.SetDefault("jwt.secret_key", "")
	v.SetDefault("jwt.expiry", "168h")

	v.SetDefault("gemini.api_key", "")
	v.SetDefault("gemini.model", "gemini-1.5-flash-latest")
	v.SetDefault("gemini.base_url", "https://generativelanguage.googleapis.com")
	v.SetDefault("gemini.timeout", "30s")

	v.SetDefault("ollama.server_url", "http://localhost:11434")
	v.SetDefault("ollama.model", "qwen3:0.6b")
	v.SetDefault("ollama.timeout", "30s")

	v.SetDefault("llm.provider", "gemini")

	v.SetDefault("retry.max_retries", 2)
	v.SetDefault("retry.initial_delay", "3s")
	v.SetDefault("retry.max_delay", "30s")
	v.SetDefault("retry.jitter", 0.5)
	v.SetDefault("retry.default_retry_after", "5s")

	v.SetDefault("quota.ttl", "1h")
	v.SetDefault("quota.backend", "memory")

	v.SetDefault("rate_limit.max", 100)
	v.SetDefault("rate_limit.window", "15m")

	v.SetDefault("cors.allow_origins", "http://localhost:5173,http://localhost:3000")

	v.SetDefault("cache.explanation_ttl", "1h")
}

func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if os.Getenv("ENV") == "test" {
		v.AddConfigPath("../../config")
		v.AddConfigPath("../../")
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	setDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if configFile := v.ConfigFileUsed(); configFile != "" {
		absPath, _ := filepath.Abs(configFile)
		fmt.Printf("Using config file: %s\n", absPath)
	}

	config := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
		},
		Server: ServerConfig{
			Port:         v.GetInt("server.port"),
			ReadTimeout:  v.GetDuration("server.read_timeout"),
			WriteTimeout: v.GetDuration("server.write_timeout"),
			IdleTimeout:  v.GetDuration("server.idle_timeout"),
			BodyLimit:    v.GetInt("server.body_limit"),
		},
		DB: DBConfig{
			Host:     v.GetString("db.host"),
			Port:     v.GetInt("db.port"),
			User:     v.GetString("db.user"),
			Password: v.GetString("db.password"),
			DBName:   v.GetString("db.name"),
		},
		Redis: RedisConfig{
			Address:  v.GetString("redis.address"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Logger: LoggerConfig{
			Level: v.GetString("logger.level"),
		},
		JWT: JWTConfig{
			SecretKey: v.GetString("jwt.secret_key"),
			Expiry:    v.GetDuration("jwt.expiry"),
		},
		Gemini: GeminiConfig{
			APIKey:  v.GetString("gemini.api_key"),
			Model:   v.GetString("gemini.model"),
			BaseURL: v.GetString("gemini.base_url"),
			Timeout: v.GetDuration("gemini.timeout"),
		},
		Ollama: OllamaConfig{
			ServerURL: v.GetString("ollama.server_url"),
			Model:     v.GetString("ollama.model"),
			Timeout:   v.GetDuration("ollama.timeout"),
		},
		LLM: LLMConfig{
			Provider: v.GetString("llm.provider"),
		},
		Retry: RetryConfig{
			MaxRetries:        v.GetInt("retry.max_retries"),
			InitialDelay:      v.GetDuration("retry.initial_delay"),
			MaxDelay:          v.GetDuration("retry.max_delay"),
			Jitter:            v.GetFloat64("retry.jitter"),
			DefaultRetryAfter: v.GetDuration("retry.default_retry_after"),
		},
		Quota: QuotaConfig{
			TTL:     v.GetDuration("quota.ttl"),
			Backend: v.GetString("quota.backend"),
		},
		RateLimit: RateLimitConfig{
			Max:    v.GetInt("rate_limit.max"),
			Window: v.GetDuration("rate_limit.window"),
		},
		CORS: CORSConfig{
			AllowOrigins: v.GetString("cors.allow_origins"),
		},
		Cache: CacheConfig{
			ExplanationTTL: v.GetDuration("cache.explanation_ttl"),
		},
	}

	// Override with the conventional environment variable names
	if env := os.Getenv("APP_ENV"); env != "" {
		config.App.Env = env
	}
	if host := os.Getenv("DB_HOST"); host != "" {
		config.DB.Host = host
	}
	if port := os.Getenv("DB_PORT"); port != "" {
		config.DB.Port = v.GetInt("db.port")
	}
	if user := os.Getenv("DB_USER"); user != "" {
		config.DB.User = user
	}
	if password := os.Getenv("DB_PASSWORD"); password != "" {
		config.DB.Password = password
	}
	if dbname := os.Getenv("DB_NAME"); dbname != "" {
		config.DB.DBName = dbname
	}
	if port := os.Getenv("SERVER_PORT"); port != "" {
		config.Server.Port = v.GetInt("server.port")
	}
	if redisAddress := os.Getenv("REDIS_ADDRESS"); redisAddress != "" {
		config.Redis.Address = redisAddress
	}
	if redisPassword := os.Getenv("REDIS_PASSWORD"); redisPassword != "" {
		config.Redis.Password = redisPassword
	}
	if apiKey := os.Getenv("GEMINI_API_KEY"); apiKey != "" {
		config.Gemini.APIKey = apiKey
	}
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		config.JWT.SecretKey = secret
	}
	if provider := os.Getenv("LLM_PROVIDER"); provider != "" {
		config.LLM.Provider = provider
	}
	config.Logger.Env = config.App.Env

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate rejects combinations the server cannot start with.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.App.IsProduction() && c.JWT.SecretKey == "" {
		return errors.New("jwt secret is required in production")
	}
	switch c.LLM.Provider {
	case "gemini", "ollama":
	default:
		return fmt.Errorf("unsupported llm provider: %q", c.LLM.Provider)
	}
	switch c.Quota.Backend {
	case "memory", "redis":
	default:
		return fmt.Errorf("unsupported quota backend: %q", c.Quota.Backend)
	}
	if c.Retry.MaxRetries < 0 {
		return fmt.Errorf("retry.max_retries must not be negative: %d", c.Retry.MaxRetries)
	}
	return nil
}

// GetDSN builds the go-ora connection URL.
func (c *Config) GetDSN() string {
	return go_ora.BuildUrl(c.DB.Host, c.DB.Port, c.DB.DBName, c.DB.User, c.DB.Password, nil)
}
