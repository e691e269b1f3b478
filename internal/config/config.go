package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/melvsalonga/affiliate-hub-sub000/pkg/database"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config is the application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  database.Config `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	Extractor ExtractorConfig `yaml:"extractor"`
	Health    HealthConfig    `yaml:"health"`
	Shortener ShortenerConfig `yaml:"shortener"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port        int    `yaml:"port"`
	Mode        string `yaml:"mode"` // debug/release
	CORSOrigins string `yaml:"cors_origins"`
	BaseURL     string `yaml:"base_url"` // public base for shortened links
}

// ExtractorConfig holds product extraction settings
type ExtractorConfig struct {
	Timeout int `yaml:"timeout"` // fetch timeout in seconds
}

// HealthConfig holds link health sweep settings
type HealthConfig struct {
	Timeout          int    `yaml:"timeout"`            // per-link timeout in seconds
	Concurrency      int    `yaml:"concurrency"`        // checks in flight per page
	PageSize         int    `yaml:"page_size"`          // links fetched per page
	InterPageDelayMs int    `yaml:"inter_page_delay_ms"`
	SweepCron        string `yaml:"sweep_cron"` // cron spec for the periodic sweep
}

// ShortenerConfig holds short-code generation settings
type ShortenerConfig struct {
	CodeLength  int `yaml:"code_length"`
	MaxAttempts int `yaml:"max_attempts"`
}

// RedisConfig holds Redis settings
type RedisConfig struct {
	Enabled    bool   `yaml:"enabled" json:"enabled"`
	Host       string `yaml:"host" json:"host"`
	Port       int    `yaml:"port" json:"port"`
	Username   string `yaml:"username" json:"username"` // Redis 6.0+ ACL, empty means password only
	Password   string `yaml:"password" json:"password"`
	ValidTTL   int    `yaml:"valid_ttl" json:"valid_ttl"`     // valid-link cache expiry in hours
	InvalidTTL int    `yaml:"invalid_ttl" json:"invalid_ttl"` // invalid-link cache expiry in hours
}

var AppConfig *Config

// Load reads the yaml config file, then applies environment variable
// overrides, then fills any remaining gaps with defaults.
func Load(configPath string) error {
	setDefaults()

	if _, err := os.Stat(configPath); err == nil {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return fmt.Errorf("failed to read config file: %w", err)
		}

		AppConfig = &Config{}
		err = yaml.Unmarshal(data, AppConfig)
		if err != nil {
			return fmt.Errorf("failed to parse config file: %w", err)
		}
	} else {
		AppConfig = &Config{}
	}

	// environment variables override file values
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if port := viper.GetInt("SERVER_PORT"); port > 0 {
		AppConfig.Server.Port = port
	}
	if mode := viper.GetString("SERVER_MODE"); mode != "" {
		AppConfig.Server.Mode = mode
	}
	if corsOrigins := viper.GetString("SERVER_CORS_ORIGINS"); corsOrigins != "" {
		AppConfig.Server.CORSOrigins = corsOrigins
	}
	if baseURL := viper.GetString("SERVER_BASE_URL"); baseURL != "" {
		AppConfig.Server.BaseURL = baseURL
	}

	if dbType := viper.GetString("DATABASE_TYPE"); dbType != "" {
		AppConfig.Database.Type = dbType
	}
	if dbHost := viper.GetString("DATABASE_HOST"); dbHost != "" {
		AppConfig.Database.Host = dbHost
	}
	if dbPort := viper.GetInt("DATABASE_PORT"); dbPort > 0 {
		AppConfig.Database.Port = dbPort
	}
	if dbUser := viper.GetString("DATABASE_USER"); dbUser != "" {
		AppConfig.Database.User = dbUser
	}
	if dbPassword := viper.GetString("DATABASE_PASSWORD"); dbPassword != "" {
		AppConfig.Database.Password = dbPassword
	}
	if dbDatabase := viper.GetString("DATABASE_DATABASE"); dbDatabase != "" {
		AppConfig.Database.Database = dbDatabase
	}
	if dbCharset := viper.GetString("DATABASE_CHARSET"); dbCharset != "" {
		AppConfig.Database.Charset = dbCharset
	}

	if enabled := viper.GetBool("REDIS_ENABLED"); enabled {
		AppConfig.Redis.Enabled = enabled
	}
	if redisHost := viper.GetString("REDIS_HOST"); redisHost != "" {
		AppConfig.Redis.Host = redisHost
	}
	if redisPort := viper.GetInt("REDIS_PORT"); redisPort > 0 {
		AppConfig.Redis.Port = redisPort
	}
	if redisUsername := viper.GetString("REDIS_USERNAME"); redisUsername != "" {
		AppConfig.Redis.Username = redisUsername
	}
	if redisPassword := viper.GetString("REDIS_PASSWORD"); redisPassword != "" {
		AppConfig.Redis.Password = redisPassword
	}
	if validTTL := viper.GetInt("REDIS_VALID_TTL"); validTTL > 0 {
		AppConfig.Redis.ValidTTL = validTTL
	}
	if invalidTTL := viper.GetInt("REDIS_INVALID_TTL"); invalidTTL > 0 {
		AppConfig.Redis.InvalidTTL = invalidTTL
	}

	if timeout := viper.GetInt("EXTRACTOR_TIMEOUT"); timeout > 0 {
		AppConfig.Extractor.Timeout = timeout
	}

	if timeout := viper.GetInt("HEALTH_TIMEOUT"); timeout > 0 {
		AppConfig.Health.Timeout = timeout
	}
	if concurrency := viper.GetInt("HEALTH_CONCURRENCY"); concurrency > 0 {
		AppConfig.Health.Concurrency = concurrency
	}
	if pageSize := viper.GetInt("HEALTH_PAGE_SIZE"); pageSize > 0 {
		AppConfig.Health.PageSize = pageSize
	}
	if sweepCron := viper.GetString("HEALTH_SWEEP_CRON"); sweepCron != "" {
		AppConfig.Health.SweepCron = sweepCron
	}

	if codeLength := viper.GetInt("SHORTENER_CODE_LENGTH"); codeLength > 0 {
		AppConfig.Shortener.CodeLength = codeLength
	}
	if maxAttempts := viper.GetInt("SHORTENER_MAX_ATTEMPTS"); maxAttempts > 0 {
		AppConfig.Shortener.MaxAttempts = maxAttempts
	}

	// fill remaining defaults
	if AppConfig.Server.Port == 0 {
		AppConfig.Server.Port = 8080
	}
	if AppConfig.Server.Mode == "" {
		AppConfig.Server.Mode = "debug"
	}
	if AppConfig.Server.CORSOrigins == "" {
		AppConfig.Server.CORSOrigins = "*"
	}
	if AppConfig.Server.BaseURL == "" {
		AppConfig.Server.BaseURL = fmt.Sprintf("http://localhost:%d", AppConfig.Server.Port)
	}
	if AppConfig.Redis.Host == "" {
		AppConfig.Redis.Host = "localhost"
	}
	if AppConfig.Redis.Port == 0 {
		AppConfig.Redis.Port = 6379
	}
	if AppConfig.Redis.ValidTTL == 0 {
		AppConfig.Redis.ValidTTL = 24
	}
	if AppConfig.Redis.InvalidTTL == 0 {
		AppConfig.Redis.InvalidTTL = 168 // 7 days
	}
	if AppConfig.Extractor.Timeout == 0 {
		AppConfig.Extractor.Timeout = 10
	}
	if AppConfig.Health.Timeout == 0 {
		AppConfig.Health.Timeout = 10
	}
	if AppConfig.Health.Concurrency == 0 {
		AppConfig.Health.Concurrency = 10
	}
	if AppConfig.Health.PageSize == 0 {
		AppConfig.Health.PageSize = 50
	}
	if AppConfig.Health.InterPageDelayMs == 0 {
		AppConfig.Health.InterPageDelayMs = 1000
	}
	if AppConfig.Health.SweepCron == "" {
		AppConfig.Health.SweepCron = "0 0 3 * * *" // daily at 03:00
	}
	if AppConfig.Shortener.CodeLength == 0 {
		AppConfig.Shortener.CodeLength = 8
	}
	if AppConfig.Shortener.MaxAttempts == 0 {
		AppConfig.Shortener.MaxAttempts = 10
	}

	return nil
}

func setDefaults() {
	viper.SetDefault("SERVER_PORT", 8080)
	viper.SetDefault("SERVER_MODE", "debug")
	viper.SetDefault("SERVER_CORS_ORIGINS", "*")

	viper.SetDefault("DATABASE_TYPE", "mysql")
	viper.SetDefault("DATABASE_HOST", "localhost")
	viper.SetDefault("DATABASE_PORT", 3306)
	viper.SetDefault("DATABASE_USER", "root")
	viper.SetDefault("DATABASE_PASSWORD", "")
	viper.SetDefault("DATABASE_DATABASE", "affiliatehub")
	viper.SetDefault("DATABASE_CHARSET", "utf8mb4")

	viper.SetDefault("REDIS_ENABLED", false)
	viper.SetDefault("REDIS_HOST", "localhost")
	viper.SetDefault("REDIS_PORT", 6379)
	viper.SetDefault("REDIS_USERNAME", "")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_VALID_TTL", 24)
	viper.SetDefault("REDIS_INVALID_TTL", 168)

	viper.SetDefault("EXTRACTOR_TIMEOUT", 10)

	viper.SetDefault("HEALTH_TIMEOUT", 10)
	viper.SetDefault("HEALTH_CONCURRENCY", 10)
	viper.SetDefault("HEALTH_PAGE_SIZE", 50)
	viper.SetDefault("HEALTH_SWEEP_CRON", "0 0 3 * * *")

	viper.SetDefault("SHORTENER_CODE_LENGTH", 8)
	viper.SetDefault("SHORTENER_MAX_ATTEMPTS", 10)
}
