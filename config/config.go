package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DefaultSecretKey is the development signing secret. Load refuses it outside debug mode.
const DefaultSecretKey = "secret_example"

// AppConfig holds environment driven configuration values.
// It is built once during boot and passed by value afterwards.
type AppConfig struct {
	AppName string
	AppPort string
	Debug   bool
	// Token signing
	SecretKey                string
	Algorithm                string
	AccessTokenExpireMinutes int
	// Store
	DatabaseURL string
	// HTTP
	AllowedOrigins []string
	GinMode        string
	GinPath        string
	// Redis for response caching; disabled when RedisHost is empty
	RedisHost     string
	RedisPort     int
	RedisDB       int
	RedisPassword string
	// Logging configuration
	LogLevel      string
	LogPath       string
	LogMaxSizeMB  int
	LogMaxBackups int
	LogMaxAgeDays int
	LogCompress   bool
}

var cfg AppConfig
var loaded bool

// Load reads configuration once. Precedence: config/config.json -> defaults -> environment.
func Load() (AppConfig, error) {
	if loaded {
		return cfg, nil
	}

	v := NewViper()
	v.SetConfigFile(filepath.Join("config", "config.json"))
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return AppConfig{}, fmt.Errorf("read config file: %w", err)
		}
	}

	c := FromViper(v)
	if err := c.Validate(); err != nil {
		return AppConfig{}, err
	}

	cfg = c
	loaded = true
	return cfg, nil
}

// NewViper returns a viper instance with defaults and environment binding applied.
func NewViper() *viper.Viper {
	v := viper.New()

	v.SetDefault("AppName", "Secure REST API")
	v.SetDefault("AppPort", "8000")
	v.SetDefault("Debug", false)
	v.SetDefault("SecretKey", DefaultSecretKey)
	v.SetDefault("Algorithm", "HS256")
	v.SetDefault("AccessTokenExpireMinutes", 30)
	v.SetDefault("DatabaseURL", "sqlite:///./secure_api.db")
	v.SetDefault("AllowedOrigins", []string{"*"})
	v.SetDefault("GinMode", "release")
	v.SetDefault("GinPath", "")
	v.SetDefault("RedisHost", "")
	v.SetDefault("RedisPort", 6379)
	v.SetDefault("RedisDB", 0)
	v.SetDefault("RedisPassword", "")
	v.SetDefault("LogLevel", "info")
	v.SetDefault("LogPath", "")
	v.SetDefault("LogMaxSizeMB", 100)
	v.SetDefault("LogMaxBackups", 3)
	v.SetDefault("LogMaxAgeDays", 7)
	v.SetDefault("LogCompress", false)

	// Environment keys are the field names in upper snake case, e.g. ACCESS_TOKEN_EXPIRE_MINUTES.
	for _, key := range v.AllKeys() {
		_ = v.BindEnv(key, envName(key))
	}

	return v
}

// FromViper builds an AppConfig from an already populated viper instance.
func FromViper(v *viper.Viper) AppConfig {
	return AppConfig{
		AppName:                  v.GetString("AppName"),
		AppPort:                  v.GetString("AppPort"),
		Debug:                    v.GetBool("Debug"),
		SecretKey:                v.GetString("SecretKey"),
		Algorithm:                strings.ToUpper(strings.TrimSpace(v.GetString("Algorithm"))),
		AccessTokenExpireMinutes: v.GetInt("AccessTokenExpireMinutes"),
		DatabaseURL:              strings.TrimSpace(v.GetString("DatabaseURL")),
		AllowedOrigins:           splitList(v.GetStringSlice("AllowedOrigins")),
		GinMode:                  v.GetString("GinMode"),
		GinPath:                  v.GetString("GinPath"),
		RedisHost:                v.GetString("RedisHost"),
		RedisPort:                v.GetInt("RedisPort"),
		RedisDB:                  v.GetInt("RedisDB"),
		RedisPassword:            v.GetString("RedisPassword"),
		LogLevel:                 strings.ToLower(v.GetString("LogLevel")),
		LogPath:                  v.GetString("LogPath"),
		LogMaxSizeMB:             v.GetInt("LogMaxSizeMB"),
		LogMaxBackups:            v.GetInt("LogMaxBackups"),
		LogMaxAgeDays:            v.GetInt("LogMaxAgeDays"),
		LogCompress:              v.GetBool("LogCompress"),
	}
}

// Validate rejects configurations that are unsafe or unusable.
func (c AppConfig) Validate() error {
	if c.SecretKey == "" {
		return errors.New("SECRET_KEY must be set")
	}
	if c.SecretKey == DefaultSecretKey && !c.Debug {
		return errors.New("SECRET_KEY still has the development default; set it or enable DEBUG")
	}
	switch c.Algorithm {
	case "HS256", "HS384", "HS512":
	default:
		return fmt.Errorf("ALGORITHM %q is not supported (use HS256, HS384 or HS512)", c.Algorithm)
	}
	if c.AccessTokenExpireMinutes <= 0 {
		return errors.New("ACCESS_TOKEN_EXPIRE_MINUTES must be positive")
	}
	if c.DatabaseURL == "" {
		return errors.New("DATABASE_URL must be set")
	}
	return nil
}

// TokenTTL is the lifetime given to issued access tokens.
func (c AppConfig) TokenTTL() time.Duration {
	return time.Duration(c.AccessTokenExpireMinutes) * time.Minute
}

// MaskedDatabaseURL hides the password part of the database URL for logging.
func (c AppConfig) MaskedDatabaseURL() string {
	u := c.DatabaseURL
	at := strings.LastIndex(u, "@")
	if at < 0 {
		return u
	}
	prefix := u[:at]
	start := strings.Index(prefix, "://")
	if start >= 0 {
		start += 3
	} else {
		start = 0
	}
	colon := strings.Index(prefix[start:], ":")
	if colon < 0 {
		return u
	}
	return prefix[:start+colon+1] + "***" + u[at:]
}

func envName(key string) string {
	// viper lowercases keys, so rebuild the word boundaries from the known field names.
	if name, ok := envNames[key]; ok {
		return name
	}
	return strings.ToUpper(key)
}

var envNames = map[string]string{
	"appname":                  "APP_NAME",
	"appport":                  "APP_PORT",
	"debug":                    "DEBUG",
	"secretkey":                "SECRET_KEY",
	"algorithm":                "ALGORITHM",
	"accesstokenexpireminutes": "ACCESS_TOKEN_EXPIRE_MINUTES",
	"databaseurl":              "DATABASE_URL",
	"allowedorigins":           "ALLOWED_ORIGINS",
	"ginmode":                  "GIN_MODE",
	"ginpath":                  "GIN_PATH",
	"redishost":                "REDIS_HOST",
	"redisport":                "REDIS_PORT",
	"redisdb":                  "REDIS_DB",
	"redispassword":            "REDIS_PASSWORD",
	"loglevel":                 "LOG_LEVEL",
	"logpath":                  "LOG_PATH",
	"logmaxsizemb":             "LOG_MAX_SIZE_MB",
	"logmaxbackups":            "LOG_MAX_BACKUPS",
	"logmaxagedays":            "LOG_MAX_AGE_DAYS",
	"logcompress":              "LOG_COMPRESS",
}

// splitList accepts both JSON arrays and comma separated env values.
func splitList(in []string) []string {
	var out []string
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}
