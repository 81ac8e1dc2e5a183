package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 应用程序配置
type Config struct {
	APIPort   int
	LogLevel  string
	LogFile   LogFileConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Session   SessionConfig
	LoginURL  string        // 未登录或权限不足时的跳转地址
	URLPrefix string        // 公告路由前缀
	CacheTTL  time.Duration // 公告详情缓存时间
}

// LogFileConfig 日志文件配置
type LogFileConfig struct {
	Enabled    bool
	Path       string
	MaxSize    int // 单位MB
	MaxBackups int
	MaxAge     int // 单位天
	Compress   bool
}

// DatabaseConfig MySQL数据库配置
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
}

// RedisConfig Redis配置
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// SessionConfig 会话配置
type SessionConfig struct {
	CookieName string
	TTL        time.Duration
	Secure     bool
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("API_PORT", 8080)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FILE_ENABLED", false)
	v.SetDefault("LOG_FILE_PATH", "logs/bulletin.log")
	v.SetDefault("LOG_FILE_MAX_SIZE", 100)
	v.SetDefault("LOG_FILE_MAX_BACKUPS", 7)
	v.SetDefault("LOG_FILE_MAX_AGE", 30)
	v.SetDefault("LOG_FILE_COMPRESS", true)
	v.SetDefault("DB_HOST", "127.0.0.1")
	v.SetDefault("DB_PORT", 3306)
	v.SetDefault("DB_NAME", "bulletin")
	v.SetDefault("REDIS_HOST", "127.0.0.1")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("SESSION_COOKIE_NAME", "sessionid")
	v.SetDefault("SESSION_TTL", "336h")
	v.SetDefault("SESSION_SECURE", false)
	v.SetDefault("LOGIN_URL", "/account/login/")
	v.SetDefault("URL_PREFIX", "/announcements")
	v.SetDefault("CACHE_TTL", "5m")
}

// Load 从.env文件和环境变量加载配置
func Load() (*Config, error) {
	// .env 文件是可选的，环境变量优先
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	return FromViper(v), nil
}

// FromViper 从viper实例构建配置
func FromViper(v *viper.Viper) *Config {
	return &Config{
		APIPort:  v.GetInt("API_PORT"),
		LogLevel: strings.ToLower(v.GetString("LOG_LEVEL")),
		LogFile: LogFileConfig{
			Enabled:    v.GetBool("LOG_FILE_ENABLED"),
			Path:       v.GetString("LOG_FILE_PATH"),
			MaxSize:    v.GetInt("LOG_FILE_MAX_SIZE"),
			MaxBackups: v.GetInt("LOG_FILE_MAX_BACKUPS"),
			MaxAge:     v.GetInt("LOG_FILE_MAX_AGE"),
			Compress:   v.GetBool("LOG_FILE_COMPRESS"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetInt("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			DBName:   v.GetString("DB_NAME"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetInt("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Session: SessionConfig{
			CookieName: v.GetString("SESSION_COOKIE_NAME"),
			TTL:        v.GetDuration("SESSION_TTL"),
			Secure:     v.GetBool("SESSION_SECURE"),
		},
		LoginURL:  v.GetString("LOGIN_URL"),
		URLPrefix: strings.TrimRight(v.GetString("URL_PREFIX"), "/"),
		CacheTTL:  v.GetDuration("CACHE_TTL"),
	}
}
