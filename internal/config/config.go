package config

import (
	"fmt"
	"os"
	"time"

	pkglogger "github.com/ideafund/ideafund-backend/pkg/logger"
	"gopkg.in/yaml.v3"
)

// Config 애플리케이션 전체 설정
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Database      DatabaseConfig      `yaml:"database"`
	Redis         RedisConfig         `yaml:"redis"`
	JWT           JWTConfig           `yaml:"jwt"`
	CORS          CORSConfig          `yaml:"cors"`
	Storage       StorageConfig       `yaml:"storage"`
	Elasticsearch ElasticsearchConfig `yaml:"elasticsearch"`
	Editor        EditorConfig        `yaml:"editor"`
	Coins         CoinsConfig         `yaml:"coins"`
}

// ServerConfig HTTP 서버 설정
type ServerConfig struct {
	Port int    `yaml:"port"`
	Mode string `yaml:"mode"` // development | production
	// RateLimitPerMinute per client; 0 uses the default, Redis 없으면 비활성
	RateLimitPerMinute int `yaml:"rate_limit_per_minute"`
}

// DatabaseConfig DB 설정 (mysql | sqlite)
type DatabaseConfig struct {
	Driver          string `yaml:"driver"`
	Host            string `yaml:"host"`
	Port            int    `yaml:"port"`
	User            string `yaml:"user"`
	Password        string `yaml:"password"`
	DBName          string `yaml:"dbname"`
	Path            string `yaml:"path"` // sqlite file path
	MaxIdleConns    int    `yaml:"max_idle_conns"`
	MaxOpenConns    int    `yaml:"max_open_conns"`
	ConnMaxLifetime int    `yaml:"conn_max_lifetime"` // seconds
}

// GetDSN returns the driver-specific data source name
func (d DatabaseConfig) GetDSN() string {
	if d.Driver == "sqlite" {
		if d.Path == "" {
			return "ideafund.db"
		}
		return d.Path
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.User, d.Password, d.Host, d.Port, d.DBName)
}

// RedisConfig Redis 설정
type RedisConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

// JWTConfig 토큰 설정 (초 단위)
type JWTConfig struct {
	Secret    string `yaml:"secret"`
	ExpiresIn int    `yaml:"expires_in"`
	RefreshIn int    `yaml:"refresh_in"`
}

// CORSConfig comma separated origins
type CORSConfig struct {
	AllowOrigins string `yaml:"allow_origins"`
}

// StorageConfig S3 호환 스토리지 설정. Enabled=false 이면 메모리 스토리지 사용
type StorageConfig struct {
	Enabled         bool   `yaml:"enabled"`
	Endpoint        string `yaml:"endpoint"`
	Region          string `yaml:"region"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	Bucket          string `yaml:"bucket"`
	CDNURL          string `yaml:"cdn_url"`
	BasePath        string `yaml:"base_path"`
	ForcePathStyle  bool   `yaml:"force_path_style"`
}

// ElasticsearchConfig 검색 설정
type ElasticsearchConfig struct {
	Enabled   bool     `yaml:"enabled"`
	Addresses []string `yaml:"addresses"`
	Username  string   `yaml:"username"`
	Password  string   `yaml:"password"`
}

// EditorConfig 편집 세션 설정
type EditorConfig struct {
	MaxImageBytes     int64         `yaml:"max_image_bytes"`
	SessionTTL        time.Duration `yaml:"session_ttl"`
	UploadTimeout     time.Duration `yaml:"upload_timeout"`
	UploadConcurrency int           `yaml:"upload_concurrency"`
}

// CoinsConfig 코인 정책
type CoinsConfig struct {
	SignupGrant int64         `yaml:"signup_grant"`
	VoteCost    int64         `yaml:"vote_cost"`
	BalanceTTL  time.Duration `yaml:"balance_ttl"`
}

// Load reads a YAML config file, expanding ${ENV} references before parsing
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes YAML bytes into a Config and applies defaults
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	cfg := &Config{}
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.applyDefaults()

	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("jwt.secret is required")
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.Mode == "" {
		c.Server.Mode = "development"
	}
	if c.Server.RateLimitPerMinute == 0 {
		c.Server.RateLimitPerMinute = 120
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "mysql"
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 10
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 50
	}
	if c.Database.ConnMaxLifetime == 0 {
		c.Database.ConnMaxLifetime = 300
	}
	if c.Redis.Port == 0 {
		c.Redis.Port = 6379
	}
	if c.Redis.PoolSize == 0 {
		c.Redis.PoolSize = 10
	}
	if c.JWT.ExpiresIn == 0 {
		c.JWT.ExpiresIn = 900
	}
	if c.JWT.RefreshIn == 0 {
		c.JWT.RefreshIn = 604800
	}
	if c.Editor.MaxImageBytes == 0 {
		c.Editor.MaxImageBytes = 5 << 20
	}
	if c.Editor.SessionTTL == 0 {
		c.Editor.SessionTTL = 30 * time.Minute
	}
	if c.Editor.UploadTimeout == 0 {
		c.Editor.UploadTimeout = 2 * time.Minute
	}
	if c.Editor.UploadConcurrency == 0 {
		c.Editor.UploadConcurrency = 4
	}
	if c.Coins.SignupGrant == 0 {
		c.Coins.SignupGrant = 10
	}
	if c.Coins.VoteCost == 0 {
		c.Coins.VoteCost = 1
	}
	if c.Coins.BalanceTTL == 0 {
		c.Coins.BalanceTTL = 30 * time.Second
	}
}

// IsDevelopment 개발 모드 여부
func (c *Config) IsDevelopment() bool {
	switch c.Server.Mode {
	case "development", "dev", "local":
		return true
	}
	return false
}

// LogResolved logs non-secret configuration values
func LogResolved(cfg *Config) {
	pkglogger.GetLogger().Info().
		Int("port", cfg.Server.Port).
		Str("mode", cfg.Server.Mode).
		Str("db_driver", cfg.Database.Driver).
		Str("db_host", cfg.Database.Host).
		Str("db_name", cfg.Database.DBName).
		Str("redis", fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port)).
		Bool("storage", cfg.Storage.Enabled).
		Str("bucket", cfg.Storage.Bucket).
		Bool("elasticsearch", cfg.Elasticsearch.Enabled).
		Dur("editor_session_ttl", cfg.Editor.SessionTTL).
		Int64("signup_grant", cfg.Coins.SignupGrant).
		Msg("config resolved")
}
