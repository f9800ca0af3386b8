package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type ServerConfig struct {
	Address string `json:"address" yaml:"address"`
	Name    string `json:"name" yaml:"name"` // 服务名，用于指标标签
}

type LogConfig struct {
	Level      string `json:"level" yaml:"level"`           // debug/info/warn/error
	Format     string `json:"format" yaml:"format"`         // json/console
	File       string `json:"file" yaml:"file"`             // 为空时只输出到标准输出
	MaxSize    int    `json:"maxSize" yaml:"maxSize"`       // 单位：MB
	MaxBackups int    `json:"maxBackups" yaml:"maxBackups"` // 保留的旧日志文件数
	MaxAge     int    `json:"maxAge" yaml:"maxAge"`         // 单位：天
	Compress   bool   `json:"compress" yaml:"compress"`
}

type SecurityConfig struct {
	Enabled        bool     `json:"enabled" yaml:"enabled"`
	MaxBodySize    int64    `json:"maxBodySize" yaml:"maxBodySize"` // 单位：字节
	AllowedMethods []string `json:"allowedMethods" yaml:"allowedMethods"`
}

type TimeoutConfig struct {
	RequestTimeout int `json:"requestTimeout" yaml:"requestTimeout"` // 单位：秒，0 表示不限制
}

type CORSConfig struct {
	AllowOrigins     []string      `json:"allowOrigins" yaml:"allowOrigins"`
	AllowMethods     []string      `json:"allowMethods" yaml:"allowMethods"`
	AllowHeaders     []string      `json:"allowHeaders" yaml:"allowHeaders"`
	ExposeHeaders    []string      `json:"exposeHeaders" yaml:"exposeHeaders"`
	AllowCredentials bool          `json:"allowCredentials" yaml:"allowCredentials"`
	MaxAge           time.Duration `json:"maxAge" yaml:"maxAge"`
	TrustedDomains   []string      `json:"trustedDomains" yaml:"trustedDomains"`
}

type RateLimitConfig struct {
	Rate     int           `json:"rate" yaml:"rate"` // 0 表示不限流
	Interval time.Duration `json:"interval" yaml:"interval"`
}

type MiddlewareConfig struct {
	Security  SecurityConfig  `json:"security" yaml:"security"`
	Timeout   TimeoutConfig   `json:"timeout" yaml:"timeout"`
	CORS      CORSConfig      `json:"cors" yaml:"cors"`
	RateLimit RateLimitConfig `json:"rateLimit" yaml:"rateLimit"`
}

type DatabaseConfig struct {
	Driver      string `json:"driver" yaml:"driver"` // mysql/sqlite
	Host        string `json:"host" yaml:"host"`
	Port        int    `json:"port" yaml:"port"`
	Username    string `json:"username" yaml:"username"`
	Password    string `json:"password" yaml:"password"`
	DBName      string `json:"dbname" yaml:"dbname"` // sqlite 时为文件路径
	UseUnixSock bool   `json:"useUnixSock" yaml:"useUnixSock"`
	MinPoolSize int    `json:"minPoolSize" yaml:"minPoolSize"`
	MaxPoolSize int    `json:"maxPoolSize" yaml:"maxPoolSize"`
	LogLevel    string `json:"logLevel" yaml:"logLevel"`
}

type RedisConfig struct {
	Addr     string `json:"addr" yaml:"addr"`
	Password string `json:"password" yaml:"password"`
	DB       int    `json:"db" yaml:"db"`
}

// SessionConfig 分布式 Session 配置
type SessionConfig struct {
	Namespace                  string `json:"namespace" yaml:"namespace"`                                   // Redis key 统一前缀
	MaxInactiveIntervalSeconds int    `json:"maxInactiveIntervalSeconds" yaml:"maxInactiveIntervalSeconds"` // 不活跃后的过期时间
	FlushMode                  string `json:"flushMode" yaml:"flushMode"`                                   // on_save/immediate
	CleanupCron                string `json:"cleanupCron" yaml:"cleanupCron"`                               // 带秒字段的 cron 表达式
	Resolver                   string `json:"resolver" yaml:"resolver"`                                     // cookie/header
	CookieName                 string `json:"cookieName" yaml:"cookieName"`
	HeaderName                 string `json:"headerName" yaml:"headerName"`
}

// MaxInactiveInterval 以 time.Duration 表示的过期时间
func (s SessionConfig) MaxInactiveInterval() time.Duration {
	return time.Duration(s.MaxInactiveIntervalSeconds) * time.Second
}

type UserConfig struct {
	Store string `json:"store" yaml:"store"` // stub/mysql/sqlite
}

// AdviceConfig 全局返回处理器的拦截范围
type AdviceConfig struct {
	BasePaths []string `json:"basePaths" yaml:"basePaths"`
}

type Config struct {
	Server     ServerConfig     `json:"server" yaml:"server"`
	Log        LogConfig        `json:"log" yaml:"log"`
	Database   DatabaseConfig   `json:"database" yaml:"database"`
	Redis      RedisConfig      `json:"redis" yaml:"redis"`
	Session    SessionConfig    `json:"session" yaml:"session"`
	User       UserConfig       `json:"user" yaml:"user"`
	Advice     AdviceConfig     `json:"advice" yaml:"advice"`
	Middleware MiddlewareConfig `json:"middleware" yaml:"middleware"`
	Env        string           `json:"env" yaml:"env"` // 环境标识
}

// Session 编号默认的 Cookie 名与请求头名
const (
	DefaultSessionCookieName = "SESSION"
	DefaultSessionHeaderName = "token"
)

// Default 返回一份默认配置的拷贝
func Default() *Config {
	cfg := Config{
		Server: ServerConfig{
			Address: ":8080",
			Name:    "boot-labs",
		},
		Log: LogConfig{
			Level:      "info",
			Format:     "console",
			MaxSize:    100,
			MaxBackups: 7,
			MaxAge:     30,
			Compress:   true,
		},
		Database: DatabaseConfig{
			Driver:      "mysql",
			Host:        "localhost",
			Port:        3306,
			Username:    "root",
			Password:    "root",
			DBName:      "lab",
			MinPoolSize: 5,
			MaxPoolSize: 50,
			LogLevel:    "warn",
		},
		Redis: RedisConfig{
			Addr: "127.0.0.1:6379",
		},
		Session: SessionConfig{
			Namespace:                  "spring:session",
			MaxInactiveIntervalSeconds: 1800,
			FlushMode:                  "on_save",
			CleanupCron:                "0 * * * * *", // 每分钟执行一次
			Resolver:                   "cookie",
			CookieName:                 DefaultSessionCookieName,
			HeaderName:                 DefaultSessionHeaderName,
		},
		User: UserConfig{
			Store: "stub",
		},
		Advice: AdviceConfig{
			BasePaths: []string{"/users"},
		},
		Middleware: MiddlewareConfig{
			Security: SecurityConfig{
				Enabled:        true,
				MaxBodySize:    10 << 20, // 10MB
				AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			},
			Timeout: TimeoutConfig{
				RequestTimeout: 15,
			},
			CORS: CORSConfig{
				AllowOrigins:     []string{"http://localhost:3000"},
				AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
				AllowHeaders:     []string{"Content-Type", "Authorization", "X-Requested-With", "token"},
				ExposeHeaders:    []string{"Content-Length", "token"},
				AllowCredentials: true,
				MaxAge:           12 * time.Hour,
			},
			RateLimit: RateLimitConfig{
				Rate:     100,
				Interval: 10 * time.Millisecond,
			},
		},
		Env: "development",
	}
	return &cfg
}

// IsProd 判断当前是否生产环境
func (c *Config) IsProd() bool {
	return c.Env == "production"
}

// Load 加载配置（优先级：环境变量 > 配置文件 > 默认值）
func Load() *Config {
	cfg := Default()

	// .env 只补充尚未设置的环境变量
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		hlog.Warnf("Failed to load .env file: %v", err)
	}

	if path := getConfigPath(); path != "" {
		if err := LoadFile(cfg, path); err != nil {
			hlog.Warnf("Failed to load config file %s: %v", path, err)
		}
	}

	loadFromEnv(cfg)
	return cfg
}

// getConfigPath 获取配置文件路径
func getConfigPath() string {
	if path := os.Getenv("APP_CONFIG"); path != "" {
		return path
	}

	searchPaths := []string{
		"./config.yaml",
		"./config.yml",
		"./config.json",
		"../config.yaml",
		"../config.json",
		"/etc/boot-labs/config.yaml",
	}

	for _, path := range searchPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// LoadFile 按扩展名解析 YAML 或 JSON 配置文件，覆盖 cfg 中已有的值
func LoadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, cfg)
	case ".json":
		return json.Unmarshal(data, cfg)
	default:
		return fmt.Errorf("unsupported config file type: %s", path)
	}
}

// loadFromEnv 从环境变量加载配置
func loadFromEnv(config *Config) {
	if v := os.Getenv("SERVER_ADDR"); v != "" {
		config.Server.Address = v
	}
	if v := os.Getenv("SERVER_NAME"); v != "" {
		config.Server.Name = v
	}
	if v := os.Getenv("APP_ENV"); v != "" {
		config.Env = v
	}

	// 日志
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		config.Log.Level = strings.ToLower(v)
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		config.Log.Format = strings.ToLower(v)
	}
	if v := os.Getenv("LOG_FILE"); v != "" {
		config.Log.File = v
	}

	// 中间件
	if v := os.Getenv("SECURITY_CHECK"); v != "" {
		config.Middleware.Security.Enabled = parseBool(v)
	}
	if v := os.Getenv("MAX_BODY_SIZE"); v != "" {
		if size, err := strconv.ParseInt(v, 10, 64); err == nil {
			config.Middleware.Security.MaxBodySize = size
		}
	}
	if v := os.Getenv("REQUEST_TIMEOUT"); v != "" {
		if timeout, err := strconv.Atoi(v); err == nil {
			config.Middleware.Timeout.RequestTimeout = timeout
		}
	}
	if v := os.Getenv("RATE_LIMIT"); v != "" {
		if rate, err := strconv.Atoi(v); err == nil {
			config.Middleware.RateLimit.Rate = rate
		}
	}
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		config.Middleware.CORS.AllowOrigins = splitEnvList(v)
	}

	// 数据库
	if v := os.Getenv("DB_DRIVER"); v != "" {
		config.Database.Driver = strings.ToLower(v)
	}
	if v := os.Getenv("DB_HOST"); v != "" {
		config.Database.Host = v
	}
	if v := os.Getenv("DB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			config.Database.Port = port
		}
	}
	if v := os.Getenv("DB_USER"); v != "" {
		config.Database.Username = v
	}
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		config.Database.Password = v
	}
	if v := os.Getenv("DB_NAME"); v != "" {
		config.Database.DBName = v
	}
	if v := os.Getenv("DB_SOCKET"); v != "" {
		config.Database.UseUnixSock = parseBool(v)
	}
	if v := os.Getenv("DB_LOG_LEVEL"); v != "" {
		config.Database.LogLevel = strings.ToLower(v)
	}

	// Redis
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		config.Redis.Addr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		config.Redis.Password = v
	}
	if v := os.Getenv("REDIS_DB"); v != "" {
		if db, err := strconv.Atoi(v); err == nil {
			config.Redis.DB = db
		}
	}

	// Session
	if v := os.Getenv("SESSION_NAMESPACE"); v != "" {
		config.Session.Namespace = v
	}
	if v := os.Getenv("SESSION_MAX_INACTIVE"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			config.Session.MaxInactiveIntervalSeconds = secs
		} else {
			hlog.Warnf("Invalid SESSION_MAX_INACTIVE: %s", v)
		}
	}
	if v := os.Getenv("SESSION_FLUSH_MODE"); v != "" {
		mode := strings.ToLower(v)
		if mode == "on_save" || mode == "immediate" {
			config.Session.FlushMode = mode
		} else {
			hlog.Warnf("Unsupported SESSION_FLUSH_MODE: %s", v)
		}
	}
	if v := os.Getenv("SESSION_CLEANUP_CRON"); v != "" {
		config.Session.CleanupCron = v
	}
	if v := os.Getenv("SESSION_RESOLVER"); v != "" {
		config.Session.Resolver = strings.ToLower(v)
	}
	if v := os.Getenv("SESSION_COOKIE_NAME"); v != "" {
		config.Session.CookieName = v
	}
	if v := os.Getenv("SESSION_HEADER_NAME"); v != "" {
		config.Session.HeaderName = v
	}

	// 用户
	if v := os.Getenv("USER_STORE"); v != "" {
		config.User.Store = strings.ToLower(v)
	}
	if v := os.Getenv("ADVICE_BASE_PATHS"); v != "" {
		config.Advice.BasePaths = splitEnvList(v)
	}
}

// 分割环境变量列表（支持逗号分隔的字符串）
func splitEnvList(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// 转换字符串为布尔值
func parseBool(value string) bool {
	value = strings.ToLower(value)
	return value == "true" || value == "1" || value == "yes"
}

// InitDB 按 Database.Driver 打开 gorm 连接
func (c *Config) InitDB() (*gorm.DB, error) {
	// 把驱动的唯一约束错误统一转换为 gorm.ErrDuplicatedKey
	gormConfig := &gorm.Config{TranslateError: true}
	switch c.Database.LogLevel {
	case "silent":
		gormConfig.Logger = logger.Default.LogMode(logger.Silent)
	case "error":
		gormConfig.Logger = logger.Default.LogMode(logger.Error)
	case "warn":
		gormConfig.Logger = logger.Default.LogMode(logger.Warn)
	case "info":
		gormConfig.Logger = logger.Default.LogMode(logger.Info)
	}

	var dialector gorm.Dialector
	switch c.Database.Driver {
	case "sqlite":
		dialector = sqlite.Open(c.Database.DBName)
	case "mysql", "":
		dialector = mysql.Open(c.mysqlDSN())
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.Database.Driver)
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}
	sqlDB.SetMaxIdleConns(c.Database.MinPoolSize)
	sqlDB.SetMaxOpenConns(c.Database.MaxPoolSize)

	return db, nil
}

func (c *Config) mysqlDSN() string {
	charsetParam := "charset=utf8mb4&parseTime=True&loc=Local"
	if c.Database.UseUnixSock {
		return fmt.Sprintf("%s:%s@unix(%s)/%s?%s",
			c.Database.Username,
			c.Database.Password,
			c.Database.Host, // 这里host存储的是socket路径
			c.Database.DBName,
			charsetParam)
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?%s",
		c.Database.Username,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
		charsetParam)
}
