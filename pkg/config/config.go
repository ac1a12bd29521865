package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"
)

var (
	config *viper.Viper
	once   sync.Once
	mu     sync.RWMutex
)

// Init 初始化配置，配置文件不存在时只使用默认值和环境变量
func Init(configFiles ...string) error {
	var err error
	once.Do(func() {
		v := newViper()
		configFile := "conf/config.yaml"
		if len(configFiles) > 0 && configFiles[0] != "" {
			configFile = configFiles[0]
		}
		v.SetConfigFile(configFile)

		if readErr := v.ReadInConfig(); readErr != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(readErr, &notFound) && !os.IsNotExist(readErr) {
				err = fmt.Errorf("%w: read config file failed: %v", ErrInvalidConfig, readErr)
				return
			}
		} else {
			// 监听配置文件变化
			v.WatchConfig()
		}

		mu.Lock()
		config = v
		mu.Unlock()
	})
	return err
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("PPT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	// Anthropic 官方环境变量
	_ = v.BindEnv("anthropic.api_key", "PPT_ANTHROPIC_API_KEY", "ANTHROPIC_API_KEY")
	return v
}

// current 未初始化时返回只含默认值的实例，便于测试直接读取配置
func current() *viper.Viper {
	mu.RLock()
	v := config
	mu.RUnlock()
	if v != nil {
		return v
	}
	mu.Lock()
	defer mu.Unlock()
	if config == nil {
		config = newViper()
	}
	return config
}

// setDefaults 设置默认值
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.prefix", "/api/v1")
	v.SetDefault("server.body_limit", 20*1024*1024)

	v.SetDefault("node.id", 1)

	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.issuer", "")

	v.SetDefault("database.type", "sqlite")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.dbname", "ppt_tools")
	v.SetDefault("database.path", "data/ppt_tools.db")
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.max_open_conns", 100)
	v.SetDefault("database.conn_max_lifetime", 3600)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.filename", "logs/app.log")
	v.SetDefault("log.max_size", 100)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age", 28)
	v.SetDefault("log.compress", true)
	v.SetDefault("log.console", false)

	v.SetDefault("security.allowed_origins", "*")

	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.max_requests", 10)
	v.SetDefault("rate_limit.duration", 60)

	v.SetDefault("anthropic.api_key", "")
	v.SetDefault("anthropic.base_url", "https://api.anthropic.com")
	v.SetDefault("anthropic.model", "claude-sonnet-4-20250514")
	v.SetDefault("anthropic.max_tokens", 4096)
	v.SetDefault("anthropic.timeout", 300)

	v.SetDefault("render.style", "decorated")
	v.SetDefault("export.engine", "ooxml")
	v.SetDefault("export.author", "PPT Generator")
}

// Get 获取配置值
func Get(key string) interface{} {
	return current().Get(key)
}

// GetString 获取字符串配置值
func GetString(key string) string {
	return current().GetString(key)
}

// GetInt 获取整数配置值
func GetInt(key string) int {
	return current().GetInt(key)
}

// GetInt64 获取64位整数配置值
func GetInt64(key string) int64 {
	return current().GetInt64(key)
}

// GetUint64 获取64位无符号整数配置值
func GetUint64(key string) uint64 {
	return current().GetUint64(key)
}

// GetBool 获取布尔配置值
func GetBool(key string) bool {
	return current().GetBool(key)
}

// GetStringSlice 获取字符串切片配置值
func GetStringSlice(key string) []string {
	return current().GetStringSlice(key)
}

// Set 设置配置值
func Set(key string, value interface{}) {
	current().Set(key, value)
}

// IsSet 检查配置值是否已设置
func IsSet(key string) bool {
	return current().IsSet(key)
}

// GetDSN 获取数据库连接字符串
func GetDSN() string {
	dbType := GetString("database.type")
	switch strings.ToLower(dbType) {
	case "postgres":
		return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
			GetString("database.host"),
			GetInt("database.port"),
			GetString("database.user"),
			GetString("database.password"),
			GetString("database.dbname"),
		)
	case "mysql":
		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			GetString("database.user"),
			GetString("database.password"),
			GetString("database.host"),
			GetInt("database.port"),
			GetString("database.dbname"),
		)
	case "sqlite":
		return GetString("database.path")
	default:
		return ""
	}
}

// GetJWTSecret 获取JWT密钥
func GetJWTSecret() []byte {
	return []byte(GetString("auth.jwt_secret"))
}

// GetServerAddress 获取服务器地址
func GetServerAddress() string {
	return fmt.Sprintf(":%d", GetInt("server.port"))
}

// GetAnthropicTimeout 模型请求超时
func GetAnthropicTimeout() time.Duration {
	return time.Duration(GetInt("anthropic.timeout")) * time.Second
}

// GetRateLimitWindow 限流窗口
func GetRateLimitWindow() time.Duration {
	return time.Duration(GetInt("rate_limit.duration")) * time.Second
}
