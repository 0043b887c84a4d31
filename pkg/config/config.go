package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// CredentialsConfig 账号凭证配置
type CredentialsConfig struct {
	Username string
	Password string
}

// APIConfig 接口配置
type APIConfig struct {
	BaseURL        string // 主站接口地址
	CryptoBaseURL  string // 加密货币接口地址
	TimeoutSeconds int    // 请求超时（秒）
}

// SessionConfig 会话存储配置
type SessionConfig struct {
	Dir       string // 会话文件目录
	SecretDir string // 凭证库目录（badger）
}

// Config 应用配置
type Config struct {
	Credentials CredentialsConfig
	API         APIConfig
	Session     SessionConfig
	LogLevel    string // 日志级别
	LogFile     string // 日志文件路径（可选）
	DryRun      bool   // 纸交易模式（dry run），如果为 true，不真实下单，只在日志中打印订单信息
}

var globalConfig *Config
var configFilePath string

// SetConfigPath 设置配置文件路径
func SetConfigPath(path string) {
	configFilePath = path
}

// GetConfigPath 获取配置文件路径
func GetConfigPath() string {
	return configFilePath
}

// ConfigFile 配置文件结构（用于 YAML/JSON 解析）
type ConfigFile struct {
	Credentials struct {
		Username string `yaml:"username" json:"username"`
		Password string `yaml:"password" json:"password"`
	} `yaml:"credentials" json:"credentials"`
	API struct {
		BaseURL        string `yaml:"base_url" json:"base_url"`
		CryptoBaseURL  string `yaml:"crypto_base_url" json:"crypto_base_url"`
		TimeoutSeconds int    `yaml:"timeout_seconds" json:"timeout_seconds"`
	} `yaml:"api" json:"api"`
	Session struct {
		Dir       string `yaml:"dir" json:"dir"`
		SecretDir string `yaml:"secret_dir" json:"secret_dir"`
	} `yaml:"session" json:"session"`
	LogLevel string `yaml:"log_level" json:"log_level"`
	LogFile  string `yaml:"log_file" json:"log_file"`
	DryRun   bool   `yaml:"dry_run" json:"dry_run"`
}

// Load 加载配置
func Load() (*Config, error) {
	return LoadFromFile(configFilePath)
}

// LoadFromFile 从指定文件加载配置
// 优先级：环境变量 > 配置文件 > 默认值
func LoadFromFile(filePath string) (*Config, error) {
	if globalConfig != nil && configFilePath == filePath {
		return globalConfig, nil
	}

	// 尝试加载配置文件（可选，不存在时只用环境变量和默认值）
	var configFile *ConfigFile
	if filePath != "" {
		var err error
		configFile, err = loadConfigFile(filePath)
		if err != nil {
			return nil, fmt.Errorf("加载配置文件失败 %s: %w", filePath, err)
		}
	}

	config := &Config{
		Credentials: CredentialsConfig{
			Username: getEnv("ROBINHOOD_USERNAME", fileString(configFile, func(cf *ConfigFile) string { return cf.Credentials.Username })),
			Password: getEnv("ROBINHOOD_PASSWORD", fileString(configFile, func(cf *ConfigFile) string { return cf.Credentials.Password })),
		},
		API: APIConfig{
			BaseURL:        getEnv("ROBINHOOD_API_BASE", fileString(configFile, func(cf *ConfigFile) string { return cf.API.BaseURL })),
			CryptoBaseURL:  getEnv("ROBINHOOD_CRYPTO_BASE", fileString(configFile, func(cf *ConfigFile) string { return cf.API.CryptoBaseURL })),
			TimeoutSeconds: parseIntEnv("ROBINHOOD_TIMEOUT_SECONDS", fileInt(configFile, func(cf *ConfigFile) int { return cf.API.TimeoutSeconds }, 15)),
		},
		Session: SessionConfig{
			Dir:       getEnv("SESSION_DIR", fileStringDefault(configFile, func(cf *ConfigFile) string { return cf.Session.Dir }, "data/session")),
			SecretDir: getEnv("SECRET_DIR", fileStringDefault(configFile, func(cf *ConfigFile) string { return cf.Session.SecretDir }, "data/secrets")),
		},
		LogLevel: getEnv("LOG_LEVEL", fileStringDefault(configFile, func(cf *ConfigFile) string { return cf.LogLevel }, "info")),
		LogFile:  getEnv("LOG_FILE", fileString(configFile, func(cf *ConfigFile) string { return cf.LogFile })),
		DryRun:   parseBoolEnv("DRY_RUN", configFile != nil && configFile.DryRun),
	}

	globalConfig = config
	configFilePath = filePath
	return config, nil
}

// loadConfigFile 按扩展名解析 YAML 或 JSON 配置文件
func loadConfigFile(filePath string) (*ConfigFile, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var cf ConfigFile
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".json":
		if err := json.Unmarshal(data, &cf); err != nil {
			return nil, fmt.Errorf("JSON 解析失败: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, &cf); err != nil {
			return nil, fmt.Errorf("YAML 解析失败: %w", err)
		}
	}
	return &cf, nil
}

// Get 获取全局配置（必须先调用 Load）
func Get() *Config {
	return globalConfig
}

// Validate 校验配置
func (c *Config) Validate() error {
	if c.Credentials.Username == "" {
		return fmt.Errorf("缺少账号用户名（ROBINHOOD_USERNAME 或配置文件 credentials.username）")
	}
	if c.Credentials.Password == "" {
		return fmt.Errorf("缺少账号密码（ROBINHOOD_PASSWORD 或配置文件 credentials.password）")
	}
	if c.API.TimeoutSeconds <= 0 {
		return fmt.Errorf("请求超时必须为正数: %d", c.API.TimeoutSeconds)
	}
	return nil
}

func fileString(cf *ConfigFile, getter func(*ConfigFile) string) string {
	if cf == nil {
		return ""
	}
	return getter(cf)
}

func fileStringDefault(cf *ConfigFile, getter func(*ConfigFile) string, defaultValue string) string {
	if v := fileString(cf, getter); v != "" {
		return v
	}
	return defaultValue
}

func fileInt(cf *ConfigFile, getter func(*ConfigFile) int, defaultValue int) int {
	if cf != nil {
		if v := getter(cf); v != 0 {
			return v
		}
	}
	return defaultValue
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseIntEnv(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

func parseBoolEnv(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1"
}
