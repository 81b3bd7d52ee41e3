// Package config 提供配置管理
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config 应用配置
type Config struct {
	App       AppConfig       `yaml:"app"`
	Database  DatabaseConfig  `yaml:"database"`
	API       APIConfig       `yaml:"api"`
	Packer    PackerConfig    `yaml:"packer"`
	Evaluator EvaluatorConfig `yaml:"evaluator"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

// AppConfig 应用基础配置
type AppConfig struct {
	Name     string `yaml:"name"`
	Env      string `yaml:"env"`
	Port     int    `yaml:"port"`
	LogLevel string `yaml:"log_level"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	Name            string        `yaml:"name"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	SSLMode         string        `yaml:"ssl_mode"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
	// Enabled 为否时跳过数据库连接，装箱历史不落库
	Enabled bool `yaml:"enabled"`
}

// DSN 返回数据库连接字符串
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

// APIConfig API配置
type APIConfig struct {
	RateLimit int           `yaml:"rate_limit"`
	Timeout   time.Duration `yaml:"timeout"`
	CORS      CORSConfig    `yaml:"cors"`
}

// CORSConfig 跨域配置
type CORSConfig struct {
	Enabled bool     `yaml:"enabled"`
	Origins []string `yaml:"origins"`
}

// PackerConfig 装箱引擎配置
type PackerConfig struct {
	DefaultTimeout time.Duration `yaml:"default_timeout"`
	// GoodEnoughFill 多策略提前停止的填充率阈值
	GoodEnoughFill float64 `yaml:"good_enough_fill"`
	RetryAttempts  int     `yaml:"retry_attempts"`
	EnableFallback bool    `yaml:"enable_fallback"`
	// ParallelStrategies 无进度推送时各策略并行执行
	ParallelStrategies bool `yaml:"parallel_strategies"`
	// GeneticWorkers 遗传算法适应度评估的并行度
	GeneticWorkers     int `yaml:"genetic_workers"`
	GeneticPopulation  int `yaml:"genetic_population"`
	GeneticGenerations int `yaml:"genetic_generations"`
}

// EvaluatorConfig 外部评分服务配置
type EvaluatorConfig struct {
	// ModelServerURL 为空时只使用本地高度图启发式
	ModelServerURL string        `yaml:"model_server_url"`
	Timeout        time.Duration `yaml:"timeout"`
	GridSize       int           `yaml:"grid_size"`
}

// MetricsConfig 监控配置
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// Load 从环境变量加载配置，存在 .env 文件时先行载入
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		App: AppConfig{
			Name:     getEnv("APP_NAME", "zhuangxiang"),
			Env:      getEnv("APP_ENV", "development"),
			Port:     getEnvInt("APP_PORT", 7021),
			LogLevel: getEnv("APP_LOG_LEVEL", "info"),
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnvInt("DB_PORT", 5432),
			Name:            getEnv("DB_NAME", "zhuangxiang"),
			User:            getEnv("DB_USER", "zhuangxiang"),
			Password:        getEnv("DB_PASSWORD", "zhuangxiang123"),
			SSLMode:         getEnv("DB_SSL_MODE", "disable"),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
			Enabled:         getEnvBool("DB_ENABLED", false),
		},
		API: APIConfig{
			RateLimit: getEnvInt("API_RATE_LIMIT", 100),
			Timeout:   getEnvDuration("API_TIMEOUT", 60*time.Second),
			CORS: CORSConfig{
				Enabled: getEnvBool("API_CORS_ENABLED", true),
				Origins: []string{"*"},
			},
		},
		Packer: PackerConfig{
			DefaultTimeout:     getEnvDuration("PACKER_TIMEOUT", 30*time.Second),
			GoodEnoughFill:     getEnvFloat("PACKER_GOOD_ENOUGH_FILL", 85.0),
			RetryAttempts:      getEnvInt("PACKER_RETRY_ATTEMPTS", 2),
			EnableFallback:     getEnvBool("PACKER_ENABLE_FALLBACK", true),
			ParallelStrategies: getEnvBool("PACKER_PARALLEL_STRATEGIES", true),
			GeneticWorkers:     getEnvInt("PACKER_GENETIC_WORKERS", 4),
			GeneticPopulation:  getEnvInt("PACKER_GENETIC_POPULATION", 30),
			GeneticGenerations: getEnvInt("PACKER_GENETIC_GENERATIONS", 40),
		},
		Evaluator: EvaluatorConfig{
			ModelServerURL: getEnv("EVALUATOR_MODEL_SERVER_URL", ""),
			Timeout:        getEnvDuration("EVALUATOR_TIMEOUT", 2*time.Second),
			GridSize:       getEnvInt("EVALUATOR_GRID_SIZE", 32),
		},
		Metrics: MetricsConfig{
			Enabled: getEnvBool("METRICS_ENABLED", true),
			Path:    getEnv("METRICS_PATH", "/metrics"),
		},
	}

	return cfg, nil
}

// IsDevelopment 检查是否为开发环境
func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development"
}

// IsProduction 检查是否为生产环境
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

// IsTest 检查是否为测试环境
func (c *Config) IsTest() bool {
	return c.App.Env == "test"
}

// 辅助函数
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
