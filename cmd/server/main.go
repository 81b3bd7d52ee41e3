// ZhuangXiang 装箱优化引擎服务
// 主程序入口

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/zhuangxiang/zhuangxiang/internal/config"
	"github.com/zhuangxiang/zhuangxiang/internal/database"
	"github.com/zhuangxiang/zhuangxiang/internal/handler"
	"github.com/zhuangxiang/zhuangxiang/internal/metrics"
	"github.com/zhuangxiang/zhuangxiang/internal/repository"
	"github.com/zhuangxiang/zhuangxiang/pkg/logger"
	"github.com/zhuangxiang/zhuangxiang/pkg/packer"
)

// 构建信息（通过 ldflags 注入）
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	// 初始化日志
	logger.Init(logger.Config{
		Level:  cfg.App.LogLevel,
		Format: "console",
	})

	// 打印版本信息
	fmt.Printf("ZhuangXiang 装箱引擎 v%s\n", Version)
	fmt.Printf("Build: %s (%s)\n", BuildTime, GitCommit)
	fmt.Println()

	// 可选的数据库连接，用于装箱历史
	var history *repository.PackRunRepository
	var db *database.DB
	if cfg.Database.Enabled {
		db, err = database.New(&cfg.Database)
		if err != nil {
			logger.Error().Err(err).Msg("数据库连接失败，装箱历史不可用")
		} else {
			defer db.Close()
			migrateCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			if err := db.Migrate(migrateCtx); err != nil {
				logger.Error().Err(err).Msg("初始化装箱历史表失败")
			} else {
				history = repository.NewPackRunRepository(db)
			}
			cancel()
		}
	}

	// 装箱引擎配置
	engineCfg := packer.DefaultEngineConfig()
	engineCfg.Strategy.GoodEnoughFill = cfg.Packer.GoodEnoughFill
	engineCfg.Strategy.RetryAttempts = cfg.Packer.RetryAttempts
	engineCfg.Strategy.EnableFallback = cfg.Packer.EnableFallback
	engineCfg.Strategy.Parallel = cfg.Packer.ParallelStrategies
	engineCfg.Genetic.Workers = cfg.Packer.GeneticWorkers
	engineCfg.Genetic.PopulationSize = cfg.Packer.GeneticPopulation
	engineCfg.Genetic.Generations = cfg.Packer.GeneticGenerations
	engineCfg.ModelServerURL = cfg.Evaluator.ModelServerURL

	// 创建处理器
	packHandler := handler.NewPackHandler(engineCfg, cfg.Packer.DefaultTimeout, history)
	statsHandler := handler.NewStatsHandler()
	libraryHandler := handler.NewConstraintLibraryHandler()

	// 创建 HTTP 服务器
	mux := http.NewServeMux()

	// ========================================
	// 系统端点
	// ========================================

	// 健康检查端点
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok","service":"zhuangxiang"}`))
	})

	// 版本信息端点
	mux.HandleFunc("/version", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"version":"%s","build_time":"%s","git_commit":"%s"}`, Version, BuildTime, GitCommit)
	})

	// ========================================
	// API v1 端点
	// ========================================

	// API 根路由
	mux.HandleFunc("/api/v1/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{
			"message": "ZhuangXiang 装箱引擎 API v1",
			"endpoints": {
				"pack": {
					"generate": "POST /api/v1/pack/generate",
					"stream": "POST /api/v1/pack/stream",
					"validate": "POST /api/v1/pack/validate",
					"history": "GET /api/v1/pack/history"
				},
				"constraints": {
					"library": "GET /api/v1/constraints/library"
				},
				"stats": {
					"utilization": "POST /api/v1/stats/utilization",
					"balance": "POST /api/v1/stats/balance"
				}
			}
		}`))
	})

	// 装箱计算 API
	mux.HandleFunc("/api/v1/pack/generate", packHandler.Generate)

	// 装箱进度流 API
	mux.HandleFunc("/api/v1/pack/stream", packHandler.Stream)

	// 装箱结果校验 API
	mux.HandleFunc("/api/v1/pack/validate", packHandler.Validate)

	// 装箱历史 API
	mux.HandleFunc("/api/v1/pack/history", packHandler.History)

	// 约束目录 API - 返回引擎支持的所有约束及参数定义
	mux.HandleFunc("/api/v1/constraints/library", libraryHandler.Library)

	// ========================================
	// 统计分析 API
	// ========================================

	// 分层利用率分析 API
	mux.HandleFunc("/api/v1/stats/utilization", statsHandler.Utilization)

	// 配载平衡分析 API
	mux.HandleFunc("/api/v1/stats/balance", statsHandler.Balance)

	// ========================================
	// 监控端点
	// ========================================

	// Prometheus 指标端点
	if cfg.Metrics.Enabled {
		mux.Handle(cfg.Metrics.Path, metrics.Handler())
	}

	// ========================================
	// 中间件
	// ========================================

	// 中间件执行顺序：requestID -> rateLimit -> cors -> logging -> handler
	rootHandler := requestIDMiddleware(rateLimitMiddleware(cfg.API.RateLimit, corsMiddleware(loggingMiddleware(mux))))

	server := &http.Server{
		Addr:         ":" + strconv.Itoa(cfg.App.Port),
		Handler:      rootHandler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: cfg.API.Timeout + 30*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// 启动服务器（非阻塞）
	go func() {
		logger.Info().
			Int("port", cfg.App.Port).
			Str("version", Version).
			Str("env", cfg.App.Env).
			Str("url", fmt.Sprintf("http://localhost:%d", cfg.App.Port)).
			Msg("服务器启动")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("服务器启动失败")
			os.Exit(1)
		}
	}()

	// 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("正在关闭服务器...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("服务器关闭失败")
		os.Exit(1)
	}

	logger.Info().Msg("服务器已关闭")
}

// requestIDMiddleware 请求ID追踪中间件
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}

		w.Header().Set("X-Request-ID", requestID)

		ctx := context.WithValue(r.Context(), "request_id", requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// loggingMiddleware 日志中间件
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		requestID, _ := r.Context().Value("request_id").(string)

		// 包装ResponseWriter以捕获状态码
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		duration := time.Since(start)

		logger.Info().
			Str("request_id", requestID).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rw.statusCode).
			Dur("duration", duration).
			Msg("请求处理")

		metrics.RecordRequestMetrics(r.Method, r.URL.Path, rw.statusCode, duration)
	})
}

// responseWriter 包装ResponseWriter以捕获状态码
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Flush 透传流式刷新，保证SSE进度推送可用
func (rw *responseWriter) Flush() {
	if flusher, ok := rw.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

// RateLimiter 简单的令牌桶限流器
type RateLimiter struct {
	tokens     float64
	maxTokens  float64
	refillRate float64 // 每秒添加的令牌数
	lastRefill time.Time
	mu         sync.Mutex
}

// NewRateLimiter 创建限流器
func NewRateLimiter(requestsPerSecond float64) *RateLimiter {
	return &RateLimiter{
		tokens:     requestsPerSecond,
		maxTokens:  requestsPerSecond * 2, // 允许突发流量
		refillRate: requestsPerSecond,
		lastRefill: time.Now(),
	}
}

// Allow 检查是否允许请求
func (rl *RateLimiter) Allow() bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	elapsed := now.Sub(rl.lastRefill).Seconds()
	rl.tokens += elapsed * rl.refillRate
	if rl.tokens > rl.maxTokens {
		rl.tokens = rl.maxTokens
	}
	rl.lastRefill = now

	if rl.tokens >= 1 {
		rl.tokens--
		return true
	}
	return false
}

// rateLimitMiddleware 限流中间件
func rateLimitMiddleware(requestsPerSecond int, next http.Handler) http.Handler {
	if requestsPerSecond <= 0 {
		requestsPerSecond = 100
	}
	limiter := NewRateLimiter(float64(requestsPerSecond))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow() {
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"error":   true,
				"code":    "RATE_LIMITED",
				"message": "请求过于频繁，请稍后重试",
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// corsMiddleware CORS中间件
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-API-Key")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
