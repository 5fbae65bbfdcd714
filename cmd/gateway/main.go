package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"helphive-gateway/internal/cache"
	"helphive-gateway/internal/handlers"
	"helphive-gateway/internal/httpserver"
	"helphive-gateway/internal/llm"
	"helphive-gateway/internal/metrics"
	"helphive-gateway/internal/pipeline"
	"helphive-gateway/internal/quota"
	"helphive-gateway/internal/state"
	"helphive-gateway/pkg/logging/logging"
)

type Config struct {
	Port         string
	StateBackend string // "memory" or "redis"
	RedisAddr    string
	RedisPrefix  string
	LLMBaseURL   string
	LLMAPIKey    string
	LLMModel     string
	RankModel    string
	MaxPerHour   int
	MaxPerDay    int
	CacheSize    int
}

func LoadConfig() Config {
	return Config{
		Port:         getenv("PORT", "8080"),
		StateBackend: getenv("STATE_BACKEND", "memory"),
		RedisAddr:    getenv("REDIS_ADDR", "127.0.0.1:6379"),
		RedisPrefix:  getenv("REDIS_PREFIX", "helphive"),
		LLMBaseURL:   getenv("ANTHROPIC_BASE_URL", "https://api.anthropic.com"),
		LLMAPIKey:    os.Getenv("ANTHROPIC_API_KEY"),
		LLMModel:     os.Getenv("ANTHROPIC_MODEL"),
		RankModel:    os.Getenv("ANTHROPIC_RANK_MODEL"),
		MaxPerHour:   getenvInt("QUOTA_MAX_PER_HOUR", quota.DefaultMaxPerHour),
		MaxPerDay:    getenvInt("QUOTA_MAX_PER_DAY", quota.DefaultMaxPerDay),
		CacheSize:    getenvInt("RESPONSE_CACHE_SIZE", cache.DefaultCapacity),
	}
}

func main() {
	if err := run(); err != nil {
		log.Fatalf("gateway exited with error: %v", err)
	}
}

func run() error {
	// ----- Logger -----
	logger := logging.DefaultLogger()
	defer logger.Sync()

	// ----- Metrics -----
	metrics.Register()

	// ----- Config -----
	cfg := LoadConfig()

	logger.Info("loaded config",
		zap.String("port", cfg.Port),
		zap.String("state_backend", cfg.StateBackend),
		zap.String("redis_addr", cfg.RedisAddr),
		zap.String("llm_base_url", cfg.LLMBaseURL),
		zap.Int("max_per_hour", cfg.MaxPerHour),
		zap.Int("max_per_day", cfg.MaxPerDay),
		zap.Int("cache_size", cfg.CacheSize),
	)

	// ----- State store -----
	var store state.Store
	if cfg.StateBackend == "redis" {
		redisClient := redis.NewClient(&redis.Options{
			Addr: cfg.RedisAddr,
		})

		// Fail fast if Redis is misconfigured
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			logger.Error("redis connection failed", zap.Error(err))
			return err
		}
		logger.Info("redis connection established",
			zap.String("addr", cfg.RedisAddr),
		)

		store = state.NewRedisStore(redisClient, state.RedisConfig{Prefix: cfg.RedisPrefix})
	} else {
		store = state.NewMemoryStore()
	}

	manager := state.NewManager(store)

	// ----- Quota + response cache (shared persisted blob) -----
	tracker := quota.NewTracker(manager, cfg.MaxPerHour, cfg.MaxPerDay)
	responseCache := cache.NewResponseCache(manager, cfg.CacheSize)

	// ----- LLM client -----
	// No API key means the gateway still runs: every request takes the
	// local fallback path.
	var llmClient llm.Client
	if cfg.LLMAPIKey == "" {
		logger.Warn("no API key configured, running in local-only mode")
	} else {
		var err error
		llmClient, err = llm.NewClient(llm.Config{
			BaseURL:   cfg.LLMBaseURL,
			APIKey:    cfg.LLMAPIKey,
			Model:     cfg.LLMModel,
			RankModel: cfg.RankModel,
		}, logger)
		if err != nil {
			return err
		}
		if closer, ok := llmClient.(interface{ Close() error }); ok {
			defer closer.Close()
		}
	}

	// ----- Pipeline + handlers -----
	pipe := pipeline.New(llmClient, tracker, responseCache)
	requestHandler := handlers.NewRequestHandler(pipe)
	usageHandler := handlers.NewUsageHandler(tracker, responseCache, manager)

	// ----- Router + middleware -----
	r := httpserver.NewRouter(logger, requestHandler, usageHandler)

	// ----- HTTP server -----
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	logger.Info("starting gateway",
		zap.String("addr", srv.Addr),
		zap.String("state_backend", cfg.StateBackend),
		zap.Bool("local_only", llmClient == nil),
	)

	// Start server in background
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", zap.Error(err))
		}
	}()

	// ----- Graceful shutdown -----
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	<-stop
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
		return err
	}

	logger.Info("server shutdown complete")
	return nil
}

// getenv returns the value of the environment variable key or def if not set.
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
