package main

import (
	"log"
	"net/http"
	"strconv"
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/manenim/keybucket/pkg/limiter"
	"github.com/manenim/keybucket/pkg/metrics"
)

type config struct {
	Addr           string
	Capacity       int
	RefillInterval time.Duration
	RefillAmount   int
}

func loadConfig() config {
	viper.SetEnvPrefix("keybucket")
	viper.AutomaticEnv()
	viper.SetDefault("addr", ":8080")
	viper.SetDefault("capacity", 10)
	viper.SetDefault("refill_interval", time.Second)
	viper.SetDefault("refill_amount", 5)

	return config{
		Addr:           viper.GetString("addr"),
		Capacity:       viper.GetInt("capacity"),
		RefillInterval: viper.GetDuration("refill_interval"),
		RefillAmount:   viper.GetInt("refill_amount"),
	}
}

// rateLimit consumes one token per request, keyed by client IP.
func rateLimit(l *limiter.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		granted, remaining := l.Reduce(c.ClientIP(), 1)
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		if !granted {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":     "rate limit exceeded",
				"remaining": remaining,
			})
			return
		}
		c.Next()
	}
}

func main() {
	cfg := loadConfig()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	registry := prometheus.NewRegistry()
	recorder := metrics.NewRecorder(registry)

	l, err := limiter.New(cfg.Capacity, cfg.RefillInterval, cfg.RefillAmount,
		limiter.WithLogger(logger),
		limiter.WithRecorder(recorder),
	)
	if err != nil {
		logger.Fatal("invalid limiter configuration", zap.Error(err))
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(ginzap.Ginzap(logger, time.RFC3339, true))
	r.Use(ginzap.RecoveryWithZap(logger, true))

	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
	r.GET("/ping", rateLimit(l), func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})

	logger.Info("server listening",
		zap.String("addr", cfg.Addr),
		zap.Int("capacity", cfg.Capacity),
		zap.Duration("refill_interval", cfg.RefillInterval),
		zap.Int("refill_amount", cfg.RefillAmount))
	if err := r.Run(cfg.Addr); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
