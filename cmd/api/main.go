package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	"github.com/bellenoire/salon-api/internal/config"
	dbpkg "github.com/bellenoire/salon-api/internal/db"
	"github.com/bellenoire/salon-api/internal/logger"
	"github.com/bellenoire/salon-api/internal/middleware"
	"github.com/bellenoire/salon-api/internal/routes"
)

func main() {

	cfg := config.Load()
	log := logger.New("salon-api")

	db := dbpkg.NewDB(cfg, log)

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		// Availability caching degrades to direct reads without redis.
		log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unavailable, caching disabled")
		rdb = nil
	}

	r := gin.Default()

	r.Use(middleware.CORSMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	routes.RegisterRoutes(r, db, rdb, cfg, log)

	log.Info().Str("addr", cfg.Addr()).Msg("server running")
	if err := r.Run(cfg.Addr()); err != nil {
		log.Fatal().Err(err).Msg("failed to start server")
	}
}
