package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/noah-isme/garden-network-api/api/swagger"
	"github.com/noah-isme/garden-network-api/internal/handler"
	"github.com/noah-isme/garden-network-api/internal/middleware"
	"github.com/noah-isme/garden-network-api/internal/repository"
	"github.com/noah-isme/garden-network-api/internal/router"
	"github.com/noah-isme/garden-network-api/internal/service"
	"github.com/noah-isme/garden-network-api/pkg/cache"
	"github.com/noah-isme/garden-network-api/pkg/config"
	"github.com/noah-isme/garden-network-api/pkg/database"
	"github.com/noah-isme/garden-network-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/garden-network-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/garden-network-api/pkg/middleware/requestid"
)

// @title Garden Network API
// @version 0.1.0
// @description Inter-classroom social network service
// @BasePath /
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, leaderboard caching disabled", "error", err)
		redisClient = nil
	}

	metricsSvc := service.NewMetricsService()

	profileRepo := repository.NewProfileRepository(db)
	connectionRepo := repository.NewConnectionRepository(db)
	challengeRepo := repository.NewChallengeRepository(db)
	classroomRepo := repository.NewClassroomRepository(db)
	harvestRepo := repository.NewHarvestRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, metricsSvc, logr)
	defer cacheRepo.Close() //nolint:errcheck

	authSvc := service.NewAuthService(service.AuthConfig{AccessTokenSecret: cfg.JWT.Secret}, logr)
	profileSvc := service.NewProfileService(profileRepo, cacheRepo, nil, logr)
	connectionSvc := service.NewConnectionService(connectionRepo, profileRepo, nil, logr)
	discoverySvc := service.NewDiscoveryService(profileRepo, connectionSvc, cfg.Network.DiscoveryPageSize, logr)
	leaderboardSvc := service.NewLeaderboardService(profileRepo, harvestRepo, classroomRepo, connectionSvc, cacheRepo, cfg.Network.LeaderboardCacheTTL, cfg.Network.LeaderboardLimit, logr)
	challengeSvc := service.NewChallengeService(challengeRepo, leaderboardSvc, logr)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "db unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	router.Register(api, authSvc, router.Handlers{
		Profile:     handler.NewProfileHandler(profileSvc),
		Discovery:   handler.NewDiscoveryHandler(discoverySvc),
		Connection:  handler.NewConnectionHandler(connectionSvc),
		Challenge:   handler.NewChallengeHandler(challengeSvc),
		Leaderboard: handler.NewLeaderboardHandler(leaderboardSvc),
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
