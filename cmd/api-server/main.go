package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"reelog/database"
	"reelog/internal/assets"
	"reelog/internal/config"
	"reelog/internal/handler"
	"reelog/internal/identity"
	"reelog/internal/middleware"
	"reelog/internal/notify"
	"reelog/internal/repository"
	"reelog/internal/service"
	"reelog/internal/tmdb"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	db, err := database.ConnectDB(cfg, logger)
	if err != nil {
		logger.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	}()

	// Redis is optional; without it the catalog proxy just skips caching.
	redisClient := connectRedis(cfg, logger)
	if redisClient != nil {
		defer redisClient.Close()
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	movieRepo := repository.NewMovieRepository(db)
	logRepo := repository.NewWatchLogRepository(db)

	// Collaborators
	assetStore := assets.NewDiskStore(
		cfg.AssetDataPath,
		cfg.PublicBaseURL+"/assets",
		cfg.PublicBaseURL+"/uploads",
		cfg.IdentitySecret,
		cfg.UploadURLTTL,
	)
	verifier := identity.NewTokenVerifier(cfg.IdentitySecret, cfg.IdentityIssuer)
	hub := notify.NewHub(16)
	catalog := tmdb.NewCatalog(
		tmdb.NewClient(cfg.TMDBAPIURL, cfg.TMDBAccessToken),
		redisClient,
		cfg.CatalogTTL,
		logger,
	)

	// Services
	movieSvc := service.NewMovieService(movieRepo)
	userSvc := service.NewUserService(userRepo, assetStore, logger)
	logSvc := service.NewWatchLogService(logRepo, userRepo, movieRepo, hub)

	router := setupRouter(cfg, verifier, movieSvc, userSvc, logSvc, catalog, hub, assetStore)

	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	logger.Info("starting api server", "addr", addr, "env", cfg.GoEnv)
	if err := router.Run(addr); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

func connectRedis(cfg *config.Config, logger *slog.Logger) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unavailable, catalog caching disabled", "addr", cfg.RedisAddr, "error", err)
		client.Close()
		return nil
	}

	logger.Info("connected to redis", "addr", cfg.RedisAddr)
	return client
}

func setupRouter(
	cfg *config.Config,
	verifier identity.Verifier,
	movieSvc service.MovieService,
	userSvc service.UserService,
	logSvc service.WatchLogService,
	catalog *tmdb.Catalog,
	hub *notify.Hub,
	assetStore *assets.DiskStore,
) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowOrigins = cfg.CORSOrigins
	corsCfg.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsCfg.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	corsCfg.AllowCredentials = true
	corsCfg.MaxAge = 12 * time.Hour
	r.Use(cors.New(corsCfg))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	auth := middleware.AuthMiddleware(verifier)

	api := r.Group("/api")
	handler.NewMovieHandler(movieSvc).RegisterRoutes(api.Group("/movies"), auth)
	handler.NewCatalogHandler(catalog).RegisterRoutes(api)
	handler.NewActivityHandler(logSvc, hub).RegisterRoutes(api.Group("/activity"))

	authed := api.Group("")
	authed.Use(auth)
	handler.NewUserHandler(userSvc).RegisterRoutes(authed.Group("/users"))
	handler.NewWatchLogHandler(logSvc).RegisterRoutes(authed.Group("/logs"), authed.Group("/users"))

	// Signed uploads live outside /api; the URL itself carries authorization.
	handler.NewUploadHandler(assetStore, cfg.UploadMaxBytes).RegisterRoutes(r.Group("/uploads"))
	r.Static("/assets", assetStore.BaseDir())

	return r
}
