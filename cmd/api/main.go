package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	"github.com/whisperbox/whisperbox-backend/internal/config"
	"github.com/whisperbox/whisperbox-backend/internal/handler"
	"github.com/whisperbox/whisperbox-backend/internal/middleware"
	"github.com/whisperbox/whisperbox-backend/internal/migration"
	"github.com/whisperbox/whisperbox-backend/internal/repository"
	"github.com/whisperbox/whisperbox-backend/internal/routes"
	"github.com/whisperbox/whisperbox-backend/internal/service"
	"github.com/whisperbox/whisperbox-backend/internal/ws"
	"github.com/whisperbox/whisperbox-backend/pkg/authprovider"
	"github.com/whisperbox/whisperbox-backend/pkg/cache"
	"github.com/whisperbox/whisperbox-backend/pkg/iplookup"
	"github.com/whisperbox/whisperbox-backend/pkg/jwt"
	pkglogger "github.com/whisperbox/whisperbox-backend/pkg/logger"
	pkgredis "github.com/whisperbox/whisperbox-backend/pkg/redis"
	"github.com/whisperbox/whisperbox-backend/pkg/storage"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func main() {
	appEnv := os.Getenv("APP_ENV")
	if appEnv == "" {
		appEnv = "local"
	}

	// .env 로드 (OS 환경변수가 우선)
	loadedEnv := config.LoadDotEnv(appEnv)

	pkglogger.InitStructured(appEnv)
	log := pkglogger.GetLogger()
	if len(loadedEnv) > 0 {
		log.Info().Strs("files", loadedEnv).Msg("loaded env files")
	}

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = fmt.Sprintf("configs/config.%s.yaml", appEnv)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", configPath).Msg("failed to load config")
	}
	config.LogResolved(cfg)

	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}

	// MySQL 연결
	db, err := initDB(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := migration.Run(db); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate schema")
	}

	ctx, stopBackground := context.WithCancel(context.Background())
	defer stopBackground()

	if sqlDB, err := db.DB(); err == nil {
		go middleware.TrackDBConnections(ctx, sqlDB, 15*time.Second)
	}

	// Redis 연결 (선택)
	var redisClient *goredis.Client
	redisClient, err = pkgredis.NewClient(ctx, pkgredis.Options{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})
	if err != nil {
		log.Warn().Err(err).Msg("Redis unavailable; cache, rate limiting and event fan-out disabled")
		redisClient = nil
	}
	cacheService := cache.NewService(redisClient, cfg.Cache.ProfileTTL)

	// S3 호환 스토리지 (선택)
	var objectStore service.ObjectStorage
	if cfg.Storage.Enabled {
		s3Client, err := storage.NewS3Client(storage.S3Config{
			Endpoint:        cfg.Storage.Endpoint,
			Region:          cfg.Storage.Region,
			AccessKeyID:     cfg.Storage.AccessKeyID,
			SecretAccessKey: cfg.Storage.SecretAccessKey,
			PublicBaseURL:   cfg.Storage.PublicBaseURL,
			ForcePathStyle:  cfg.Storage.ForcePathStyle,
		})
		if err != nil {
			log.Warn().Err(err).Msg("object storage disabled")
		} else {
			objectStore = s3Client
		}
	}

	resolver := iplookup.NewResolver(cfg.IPLookup.PrimaryURL, cfg.IPLookup.FallbackURL, cfg.IPLookup.Timeout, nil)
	collector := service.NewMetadataCollector(resolver, cfg.IPLookup.TrustClientIP)
	authClient := authprovider.NewClient(cfg.AuthProvider.URL, cfg.AuthProvider.APIKey, cfg.AuthProvider.Timeout)
	jwtManager := jwt.NewManager(cfg.JWT.Secret, cfg.JWT.Issuer)

	// WebSocket Hub
	hub := ws.NewHub(redisClient)
	go hub.Run()

	// Repositories
	messageRepo := repository.NewMessageRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	viewRepo := repository.NewProfileViewRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	prefRepo := repository.NewPreferenceRepository(db)
	accountRepo := repository.NewAccountRepository(db)

	// Services
	uploadService := service.NewUploadService(objectStore)
	viewService := service.NewProfileViewService(viewRepo, profileRepo, collector, cfg.ProfileViews.RecordTimeout)
	messageService := service.NewMessageService(
		messageRepo, profileRepo, collector, hub,
		cfg.Messages.MaxLength, cfg.Messages.CaptureRegisteredMetadata,
	)
	inboxService := service.NewInboxService(messageRepo, viewService)
	profileService := service.NewProfileService(profileRepo, uploadService, cacheService, cfg.Storage.Bucket)
	accountService := service.NewAccountService(authClient, profileRepo, roleRepo)
	preferenceService := service.NewPreferenceService(prefRepo)
	adminService := service.NewAdminService(
		messageRepo, profileRepo, roleRepo, accountRepo,
		uploadService, cacheService, cfg.Storage.Bucket,
	)

	router := gin.New()
	router.Use(gin.Recovery())

	allowOrigins := splitAndTrim(cfg.CORS.AllowOrigins, ",")
	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID", "Accept-Language"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           86400 * time.Second,
	}))
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.InputSanitizer())
	router.Use(middleware.Metrics())
	router.Use(middleware.RequestLogger())

	// Prometheus
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		status := "ok"
		if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
			status = "degraded"
		}
		cacheStatus := "disabled"
		if cacheService.IsAvailable() {
			cacheStatus = "ok"
			if err := cacheService.Ping(c.Request.Context()); err != nil {
				cacheStatus = "unreachable"
			}
		}
		c.JSON(http.StatusOK, gin.H{
			"status":  status,
			"cache":   cacheStatus,
			"service": "whisperbox-api",
			"time":    time.Now().UTC().Format(time.RFC3339),
		})
	})

	routes.Setup(router, routes.Handlers{
		Message: handler.NewMessageHandler(messageService),
		Inbox:   handler.NewInboxHandler(inboxService),
		Profile: handler.NewProfileHandler(profileService, viewService),
		Account: handler.NewAccountHandler(accountService, preferenceService),
		Admin:   handler.NewAdminHandler(adminService),
		WS:      handler.NewWSHandler(hub, cfg.CORS.AllowOrigins),
	}, jwtManager, adminService, redisClient, cfg)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Str("env", cfg.Server.Env).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	stopBackground()
	hub.Stop()
	if redisClient != nil {
		_ = redisClient.Close()
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

// splitAndTrim splits s by sep and drops empty parts
func splitAndTrim(s, sep string) []string {
	parts := []string{}
	for _, part := range strings.Split(s, sep) {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}

func initDB(cfg *config.Config) (*gorm.DB, error) {
	mysqlCfg, err := mysqldriver.ParseDSN(cfg.Database.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("parse DSN: %w", err)
	}
	if mysqlCfg.Params == nil {
		mysqlCfg.Params = map[string]string{}
	}
	mysqlCfg.Params["time_zone"] = "'+00:00'"

	logLevel := gormlogger.Warn
	if cfg.IsDevelopment() {
		logLevel = gormlogger.Info
	}

	db, err := gorm.Open(mysql.Open(mysqlCfg.FormatDSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	return db, nil
}
