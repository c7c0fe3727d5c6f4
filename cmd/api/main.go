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
	"github.com/ideafund/ideafund-backend/internal/config"
	"github.com/ideafund/ideafund-backend/internal/database"
	"github.com/ideafund/ideafund-backend/internal/handler"
	"github.com/ideafund/ideafund-backend/internal/middleware"
	"github.com/ideafund/ideafund-backend/internal/migration"
	"github.com/ideafund/ideafund-backend/internal/repository"
	"github.com/ideafund/ideafund-backend/internal/routes"
	"github.com/ideafund/ideafund-backend/internal/service"
	"github.com/ideafund/ideafund-backend/internal/ws"
	"github.com/ideafund/ideafund-backend/pkg/cache"
	es "github.com/ideafund/ideafund-backend/pkg/elasticsearch"
	"github.com/ideafund/ideafund-backend/pkg/i18n"
	"github.com/ideafund/ideafund-backend/pkg/jwt"
	pkglogger "github.com/ideafund/ideafund-backend/pkg/logger"
	pkgredis "github.com/ideafund/ideafund-backend/pkg/redis"
	"github.com/ideafund/ideafund-backend/pkg/storage"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

// @title           Ideafund API
// @version         1.0
// @description     Crowdfunding campaigns, coin voting and the campaign block editor
//
// @host            localhost:8080
// @BasePath        /api/v1
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Authorization header using the Bearer scheme. Example: "Bearer {token}"

// getConfigPath returns config file path based on APP_ENV environment variable
func getConfigPath() string {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}
	return fmt.Sprintf("configs/config.%s.yaml", env)
}

func main() {
	loaded := config.LoadDotEnv()

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}
	pkglogger.InitStructured(env)
	if len(loaded) > 0 {
		pkglogger.Info("loaded env files: %v", loaded)
	}

	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		pkglogger.GetLogger().Fatal().Err(err).Str("path", configPath).Msg("failed to load config")
	}
	config.LogResolved(cfg)

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Open(cfg.Database, cfg.IsDevelopment())
	if err != nil {
		pkglogger.GetLogger().Fatal().Err(err).Str("driver", cfg.Database.Driver).Msg("failed to connect to database")
	}
	if err := migration.Run(db); err != nil {
		pkglogger.GetLogger().Fatal().Err(err).Msg("migration failed")
	}
	pkglogger.Info("database connected (%s)", cfg.Database.Driver)

	// Redis 없이도 동작 (캐시, 레이트리밋, 허브 팬아웃 비활성)
	var redisClient *redis.Client
	if cfg.Redis.Host != "" {
		redisClient, err = pkgredis.NewClient(cfg.Redis.Host, cfg.Redis.Port, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.PoolSize)
		if err != nil {
			pkglogger.Warn("redis unavailable, continuing without it: %v", err)
			redisClient = nil
		} else {
			pkglogger.Info("redis connected")
		}
	}
	cacheService := cache.NewService(redisClient)

	var searchIndex service.SearchIndex
	if cfg.Elasticsearch.Enabled {
		esClient, err := es.NewClient(cfg.Elasticsearch.Addresses, cfg.Elasticsearch.Username, cfg.Elasticsearch.Password)
		if err != nil {
			pkglogger.Warn("elasticsearch unavailable, using SQL search: %v", err)
		} else {
			searchIndex = esClient
		}
	}

	store, err := newObjectStorage(cfg)
	if err != nil {
		pkglogger.GetLogger().Fatal().Err(err).Msg("failed to initialize object storage")
	}

	if _, err := os.Stat("i18n"); err == nil {
		if err := i18n.Default().LoadDir("i18n"); err != nil {
			pkglogger.Warn("i18n LoadDir failed: %v", err)
		}
	}

	hub := ws.NewHub(redisClient)
	go hub.Run()

	jwtManager := jwt.NewManager(cfg.JWT.Secret, cfg.JWT.ExpiresIn, cfg.JWT.RefreshIn)

	// Repositories
	userRepo := repository.NewUserRepository(db)
	coinRepo := repository.NewCoinRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	campaignRepo := repository.NewCampaignRepository(db)
	voteRepo := repository.NewVoteRepository(db)
	messageRepo := repository.NewMessageRepository(db)

	// Services
	authService := service.NewAuthService(userRepo, jwtManager, cfg.Coins.SignupGrant)
	coinService := service.NewCoinService(coinRepo, cacheService, cfg.Coins.BalanceTTL, nil)
	messageService := service.NewMessageService(messageRepo, userRepo, hub)
	submissionService := service.NewSubmissionService(submissionRepo, messageService)
	searchService := service.NewSearchService(searchIndex, campaignRepo)
	campaignService := service.NewCampaignService(campaignRepo, submissionRepo, searchService, cacheService)
	voteService := service.NewVoteService(voteRepo, coinService, campaignService, hub, cfg.Coins.VoteCost)
	mediaService := service.NewMediaService(store, cfg.Editor.MaxImageBytes, middleware.ObserveUpload)
	editorService := service.NewEditorService(campaignService, mediaService, hub, service.EditorConfig{
		SessionTTL:        cfg.Editor.SessionTTL,
		UploadTimeout:     cfg.Editor.UploadTimeout,
		UploadConcurrency: cfg.Editor.UploadConcurrency,
	})
	editorService.Start()

	if searchIndex != nil {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
			defer cancel()
			if err := searchService.Reindex(ctx); err != nil {
				pkglogger.Warn("search reindex failed: %v", err)
			}
		}()
	}

	h := &routes.Handlers{
		Auth:       handler.NewAuthHandler(authService),
		Coin:       handler.NewCoinHandler(coinService),
		Submission: handler.NewSubmissionHandler(submissionService),
		Campaign:   handler.NewCampaignHandler(campaignService, searchService),
		Vote:       handler.NewVoteHandler(voteService),
		Message:    handler.NewMessageHandler(messageService),
		Media:      handler.NewMediaHandler(mediaService),
		Editor:     handler.NewEditorHandler(editorService, mediaService),
		WS:         handler.NewWSHandler(hub, cfg.CORS.AllowOrigins, messageService),
	}

	router := gin.New()
	router.Use(gin.Recovery())

	corsConfig := cors.Config{
		AllowOrigins:     splitAndTrim(cfg.CORS.AllowOrigins, ","),
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		AllowCredentials: true,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Remaining"},
		MaxAge:           12 * time.Hour,
	}
	if len(corsConfig.AllowOrigins) == 0 {
		corsConfig.AllowOrigins = []string{"http://localhost:3000"}
	}
	router.Use(cors.New(corsConfig))

	router.Use(middleware.I18n())
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.Metrics())
	router.Use(middleware.RequestLogger())

	var extra []gin.HandlerFunc
	if redisClient != nil && !cfg.IsDevelopment() {
		limits := middleware.DefaultRateLimitConfig()
		limits.RequestsPerMinute = cfg.Server.RateLimitPerMinute
		extra = append(extra, middleware.RateLimit(redisClient, limits))
	}

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/health", healthHandler(db))
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	routes.Setup(router, h, jwtManager, middleware.NewAuditLogger(db), extra...)

	stopStats := make(chan struct{})
	go reportDBStats(db, stopStats)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		pkglogger.Info("server starting on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			pkglogger.GetLogger().Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	pkglogger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		pkglogger.Error("server shutdown: %v", err)
	}

	// 업로드 취소 후 세션 정리, 그다음 허브
	editorService.Shutdown()
	hub.Stop()
	close(stopStats)

	if redisClient != nil {
		_ = redisClient.Close()
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	pkglogger.Info("server stopped")
}

// newObjectStorage picks S3 when configured, otherwise in-process memory
func newObjectStorage(cfg *config.Config) (storage.ObjectStorage, error) {
	if !cfg.Storage.Enabled {
		pkglogger.Warn("object storage disabled, uploads are kept in memory")
		return storage.NewMemoryStorage(fmt.Sprintf("http://localhost:%d/uploads", cfg.Server.Port)), nil
	}
	return storage.NewS3Client(storage.S3Config{
		Endpoint:        cfg.Storage.Endpoint,
		Region:          cfg.Storage.Region,
		AccessKeyID:     cfg.Storage.AccessKeyID,
		SecretAccessKey: cfg.Storage.SecretAccessKey,
		Bucket:          cfg.Storage.Bucket,
		CDNURL:          cfg.Storage.CDNURL,
		BasePath:        cfg.Storage.BasePath,
		ForcePathStyle:  cfg.Storage.ForcePathStyle,
	})
}

func healthHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		status, code := "ok", http.StatusOK
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			status, code = "degraded", http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{
			"status":  status,
			"service": "ideafund-backend",
			"time":    time.Now().Unix(),
		})
	}
}

// reportDBStats feeds the open-connection gauge until stop closes
func reportDBStats(db *gorm.DB, stop <-chan struct{}) {
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if sqlDB, err := db.DB(); err == nil {
				middleware.SetDBConnectionsActive(float64(sqlDB.Stats().InUse))
			}
		case <-stop:
			return
		}
	}
}

func splitAndTrim(s, sep string) []string {
	var out []string
	for _, part := range strings.Split(s, sep) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
