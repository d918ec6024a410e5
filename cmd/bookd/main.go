package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"bookd/internal/bank"
	"bookd/internal/config"
	cronrunner "bookd/internal/cron"
	"bookd/internal/db"
	"bookd/internal/handler"
	"bookd/internal/logger"
	gormrepository "bookd/internal/repository/gorm"
	"bookd/internal/service"
	"bookd/internal/stream"

	_ "bookd/docs"
)

func main() {
	cfgPath := os.Getenv("BOOKD_CONFIG")
	if cfgPath == "" {
		cfgPath = "config/config.yaml"
	}

	envOnly := false
	if envOnlyRaw := os.Getenv("BOOKD_ENV_ONLY"); envOnlyRaw != "" {
		envOnly = strings.EqualFold(envOnlyRaw, "true") || envOnlyRaw == "1"
	}

	cfg, err := config.Load(cfgPath, envOnly)
	if err != nil {
		panic(err)
	}

	logger, err := logger.New(cfg.Log)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	dbConn, err := db.Open(cfg.DB)
	if err != nil {
		logger.Fatal("db open failed", zap.Error(err))
	}
	defer db.Close(dbConn)

	if err := db.SetTimezone(dbConn, cfg.DB.Timezone); err != nil {
		logger.Warn("failed to set timezone", zap.Error(err))
	}
	if err := db.AutoMigrate(dbConn); err != nil {
		logger.Fatal("auto-migrate failed", zap.Error(err))
	}

	store := gormrepository.New(dbConn.Gorm)
	bankHTTP := &http.Client{Timeout: cfg.Bank.Timeout}
	bankClient := bank.NewClient(bankHTTP, cfg.Bank.BaseURL)

	var hub *stream.Hub
	if cfg.Stream.Enabled {
		hub = stream.NewHub(logger)
	}

	marketService := &service.MarketService{
		Repo:   store,
		Cfg:    cfg.Protocol,
		Logger: logger,
		Stream: hub,
	}

	if strings.EqualFold(cfg.App.Env, "dev") {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(corsMiddleware())

	healthHandler := &handler.HealthHandler{DB: dbConn.Gorm}
	healthHandler.Register(engine)
	marketHandler := &handler.MarketHandler{Service: marketService}
	marketHandler.Register(engine)
	betHandler := &handler.BetHandler{Service: marketService}
	betHandler.Register(engine)
	claimHandler := &handler.ClaimHandler{Service: marketService}
	claimHandler.Register(engine)
	if hub != nil {
		streamHandler := &handler.StreamHandler{Hub: hub}
		streamHandler.Register(engine)
	}

	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:    cfg.Server.HTTPAddr,
		Handler: engine,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cronRunner := cronrunner.New(logger, ctx)
	if cfg.Dispatch.Enabled {
		dispatcher := &service.PayoutDispatcher{
			Repo:      store,
			Bank:      bankClient,
			Logger:    logger,
			BatchSize: cfg.Dispatch.BatchSize,
		}
		_, err := cronRunner.Add(cfg.Dispatch.Spec, func(ctx context.Context) {
			if err := dispatcher.RunOnce(ctx); err != nil {
				logger.Warn("payout dispatch failed", zap.Error(err))
			}
		})
		if err != nil {
			logger.Warn("cron register payout dispatch failed", zap.Error(err))
		}
	}
	cronRunner.Start()
	defer cronRunner.Stop()

	errCh := make(chan error, 2)

	go func() {
		logger.Info("http server starting", zap.String("addr", cfg.Server.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown requested")
	case err := <-errCh:
		logger.Error("server error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,PATCH,OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type,X-Account")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
