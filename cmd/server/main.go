package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/wuwenbin0122/taskpad/internal/api"
	"github.com/wuwenbin0122/taskpad/internal/auth"
	"github.com/wuwenbin0122/taskpad/internal/db"
	"github.com/wuwenbin0122/taskpad/internal/todos"
	"github.com/wuwenbin0122/taskpad/internal/utils"
)

// store is what every driver provides: users, to-dos and a liveness probe.
type store interface {
	auth.UserStore
	todos.Store
	Ping(ctx context.Context) error
}

func main() {
	if err := utils.LoadEnvFiles(".env", "config/.env"); err != nil {
		log.Printf("config: env file not loaded: %v", err)
	}

	cfg, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("config: failed to load: %v", err)
	}

	logger, err := utils.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("logger: failed to build: %v", err)
	}
	defer func() { _ = logger.Sync() }()
	sugar := logger.Sugar()

	ctx := context.Background()

	backend, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		sugar.Fatalw("store: failed to open", "driver", cfg.StoreDriver, "error", err)
	}
	defer closeStore()

	hasher, err := auth.NewHasher(cfg.HashCost)
	if err != nil {
		sugar.Fatalw("failed to initialise hasher", "error", err)
	}

	tokens, err := auth.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		sugar.Fatalw("failed to initialise token service", "error", err)
	}

	authService := auth.NewService(backend, hasher, tokens)
	todoService := todos.NewService(backend)

	router := setupRouter(cfg, backend, api.NewHandler(authService, todoService, sugar.Named("api")))

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		sugar.Infow("server listening", "addr", server.Addr, "store", cfg.StoreDriver)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			sugar.Fatalw("server crashed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		sugar.Warnw("graceful shutdown failed", "error", err)
	}

	sugar.Info("server stopped cleanly")
}

func openStore(ctx context.Context, cfg *utils.Config) (store, func(), error) {
	switch cfg.StoreDriver {
	case utils.StorePostgres:
		postgres, err := db.NewPostgres(ctx, cfg.Postgres)
		if err != nil {
			return nil, nil, err
		}
		if err := postgres.Ping(ctx); err != nil {
			postgres.Close()
			return nil, nil, err
		}
		if err := postgres.EnsureSchema(ctx); err != nil {
			postgres.Close()
			return nil, nil, err
		}
		return postgres, postgres.Close, nil

	case utils.StoreMemory:
		zap.S().Warn("store: using in-memory store, data is lost on restart")
		return db.NewMemory(), func() {}, nil

	default:
		mongoStore, err := db.NewMongo(ctx, cfg.Mongo)
		if err != nil {
			return nil, nil, err
		}
		closeMongo := func() {
			if err := mongoStore.Close(context.Background()); err != nil {
				zap.S().Warnw("mongo: close error", "error", err)
			}
		}
		if err := mongoStore.EnsureCollections(ctx); err != nil {
			closeMongo()
			return nil, nil, err
		}
		return mongoStore, closeMongo, nil
	}
}

func setupRouter(cfg *utils.Config, backend store, handler *api.Handler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery(), api.CORS(cfg.CORSOrigins))

	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Taskpad backend is operational.")
	})

	router.GET("/health", func(c *gin.Context) {
		status, code := "ok", http.StatusOK
		if err := backend.Ping(c.Request.Context()); err != nil {
			zap.S().Warnw("health: store ping failed", "error", err)
			status, code = "degraded", http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{
			"status":    status,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})

	handler.RegisterRoutes(router)

	return router
}
