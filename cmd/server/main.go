package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/dromero/jsonkeep/internal/auth"
	"github.com/dromero/jsonkeep/internal/config"
	"github.com/dromero/jsonkeep/internal/database"
	"github.com/dromero/jsonkeep/internal/handler"
	"github.com/dromero/jsonkeep/internal/logger"
	"github.com/dromero/jsonkeep/internal/middleware"
	"github.com/dromero/jsonkeep/internal/problem"
	"github.com/dromero/jsonkeep/internal/queue"
	"github.com/dromero/jsonkeep/internal/repository"
	"github.com/dromero/jsonkeep/internal/router"
	"github.com/dromero/jsonkeep/internal/service"
	"github.com/dromero/jsonkeep/internal/token"
	"github.com/dromero/jsonkeep/internal/utils"

	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load() // .env is optional; real deployments set the environment

	cfg := config.Load()
	log := logger.New(cfg.Env, os.Getenv("LOG_LEVEL"))
	defer log.Sync() //nolint:errcheck

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatal("database unreachable", zap.Error(err))
	}
	defer db.Close()

	bootCtx, bootCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer bootCancel()
	if err := database.Migrate(bootCtx, db); err != nil {
		log.Fatal("schema bootstrap failed", zap.Error(err))
	}
	adminHash, err := utils.HashPassword(cfg.AdminPassword, cfg.BcryptCost)
	if err != nil {
		log.Fatal("hashing bootstrap admin password failed", zap.Error(err))
	}
	if err := database.EnsureFirstAdmin(bootCtx, db, cfg.AdminUsername, adminHash); err != nil {
		log.Fatal("admin bootstrap failed", zap.Error(err))
	}

	users := repository.NewUserRepo(db)
	sessions := repository.NewSessionRepo(db)
	docs := repository.NewDocumentRepo(db)

	codec := token.NewCodec(cfg.JWTSecret, cfg.TokenTTL)
	events := queue.NewPublisher(log)

	authSvc := auth.NewService(users, sessions, auth.VerifierFunc(utils.VerifyPassword), codec, events, log)
	userSvc := service.NewUserService(users, authSvc, cfg.BcryptCost, log)
	jsonSvc := service.NewJSONService(docs, users, log)

	reapCtx, reapCancel := context.WithCancel(context.Background())
	defer reapCancel()
	reaper := auth.NewReaper(sessions, log,
		cfg.ExpireInterval(), cfg.ExpireHorizon(), cfg.DeleteInterval(), config.DeleteHorizon)
	go reaper.Run(reapCtx)

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Warn("redis unreachable, public response cache disabled")
	}

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = problem.ErrorHandler(cfg.Hostname, log)
	e.Use(echomw.Recover())
	e.Use(middleware.Locale())
	e.Use(middleware.Authenticator(codec, users, sessions))

	router.Register(e,
		handler.NewAuthHandler(authSvc),
		handler.NewManagementHandler(userSvc),
		handler.NewProfileHandler(userSvc),
		handler.NewJSONHandler(jsonSvc),
		rdb)

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server stopped", zap.Error(err))
		}
	}()
	log.Info("listening", zap.String("port", cfg.Port), zap.String("env", cfg.Env))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	reapCancel()
	shutCtx, shutCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutCancel()
	if err := e.Shutdown(shutCtx); err != nil {
		log.Error("shutdown", zap.Error(err))
	}
}
