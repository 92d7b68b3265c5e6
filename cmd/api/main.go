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

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"agrirent/internal/adapter/api"
	"agrirent/internal/adapter/api/handler"
	apimiddleware "agrirent/internal/adapter/api/middleware"
	"agrirent/internal/adapter/api/router"
	"agrirent/internal/infrastructure/ratelimit"
	"agrirent/internal/infrastructure/websocket"
	"agrirent/internal/usecase"
	"agrirent/pkg/config"
	"agrirent/pkg/logger"
	"agrirent/pkg/response"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := logger.Init(cfg.Environment, cfg.LogLevel); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		logger.Error("server stopped: %v", err)
		logger.Sync()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	deps, err := buildDependencies(ctx, cfg)
	if err != nil {
		return err
	}
	defer deps.Close()

	wsManager := websocket.NewManager()
	wsManager.Start(ctx)

	limiter := ratelimit.NewRateLimiter()
	limiter.StartCleanupRoutine(ctx)

	authUseCase := usecase.NewAuthUseCase(deps.users, deps.tokens)
	userUseCase := usecase.NewUserUseCase(deps.users)
	chatUseCase := usecase.NewChatUseCase(deps.chats, deps.users, wsManager)
	landUseCase := usecase.NewLandUseCase(deps.lands, deps.users, deps.geo, chatUseCase, deps.events)
	rentalUseCase := usecase.NewRentalUseCase(deps.rentals, deps.lands, deps.users, deps.renderer, deps.files, deps.events, wsManager)
	paymentUseCase := usecase.NewPaymentUseCase(deps.rentals, deps.lands, deps.gateway, deps.events, wsManager)
	chatbotUseCase := usecase.NewChatbotUseCase(deps.completion, deps.events, cfg.ChatbotTimeout)

	paymentUseCase.StartOverdueSweep(ctx, cfg.OverdueSweepInterval)

	handler.Setup(authUseCase, userUseCase, landUseCase, rentalUseCase, paymentUseCase, chatUseCase, chatbotUseCase)
	handler.SetupFileHandler(deps.files)
	handler.SetupHealthHandler(deps.healthChecks)
	handler.SetupWebSocketHandler(wsManager)

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = response.HTTPErrorHandler
	e.Validator = api.NewValidator()

	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.BodyLimit("10M"))
	e.Use(requestLogger())
	e.Use(apimiddleware.Metrics())

	if deps.localRoot != "" {
		e.Static("/files", deps.localRoot)
	}

	authMiddleware := apimiddleware.NewAuthMiddleware(authUseCase)
	router.Setup(e, authMiddleware, limiter)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting server on port %s (%s store, %s auth, %s payments)",
			cfg.ServerPort, cfg.StoreDriver, cfg.AuthProvider, deps.gateway.Name())
		if err := e.Start(":" + cfg.ServerPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

func requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		LogUserAgent: false,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("remote_ip", v.RemoteIP),
			}
			if uid := apimiddleware.CurrentUserID(c); uid != "" {
				fields = append(fields, zap.String("uid", uid))
			}
			if v.Error != nil {
				logger.L().Warn("request failed", append(fields, zap.Error(v.Error))...)
				return nil
			}
			logger.L().Info("request", fields...)
			return nil
		},
	})
}
