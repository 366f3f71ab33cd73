package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"meishiClient/internal/bootstrap"
	"meishiClient/internal/config"
	bookinghttp "meishiClient/internal/modules/booking/interface"
	cataloghttp "meishiClient/internal/modules/catalog/interface"
	gatewayhttp "meishiClient/internal/modules/gateway/interface"
	interactionshttp "meishiClient/internal/modules/interactions/interface"
	realtimeusecase "meishiClient/internal/modules/realtime/application/usecase"
	"meishiClient/internal/modules/realtime/infrastructure"
	realtimehttp "meishiClient/internal/modules/realtime/interface"
	"meishiClient/internal/shared/logging"
	"meishiClient/internal/shared/notify"
)

func main() {
	// Attempt to load variables from .env so local runs honour configuration tweaks.
	if err := godotenv.Overload(); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, ".env load warning: %v\n", err)
		}
	}
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load error: %v\n", err)
		os.Exit(1)
	}

	logFile, logger, err := logging.OpenDaily(cfg.Logging.Directory, os.Stdout, logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		AddSource: true,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging setup error: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()
	slog.SetDefault(logger)
	slog.Info("logging initialized", slog.String("directory", cfg.Logging.Directory), slog.String("level", cfg.Logging.Level), slog.String("format", cfg.Logging.Format))

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	hub := infrastructure.NewHub()
	broadcastUC := realtimeusecase.NewBroadcastUseCase(hub)
	notices := realtimeusecase.NewNoticeBroadcaster(broadcastUC)
	notifier := notify.Multi(notify.NewLogNotifier(logger), notices)

	services, err := bootstrap.New(ctx, cfg, notifier)
	if err != nil {
		slog.Error("services setup failed", slog.Any("error", err))
		os.Exit(1)
	}
	defer services.Close()

	feed := realtimeusecase.NewInteractionFeed(services.Store, broadcastUC)
	feed.Start()
	defer feed.Stop()
	go services.Wizards.RunJanitor(ctx, min(cfg.Booking.WizardIdleTTL, time.Minute), cfg.Booking.WizardIdleTTL)

	e := echo.New()
	e.HideBanner = true
	e.Logger.SetOutput(log.Writer())
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(realtimehttp.SessionMiddleware())

	api := e.Group("/api")
	gatewayhttp.NewSessionHandler(services.Session).Register(api)
	cataloghttp.NewCatalogHandler(services.Catalog).Register(api)
	interactionshttp.NewInteractionHandler(services.Toggle).Register(api)
	bookinghttp.NewWizardHandler(services.Wizards).Register(api)
	bookinghttp.NewBoardHandler(services.Board).Register(api)
	api.POST("/notices", realtimehttp.NewNoticeHTTPHandler(notices))

	e.GET("/ws", realtimehttp.NewWebsocketHandler(hub, realtimehttp.WebsocketOptions{
		SendBuffer: cfg.Websocket.SendBuffer,
		Toggler:    services.Toggle,
		UserID:     services.UserID,
	}))
	e.GET("/ws/monitor", realtimehttp.NewMonitorWebsocketHandler(hub, cfg.Websocket.SendBuffer))

	go func() {
		if err := e.Start(":" + cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server stopped", slog.Any("error", err))
			cancel()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		slog.Error("http shutdown failed", slog.Any("error", err))
	}
}
