package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/cooperval/controladoria/internal/app"
	"github.com/cooperval/controladoria/internal/dre"
	drehttp "github.com/cooperval/controladoria/internal/dre/http"
	"github.com/cooperval/controladoria/internal/masterdata/commitments"
	"github.com/cooperval/controladoria/internal/masterdata/groups"
	"github.com/cooperval/controladoria/internal/masterdata/types"
	"github.com/cooperval/controladoria/internal/observability"
	"github.com/cooperval/controladoria/internal/platform/cache"
	"github.com/cooperval/controladoria/internal/platform/db"
	"github.com/cooperval/controladoria/internal/platform/httpx"
	"github.com/cooperval/controladoria/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	reportCache := dre.NewCache(redisClient, cfg.ReportCacheTTL)
	reportRepo := dre.NewRepository(pool)
	reportService := dre.NewService(reportRepo, reportCache, logger)
	reportHandler := drehttp.NewHandler(logger, reportService)

	typesService := types.NewService(types.NewRepository(pool), reportService, logger)
	groupsService := groups.NewService(groups.NewRepository(pool), reportService, logger)
	commitmentsService := commitments.NewService(commitments.NewRepository(pool), reportService, logger)

	jobClient, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Error("init job client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := jobClient.Close(); err != nil {
			logger.Warn("job client close", slog.Any("error", err))
		}
	}()

	metrics := observability.NewMetrics()

	router := app.NewRouter(app.RouterParams{
		Logger:             logger,
		Config:             cfg,
		DREHandler:         reportHandler,
		TypesHandler:       types.NewHandler(logger, typesService),
		GroupsHandler:      groups.NewHandler(logger, groupsService),
		CommitmentsHandler: commitments.NewHandler(logger, commitmentsService),
		WarmupTrigger:      warmupTrigger(logger, jobClient),
		Metrics:            metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}

// warmupTrigger enqueues an on-demand warm-up run for the given companies.
func warmupTrigger(logger *slog.Logger, client *jobs.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload jobs.DREWarmupPayload
		if err := httpx.DecodeJSON(r, &payload); err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Requisição inválida", "corpo da requisição inválido")
			return
		}
		info, err := client.EnqueueDREWarmup(r.Context(), payload)
		if err != nil {
			logger.Error("enqueue dre warmup", slog.Any("error", err))
			httpx.Problem(w, http.StatusBadGateway, "Fila indisponível", "não foi possível enfileirar o aquecimento")
			return
		}
		httpx.JSON(w, http.StatusAccepted, map[string]string{
			"task_id": info.ID,
			"queue":   info.Queue,
		})
	}
}
