package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/agrisetu/agri-trade-service/internal/app/background"
	"github.com/agrisetu/agri-trade-service/internal/config"
	httpapi "github.com/agrisetu/agri-trade-service/internal/delivery/http"
	"github.com/agrisetu/agri-trade-service/internal/infrastructure/kafka"
	"github.com/agrisetu/agri-trade-service/internal/infrastructure/metrics"
	"github.com/agrisetu/agri-trade-service/internal/infrastructure/migrate"
	"github.com/agrisetu/agri-trade-service/internal/infrastructure/notifier"
	"github.com/agrisetu/agri-trade-service/internal/infrastructure/postgres"
	"github.com/agrisetu/agri-trade-service/internal/infrastructure/postgres/repository"
	"github.com/agrisetu/agri-trade-service/internal/infrastructure/razorpay"
	"github.com/agrisetu/agri-trade-service/internal/usecase"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("failed to load .env")
	}
	// Reading config
	cfg := config.MustLoad()
	setupLogger(cfg)

	// Init database
	db := postgres.MustInitDB(cfg)
	if cfg.TradeDB.MigrationsPath != "" {
		if err := migrate.RunMigrations(db, cfg.TradeDB.MigrationsPath); err != nil {
			log.Fatalf("failed to run migrations: %v", err)
		}
	}

	// Repositories
	escrowRepo := repository.NewDefaultEscrowRepository(db)
	contractRepo := repository.NewDefaultContractRepository(db)
	requestRepo := repository.NewDefaultPaymentRequestRepository(db)
	reviewRepo := repository.NewDefaultReviewRepository(db)
	reputationRepo := repository.NewDefaultReputationRepository(db)
	partyStatsRepo := repository.NewDefaultPartyStatsRepository(db)

	// External boundaries
	gateway := razorpay.NewGateway(cfg.Razorpay.BaseURL, cfg.Razorpay.KeyID, cfg.Razorpay.KeySecret, cfg.Razorpay.Timeout)
	brokers := []string{fmt.Sprintf("%s:%s", cfg.Kafka.Host, cfg.Kafka.Port)}
	eventPublisher := kafka.NewKafkaPublisher(brokers, cfg.Kafka.Topic)
	defer eventPublisher.Close()
	dispatcher := notifier.NewFanout(
		eventPublisher,
		notifier.NewCallbackNotifier(cfg.Notifier.CallbackURL),
	)

	tradeMetrics := metrics.NewTradeMetrics()

	// Usecases
	escrowUC := usecase.NewDefaultEscrowUsecase(
		escrowRepo,
		requestRepo,
		gateway,
		dispatcher,
		tradeMetrics,
		cfg.Razorpay.Timeout,
		cfg.Escrow.GracePeriod,
		cfg.Escrow.FeeBps,
	)
	reputationUC := usecase.NewDefaultReputationUsecase(reviewRepo, reputationRepo, escrowRepo, partyStatsRepo)
	contractUC := usecase.NewDefaultContractUsecase(
		contractRepo,
		escrowRepo,
		escrowUC,
		partyStatsRepo,
		reputationUC,
		dispatcher,
		tradeMetrics,
	)
	requestUC := usecase.NewDefaultPaymentRequestUsecase(requestRepo, escrowUC, dispatcher, tradeMetrics)
	unifiedUC := usecase.NewDefaultUnifiedViewUsecase(contractRepo, escrowRepo)

	// Background tasks
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	tasks := background.NewBackgroundTasks(escrowUC, cfg.Escrow.SweepEvery)
	tasks.StartAll(ctx)

	// HTTP server
	handlers := httpapi.NewHandlers(escrowUC, contractUC, requestUC, reputationUC, unifiedUC)
	router := httpapi.NewRouter(handlers)

	addr := fmt.Sprintf("%s:%s", cfg.HTTPServer.Host, cfg.HTTPServer.Port)
	slog.Info("trade service listening", "addr", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("http server stopped: %v", err)
	}
}

func setupLogger(cfg *config.TradeConfig) {
	level := slog.LevelInfo
	switch cfg.LogConfig.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	var handler slog.Handler
	if cfg.LogConfig.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	}
	slog.SetDefault(slog.New(handler))
}
