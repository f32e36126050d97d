package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Freeeeeet/court_booking/internal/app"
	"github.com/Freeeeeet/court_booking/internal/auth"
	"github.com/Freeeeeet/court_booking/internal/config"
	"github.com/Freeeeeet/court_booking/internal/controller"
	"github.com/Freeeeeet/court_booking/internal/controller/httpapi"
	"github.com/Freeeeeet/court_booking/internal/mq"
	"github.com/Freeeeeet/court_booking/internal/repository"
	"github.com/Freeeeeet/court_booking/internal/repository/memory"
	"github.com/Freeeeeet/court_booking/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/go-telegram/bot"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := app.NewLogger(cfg.Environment, cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}

	logger.Info("Starting court booking server",
		zap.String("environment", cfg.Environment),
		zap.String("storage", cfg.Storage),
		zap.Bool("env_file", cfg.EnvFileLoaded),
		zap.Bool("telegram", cfg.TelegramToken != ""),
		zap.Bool("events", cfg.RabbitURL != ""),
	)

	err = run(cfg, logger)
	if err != nil {
		logger.Error("Server stopped with error", zap.Error(err))
	} else {
		logger.Info("Server stopped")
	}
	_ = logger.Sync()

	if err != nil {
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		userRepo        service.UserRepository
		reservationRepo service.ReservationRepository
		articleRepo     service.ArticleRepository
	)

	switch cfg.Storage {
	case config.StorageMemory:
		store := memory.NewStore()
		userRepo, reservationRepo, articleRepo = store.Users(), store.Reservations(), store.Articles()
		logger.Warn("Using in-memory storage, data is lost on restart")
	default:
		pool, err := app.NewPool(ctx, cfg.DBDSN, logger)
		if err != nil {
			return err
		}
		defer pool.Close()

		migrator, err := app.NewMigrator(pool, cfg.MigrationsPath, logger)
		if err != nil {
			return err
		}
		err = migrator.Run(ctx)
		migrator.Close()
		if err != nil {
			return err
		}

		userRepo = repository.NewUserRepository(pool)
		reservationRepo = repository.NewReservationRepository(pool)
		articleRepo = repository.NewArticleRepository(pool)
	}

	var publisher service.EventPublisher
	if cfg.RabbitURL != "" {
		p, err := mq.NewPublisher(cfg.RabbitURL, cfg.EventsExchange)
		if err != nil {
			return err
		}
		defer p.Close()
		publisher = p
		logger.Info("Publishing reservation events", zap.String("exchange", cfg.EventsExchange))
	}

	userService := service.NewUserService(userRepo, logger)
	reservationService, err := service.NewReservationService(cfg.SchedulerConfig(), reservationRepo, publisher, logger)
	if err != nil {
		return err
	}

	articleService := service.NewArticleService(articleRepo, publisher, logger)

	if _, err := userService.EnsureAdmin(ctx, cfg.AdminUsername, cfg.AdminPassword); err != nil {
		return err
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	handler := httpapi.NewHandler(userService, reservationService, articleService, auth.NewIssuer(cfg.JWTSecret, cfg.TokenTTL), logger)
	router := httpapi.NewRouter(handler, httpapi.NewRateLimiter(cfg.AuthRateRPS, cfg.AuthRateBurst))
	server := httpapi.NewServer(cfg.HTTPAddr, router, logger)

	var botController *controller.BotController
	if cfg.TelegramToken != "" {
		b, err := bot.New(cfg.TelegramToken)
		if err != nil {
			return err
		}
		botController = controller.NewBotController(b, userService, reservationService, logger)
		if err := botController.RegisterHandlers(ctx); err != nil {
			logger.Warn("Bot commands menu not set", zap.Error(err))
		}
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.Run(ctx)
	})
	if botController != nil {
		g.Go(func() error {
			return botController.Start(ctx)
		})
	}

	return g.Wait()
}
