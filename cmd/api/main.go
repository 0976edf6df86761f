package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/streadway/amqp"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/complaint-service/internal/api/http"
	"github.com/spec-kit/complaint-service/internal/api/http/handlers"
	"github.com/spec-kit/complaint-service/internal/auth"
	"github.com/spec-kit/complaint-service/internal/config"
	"github.com/spec-kit/complaint-service/internal/notify"
	"github.com/spec-kit/complaint-service/internal/observability"
	"github.com/spec-kit/complaint-service/internal/persistence"
	"github.com/spec-kit/complaint-service/internal/repository"
	"github.com/spec-kit/complaint-service/internal/service"
	"github.com/spec-kit/complaint-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if pg.Enabled() && cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	var (
		userRepo      repository.UserRepository
		complaintRepo repository.ComplaintRepository
		denylist      repository.TokenDenylist
	)
	if pg.Enabled() {
		userRepo = repository.NewUserRepository(pg.PoolHandle())
		complaintRepo = repository.NewComplaintRepository(pg.PoolHandle())
	} else {
		memUsers := repository.NewMemoryUserRepository()
		userRepo = memUsers
		complaintRepo = repository.NewMemoryComplaintRepository(memUsers)
	}
	if redis.Enabled() {
		denylist = repository.NewRedisTokenDenylist(redis.Client)
	} else {
		denylist = repository.NewMemoryTokenDenylist()
	}

	metrics := observability.NewMetrics("complaints")

	authService := service.NewAuthService(cfg.Auth, service.AuthDependencies{
		UserRepo:     userRepo,
		Denylist:     denylist,
		TokenManager: auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL()),
		Logger:       logger,
	})

	mailer, amqpConn := buildMailer(cfg.Notification, logger)
	if amqpConn != nil {
		defer amqpConn.Close()
	}
	notifications := worker.StartNotificationWorker(cfg.Notification, mailer, metrics, logger)

	complaintService := service.NewComplaintService(service.ComplaintDependencies{
		ComplaintRepo: complaintRepo,
		UserRepo:      userRepo,
		Dispatcher:    notifications.Dispatcher,
	})

	cookieSecure := cfg.Auth.CookieSecure || cfg.App.IsProduction()

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ErrorHandler: httptransport.ErrorHandler(logger, metrics),
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health: handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, map[string]handlers.Dependency{
			"postgres": pg,
			"redis":    redis,
		}),
		Auth:               handlers.NewAuthHandler(authService, cfg.Auth.CookieName, cookieSecure),
		Complaints:         handlers.NewComplaintsHandler(complaintService),
		AuthMiddleware:     auth.NewAuthMiddleware(authService, cfg.Auth.CookieName),
		PageGate:           auth.NewPageGate(authService, cfg.Auth.CookieName, cookieSecure),
		Metrics:            metrics.Handler(),
		RateLimitPerMinute: cfg.Auth.RateLimitPerMinute,
		RateLimitBurst:     cfg.Auth.RateLimitBurst,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.Shutdown(); err != nil {
		logger.Error("http shutdown", zap.Error(err))
	}

	drainCtx, drainCancel := context.WithTimeout(context.Background(), cfg.Notification.ShutdownTimeout())
	defer drainCancel()
	if err := notifications.Pool.Shutdown(drainCtx); err != nil {
		logger.Warn("notification queue not fully drained", zap.Error(err))
	}
}

// buildMailer prefers the AMQP queue, then direct SMTP, then logging only.
func buildMailer(cfg config.NotificationConfig, logger *zap.Logger) (notify.Mailer, *amqp.Connection) {
	if cfg.AMQPURL != "" {
		conn, ch, err := notify.DialAMQP(cfg.AMQPURL, cfg.AMQPQueue)
		if err == nil {
			logger.Info("notifications published to amqp", zap.String("queue", cfg.AMQPQueue))
			return notify.NewAMQPMailer(ch, cfg.AMQPQueue), conn
		}
		logger.Warn("amqp unavailable; falling back", zap.Error(err))
	}
	if cfg.SMTPEnabled() {
		logger.Info("notifications sent over smtp", zap.String("host", cfg.SMTPHost))
		return notify.NewSMTPMailer(notify.NewSMTPTransport(cfg, logger), cfg.EmailFrom, logger), nil
	}
	logger.Warn("no mail transport configured; notifications are logged only")
	return notify.NewLogMailer(logger), nil
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
