package worker

import (
	"go.uber.org/zap"

	"github.com/spec-kit/complaint-service/internal/config"
	"github.com/spec-kit/complaint-service/internal/events"
	"github.com/spec-kit/complaint-service/internal/notify"
	"github.com/spec-kit/complaint-service/internal/observability"
	"github.com/spec-kit/complaint-service/internal/service"
)

// NotificationWorker bundles the pool and the dispatcher feeding it.
type NotificationWorker struct {
	Pool       *Pool
	Dispatcher events.Dispatcher
}

// StartNotificationWorker starts the notification pool and registers the
// notification handlers on an asynchronous dispatcher backed by it.
func StartNotificationWorker(cfg config.NotificationConfig, mailer notify.Mailer, metrics *observability.Metrics, logger *zap.Logger) *NotificationWorker {
	pool := NewPool(cfg.Workers, cfg.QueueSize, logger)
	dispatcher := events.NewAsyncDispatcher(pool, logger, func(event events.Event, _ error) {
		metrics.RecordNotification(string(event.Type), observability.NotificationDropped)
	})

	notificationService := service.NewNotificationService(dispatcher, mailer, metrics, logger, cfg)
	notificationService.RegisterHandlers()

	return &NotificationWorker{Pool: pool, Dispatcher: dispatcher}
}
