package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/complaint-service/internal/config"
	"github.com/spec-kit/complaint-service/internal/events"
	"github.com/spec-kit/complaint-service/internal/notify"
	"github.com/spec-kit/complaint-service/internal/observability"
)

// NotificationRecorder counts notification outcomes.
type NotificationRecorder interface {
	RecordNotification(event, outcome string)
}

// NotificationService turns complaint events into admin emails.
type NotificationService struct {
	dispatcher events.Dispatcher
	mailer     notify.Mailer
	recorder   NotificationRecorder
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, mailer notify.Mailer, recorder NotificationRecorder, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		mailer:     mailer,
		recorder:   recorder,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventComplaintCreated, n.handleComplaintCreated)
	n.dispatcher.Subscribe(events.EventComplaintStatusChanged, n.handleComplaintStatusChanged)
}

func (n *NotificationService) handleComplaintCreated(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.ComplaintCreatedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T for %s", event.Payload, event.Type)
	}
	n.logger.Info("ComplaintCreated", zap.String("complaint_id", event.ComplaintID))

	msg, err := notify.ComplaintCreatedMessage(payload.Complaint, n.cfg.AdminEmail)
	if err != nil {
		return err
	}
	return n.deliver(ctx, event, msg)
}

func (n *NotificationService) handleComplaintStatusChanged(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.ComplaintStatusChangedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T for %s", event.Payload, event.Type)
	}
	n.logger.Info("ComplaintStatusChanged",
		zap.String("complaint_id", event.ComplaintID),
		zap.String("previous_status", string(payload.PreviousStatus)),
		zap.String("new_status", string(payload.NewStatus)))

	msg, err := notify.ComplaintStatusChangedMessage(payload.Complaint, payload.PreviousStatus, payload.NewStatus, n.cfg.AdminEmail)
	if err != nil {
		return err
	}
	return n.deliver(ctx, event, msg)
}

func (n *NotificationService) deliver(ctx context.Context, event events.Event, msg notify.Message) error {
	if strings.TrimSpace(msg.To) == "" {
		n.logger.Warn("no admin address configured; notification skipped",
			zap.String("event_type", string(event.Type)),
			zap.String("complaint_id", event.ComplaintID))
		return nil
	}
	if err := n.mailer.Send(ctx, msg); err != nil {
		n.record(event, observability.NotificationFailed)
		return fmt.Errorf("send %s notification: %w", event.Type, err)
	}
	n.record(event, observability.NotificationSent)
	return nil
}

func (n *NotificationService) record(event events.Event, outcome string) {
	if n.recorder != nil {
		n.recorder.RecordNotification(string(event.Type), outcome)
	}
}
