package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-gateway/internal/domain"
	"github.com/spec-kit/helpdesk-gateway/internal/events"
	"github.com/spec-kit/helpdesk-gateway/internal/repository"
)

// DeliveryLogService records forward outcomes emitted by the forwarder.
type DeliveryLogService struct {
	dispatcher events.Dispatcher
	repo       repository.DeliveryRepository
	logger     *zap.Logger
}

// NewDeliveryLogService creates the service. repo may be nil, in which case outcomes are only logged.
func NewDeliveryLogService(dispatcher events.Dispatcher, repo repository.DeliveryRepository, logger *zap.Logger) *DeliveryLogService {
	return &DeliveryLogService{
		dispatcher: dispatcher,
		repo:       repo,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to events.
func (s *DeliveryLogService) RegisterHandlers() {
	if s.dispatcher == nil {
		return
	}
	s.dispatcher.Subscribe(events.EventTicketForwarded, s.handleTicketForwarded)
	s.dispatcher.Subscribe(events.EventAttachmentUploadFailed, s.handleAttachmentUploadFailed)
}

func (s *DeliveryLogService) handleTicketForwarded(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketForwardedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T for %s", event.Payload, event.Type)
	}
	s.logger.Info("TicketForwarded",
		zap.String("request_id", event.RequestID),
		zap.String("outcome", string(payload.Outcome)),
		zap.Int("upstream_status", payload.UpstreamStatus),
	)
	if s.repo == nil {
		return nil
	}
	record := &domain.DeliveryRecord{
		RequestID:          event.RequestID,
		Subject:            payload.Subject,
		RequesterEmail:     payload.RequesterEmail,
		OrderID:            payload.OrderID,
		Outcome:            payload.Outcome,
		UpstreamStatus:     payload.UpstreamStatus,
		AttachmentName:     payload.AttachmentName,
		AttachmentUploaded: payload.AttachmentUploaded,
		ErrorMessage:       payload.Error,
	}
	if err := s.repo.Create(ctx, record); err != nil {
		return fmt.Errorf("record delivery: %w", err)
	}
	return nil
}

func (s *DeliveryLogService) handleAttachmentUploadFailed(ctx context.Context, event events.Event) error {
	s.logger.Warn("AttachmentUploadFailed", zap.String("request_id", event.RequestID), zap.Any("payload", event.Payload))
	return nil
}

// Purge removes delivery entries older than retentionDays.
func (s *DeliveryLogService) Purge(ctx context.Context, retentionDays int) (int64, error) {
	if s.repo == nil || retentionDays <= 0 {
		return 0, nil
	}
	return s.repo.PurgeBefore(ctx, retentionDays)
}
