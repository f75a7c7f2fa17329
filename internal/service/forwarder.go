package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-gateway/internal/domain"
	"github.com/spec-kit/helpdesk-gateway/internal/events"
	"github.com/spec-kit/helpdesk-gateway/internal/helpdesk"
	"github.com/spec-kit/helpdesk-gateway/internal/observability"
)

// TicketBackend is the part of the ticketing API the forwarder needs.
type TicketBackend interface {
	UploadAttachment(ctx context.Context, filename string, content []byte) (helpdesk.Response, error)
	CreateRequest(ctx context.Context, payload helpdesk.TicketRequest) (helpdesk.Response, error)
}

// AttachmentSource gives the forwarder access to a stored attachment and lets it free the storage.
type AttachmentSource interface {
	Read(att *domain.Attachment) ([]byte, error)
	Release(att *domain.Attachment) error
}

// Forwarder turns a submission into a ticket on the backend. It makes one attempt per call.
type Forwarder struct {
	backend     TicketBackend
	attachments AttachmentSource
	dispatcher  events.Dispatcher
	metrics     *observability.Metrics
	logger      *zap.Logger
}

// ForwarderDependencies bundles collaborators for the forwarder.
type ForwarderDependencies struct {
	Backend     TicketBackend
	Attachments AttachmentSource
	Dispatcher  events.Dispatcher
	Metrics     *observability.Metrics
	Logger      *zap.Logger
}

// NewForwarder constructs the forwarder.
func NewForwarder(deps ForwarderDependencies) *Forwarder {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Forwarder{
		backend:     deps.Backend,
		attachments: deps.Attachments,
		dispatcher:  deps.Dispatcher,
		metrics:     deps.Metrics,
		logger:      logger.With(zap.String("component", "forwarder")),
	}
}

// Forward uploads the attachment (best effort) and creates the ticket.
// The attachment's storage is released before Forward returns, whatever happens.
func (f *Forwarder) Forward(ctx context.Context, sub domain.Submission) domain.ForwardOutcome {
	requestID := observability.RequestIDFromContext(ctx)
	logger := f.logger.With(zap.String("request_id", requestID))

	comment := helpdesk.Comment{Body: domain.ComposeDescription(sub)}
	if sub.HasAttachment() {
		if token, ok := f.uploadAttachment(ctx, logger, requestID, sub.Attachment); ok {
			comment.Uploads = []string{token}
		}
	}

	payload := helpdesk.TicketRequest{Request: helpdesk.RequestBody{
		Subject: sub.Subject,
		Comment: comment,
		Requester: helpdesk.Requester{
			Name:  sub.RequesterName,
			Email: sub.RequesterEmail,
		},
	}}

	start := time.Now()
	resp, err := f.backend.CreateRequest(ctx, payload)
	f.metrics.ObserveBackendCall("create_request", time.Since(start))

	outcome := domain.ForwardOutcome{AttachmentUploaded: len(comment.Uploads) > 0}
	switch {
	case err != nil:
		outcome.Kind = domain.OutcomeTransportFailure
		outcome.Err = err
		logger.Error("ticket creation failed", zap.Error(err))
	case resp.OK():
		outcome.Kind = domain.OutcomeSuccess
		outcome.StatusCode = resp.StatusCode
		logger.Info("ticket created",
			zap.Int("status", resp.StatusCode),
			zap.Bool("attachment_uploaded", outcome.AttachmentUploaded),
		)
	default:
		outcome.Kind = domain.OutcomeUpstreamRejected
		outcome.StatusCode = resp.StatusCode
		outcome.Body = string(resp.Body)
		logger.Error("ticket rejected by backend",
			zap.Int("status", resp.StatusCode),
			zap.String("body", outcome.Body),
		)
	}

	f.metrics.RecordForward(string(outcome.Kind))
	f.publish(ctx, logger, events.Event{
		Type:      events.EventTicketForwarded,
		RequestID: requestID,
		Payload:   forwardedPayload(sub, outcome),
	})
	return outcome
}

func (f *Forwarder) uploadAttachment(ctx context.Context, logger *zap.Logger, requestID string, att *domain.Attachment) (token string, ok bool) {
	defer func() {
		if err := f.attachments.Release(att); err != nil {
			logger.Warn("failed to release attachment", zap.String("path", att.Path), zap.Error(err))
		}
	}()

	content, err := f.attachments.Read(att)
	if err != nil {
		f.uploadFailed(ctx, logger, requestID, att, 0, err)
		return "", false
	}

	start := time.Now()
	resp, err := f.backend.UploadAttachment(ctx, att.FileName, content)
	f.metrics.ObserveBackendCall("upload", time.Since(start))
	if err != nil {
		f.uploadFailed(ctx, logger, requestID, att, 0, err)
		return "", false
	}
	if !resp.OK() {
		logger.Warn("attachment upload rejected", zap.Int("status", resp.StatusCode), zap.ByteString("body", resp.Body))
		f.uploadFailed(ctx, logger, requestID, att, resp.StatusCode, nil)
		return "", false
	}

	token, err = helpdesk.ParseUploadToken(resp.Body)
	if err != nil {
		f.uploadFailed(ctx, logger, requestID, att, resp.StatusCode, err)
		return "", false
	}
	logger.Info("attachment uploaded", zap.String("file_name", att.FileName), zap.Int64("size_bytes", att.SizeBytes))
	return token, true
}

func (f *Forwarder) uploadFailed(ctx context.Context, logger *zap.Logger, requestID string, att *domain.Attachment, status int, err error) {
	payload := events.AttachmentUploadFailedPayload{FileName: att.FileName, UpstreamStatus: status}
	if err != nil {
		payload.Error = err.Error()
		logger.Warn("attachment upload failed; continuing without it", zap.String("file_name", att.FileName), zap.Error(err))
	}
	f.metrics.RecordUploadFailure()
	f.publish(ctx, logger, events.Event{
		Type:      events.EventAttachmentUploadFailed,
		RequestID: requestID,
		Payload:   payload,
	})
}

func (f *Forwarder) publish(ctx context.Context, logger *zap.Logger, event events.Event) {
	if f.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if err := f.dispatcher.Publish(ctx, event); err != nil {
		logger.Warn("event handlers failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}

func forwardedPayload(sub domain.Submission, outcome domain.ForwardOutcome) events.TicketForwardedPayload {
	payload := events.TicketForwardedPayload{
		Subject:            sub.Subject,
		RequesterEmail:     sub.RequesterEmail,
		OrderID:            sub.OrderID,
		Outcome:            outcome.Kind,
		UpstreamStatus:     outcome.StatusCode,
		AttachmentUploaded: outcome.AttachmentUploaded,
	}
	if sub.Attachment != nil {
		payload.AttachmentName = sub.Attachment.FileName
	}
	if outcome.Err != nil {
		payload.Error = outcome.Err.Error()
	}
	return payload
}
