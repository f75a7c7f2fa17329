package events

import (
	"time"

	"github.com/spec-kit/helpdesk-gateway/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketForwarded        EventType = "ticket_forwarded"
	EventAttachmentUploadFailed EventType = "attachment_upload_failed"
)

// Event represents something the forwarder reports after the fact.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	RequestID string      `json:"request_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketForwardedPayload payload.
type TicketForwardedPayload struct {
	Subject            string             `json:"subject"`
	RequesterEmail     string             `json:"requester_email"`
	OrderID            string             `json:"order_id,omitempty"`
	Outcome            domain.OutcomeKind `json:"outcome"`
	UpstreamStatus     int                `json:"upstream_status,omitempty"`
	AttachmentName     string             `json:"attachment_name,omitempty"`
	AttachmentUploaded bool               `json:"attachment_uploaded"`
	Error              string             `json:"error,omitempty"`
}

// AttachmentUploadFailedPayload payload.
type AttachmentUploadFailedPayload struct {
	FileName       string `json:"file_name"`
	UpstreamStatus int    `json:"upstream_status,omitempty"`
	Error          string `json:"error,omitempty"`
}
