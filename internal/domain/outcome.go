package domain

import "time"

// OutcomeKind enumerates the results of a forward.
type OutcomeKind string

const (
	OutcomeSuccess          OutcomeKind = "success"
	OutcomeUpstreamRejected OutcomeKind = "upstream_rejected"
	OutcomeTransportFailure OutcomeKind = "transport_failure"
)

// ForwardOutcome is the result of attempting to create one ticket.
type ForwardOutcome struct {
	Kind               OutcomeKind
	StatusCode         int
	Body               string
	Err                error
	AttachmentUploaded bool
}

// Succeeded reports whether the ticket was created.
func (o ForwardOutcome) Succeeded() bool {
	return o.Kind == OutcomeSuccess
}

// DeliveryRecord is the audit entry written after each forward. It holds metadata only.
type DeliveryRecord struct {
	ID                 string
	RequestID          string
	Subject            string
	RequesterEmail     string
	OrderID            string
	Outcome            OutcomeKind
	UpstreamStatus     int
	AttachmentName     string
	AttachmentUploaded bool
	ErrorMessage       string
	CreatedAt          time.Time
}
