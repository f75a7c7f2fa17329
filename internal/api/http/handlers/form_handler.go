package handlers

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"mime/multipart"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-gateway/internal/api/dto"
	"github.com/spec-kit/helpdesk-gateway/internal/captcha"
	"github.com/spec-kit/helpdesk-gateway/internal/domain"
	"github.com/spec-kit/helpdesk-gateway/internal/observability"
	apperrors "github.com/spec-kit/helpdesk-gateway/pkg/util/errorutil"
)

const (
	attachmentField = "attachment"
	successMessage  = "Form submitted successfully"
)

// AttachmentStore holds uploads until the forwarder has consumed them.
type AttachmentStore interface {
	Accept(header *multipart.FileHeader) (*domain.Attachment, error)
}

// TicketForwarder creates a ticket from a submission.
type TicketForwarder interface {
	Forward(ctx context.Context, sub domain.Submission) domain.ForwardOutcome
}

// FormHandler serves the contact form and accepts submissions.
type FormHandler struct {
	forwarder      TicketForwarder
	store          AttachmentStore
	captcha        captcha.Verifier
	siteKey        string
	maxUploadBytes int64
	validate       *validator.Validate
	logger         *zap.Logger
}

// FormHandlerConfig bundles dependencies for the form handler. Captcha may be nil.
type FormHandlerConfig struct {
	Forwarder      TicketForwarder
	Store          AttachmentStore
	Captcha        captcha.Verifier
	SiteKey        string
	MaxUploadBytes int64
	Logger         *zap.Logger
}

// NewFormHandler constructs handler.
func NewFormHandler(cfg FormHandlerConfig) *FormHandler {
	return &FormHandler{
		forwarder:      cfg.Forwarder,
		store:          cfg.Store,
		captcha:        cfg.Captcha,
		siteKey:        cfg.SiteKey,
		maxUploadBytes: cfg.MaxUploadBytes,
		validate:       dto.NewValidator(),
		logger:         cfg.Logger,
	}
}

type formView struct {
	Prefill      dto.FormPrefill
	SiteKey      string
	MaxUploadMiB int64
	AutoSubmit   bool
}

// Index GET /. Renders the info page, or a pre-filled form when query parameters are given.
func (h *FormHandler) Index(c *fiber.Ctx) error {
	var prefill dto.FormPrefill
	if err := c.QueryParser(&prefill); err != nil {
		return apperrors.NewValidationError("invalid query parameters", nil)
	}
	if prefill.Empty() {
		return render(c, indexTemplate, nil)
	}
	return render(c, formTemplate, h.view(prefill, h.captcha == nil && prefill.Complete()))
}

// Form GET /form.
func (h *FormHandler) Form(c *fiber.Ctx) error {
	return render(c, formTemplate, h.view(dto.FormPrefill{}, false))
}

// Submit POST /submit.
func (h *FormHandler) Submit(c *fiber.Ctx) error {
	ctx := observability.ContextWithRequestID(c.UserContext(), observability.RequestID(c))

	if h.captcha != nil {
		ok, err := h.captcha.Verify(ctx, c.FormValue(captcha.ResponseField), c.IP())
		if err != nil || !ok {
			return apperrors.NewCaptchaFailed(err)
		}
	}

	var req dto.SubmitFormRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid form submission", nil)
	}
	req.Normalize()
	if err := h.validate.StructCtx(ctx, req); err != nil {
		msg, details := dto.ValidationDetails(err)
		return apperrors.NewValidationError(msg, details)
	}

	header, err := h.attachmentHeader(c)
	if err != nil {
		return err
	}

	var att *domain.Attachment
	if header != nil {
		att, err = h.store.Accept(header)
		if err != nil {
			return apperrors.NewInternalError(fmt.Errorf("accept attachment: %w", err))
		}
	}

	h.logger.Info("form submission received",
		zap.String("request_id", observability.RequestID(c)),
		zap.String("subject", req.Subject),
		zap.String("requester_email", req.Email),
		zap.Bool("has_attachment", att != nil),
	)

	outcome := h.forwarder.Forward(ctx, req.ToSubmission(att))
	switch outcome.Kind {
	case domain.OutcomeSuccess:
		return c.Status(fiber.StatusOK).SendString(successMessage)
	case domain.OutcomeUpstreamRejected:
		return apperrors.NewUpstreamRejected(outcome.StatusCode, outcome.Body)
	default:
		return apperrors.NewTransportFailure(outcome.Err)
	}
}

// attachmentHeader returns the single uploaded file, or nil when none was sent.
func (h *FormHandler) attachmentHeader(c *fiber.Ctx) (*multipart.FileHeader, error) {
	form, err := c.MultipartForm()
	if err != nil {
		// urlencoded submissions carry no file
		return nil, nil
	}
	files := form.File[attachmentField]
	if len(files) == 0 {
		return nil, nil
	}
	if len(files) > 1 {
		return nil, apperrors.NewValidationError("only one attachment is allowed", nil)
	}
	header := files[0]
	if h.maxUploadBytes > 0 && header.Size > h.maxUploadBytes {
		return nil, apperrors.NewPayloadTooLarge(fmt.Sprintf("attachment exceeds the %d MB limit", h.maxUploadBytes>>20))
	}
	return header, nil
}

func (h *FormHandler) view(prefill dto.FormPrefill, autoSubmit bool) formView {
	return formView{
		Prefill:      prefill,
		SiteKey:      h.siteKey,
		MaxUploadMiB: h.maxUploadBytes >> 20,
		AutoSubmit:   autoSubmit,
	}
}

func render(c *fiber.Ctx, tmpl *template.Template, data any) error {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return apperrors.NewInternalError(fmt.Errorf("render %s: %w", tmpl.Name(), err))
	}
	c.Type("html", "utf-8")
	return c.Send(buf.Bytes())
}
