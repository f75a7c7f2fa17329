package dto

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/spec-kit/helpdesk-gateway/internal/domain"
)

// SubmitFormRequest is the multipart payload of POST /submit.
type SubmitFormRequest struct {
	Subject     string `form:"subject" validate:"required,max=255"`
	Description string `form:"description" validate:"required"`
	OrderID     string `form:"shopify_order_id" validate:"max=64"`
	Name        string `form:"name" validate:"required,max=255"`
	Email       string `form:"email" validate:"required,email"`
}

// FormPrefill carries values for pre-filling the form from query parameters.
type FormPrefill struct {
	Subject     string `query:"subject"`
	Description string `query:"description"`
	OrderID     string `query:"shopify_order_id"`
	Name        string `query:"name"`
	Email       string `query:"email"`
}

// Empty reports whether no field was supplied.
func (p FormPrefill) Empty() bool {
	return p.Subject == "" && p.Description == "" && p.OrderID == "" && p.Name == "" && p.Email == ""
}

// Complete reports whether every required field was supplied.
func (p FormPrefill) Complete() bool {
	return p.Subject != "" && p.Description != "" && p.Name != "" && p.Email != ""
}

// Normalize trims surrounding whitespace from the single-line fields. The description is forwarded as sent.
func (r *SubmitFormRequest) Normalize() {
	r.Subject = strings.TrimSpace(r.Subject)
	r.OrderID = strings.TrimSpace(r.OrderID)
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
}

// ToSubmission converts the request into the domain record.
func (r SubmitFormRequest) ToSubmission(att *domain.Attachment) domain.Submission {
	return domain.Submission{
		Subject:        r.Subject,
		Description:    r.Description,
		OrderID:        r.OrderID,
		RequesterName:  r.Name,
		RequesterEmail: r.Email,
		Attachment:     att,
	}
}

// NewValidator returns a validator that reports fields by their form name.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// ValidationDetails flattens validator errors into field → message pairs.
func ValidationDetails(err error) (string, map[string]any) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "invalid form submission", nil
	}
	details := make(map[string]any, len(verrs))
	for _, fe := range verrs {
		details[fe.Field()] = fieldMessage(fe)
	}
	return fieldMessage(verrs[0]), details
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", fe.Field())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}
