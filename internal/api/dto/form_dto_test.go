package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk-gateway/internal/domain"
)

func TestSubmitFormRequest_Validation(t *testing.T) {
	v := NewValidator()

	valid := SubmitFormRequest{Subject: "Broken item", Description: "It arrived cracked", Name: "Jane Doe", Email: "jane@example.com"}
	require.NoError(t, v.Struct(valid))

	missing := SubmitFormRequest{Subject: "Broken item", Email: "not-an-email"}
	err := v.Struct(missing)
	require.Error(t, err)

	msg, details := ValidationDetails(err)
	assert.Equal(t, "description is required", msg)
	assert.Equal(t, "name is required", details["name"])
	assert.Equal(t, "email must be a valid email address", details["email"])
	assert.NotContains(t, details, "shopify_order_id")
}

func TestSubmitFormRequest_NormalizeAndConvert(t *testing.T) {
	req := SubmitFormRequest{Subject: " Hi ", Description: "body\n", OrderID: "  ", Name: "Jane", Email: " jane@example.com "}
	req.Normalize()

	att := &domain.Attachment{FileName: "a.txt"}
	sub := req.ToSubmission(att)
	assert.Equal(t, "Hi", sub.Subject)
	assert.Equal(t, "body\n", sub.Description)
	assert.Empty(t, sub.OrderID)
	assert.Equal(t, "jane@example.com", sub.RequesterEmail)
	assert.Same(t, att, sub.Attachment)
}

func TestFormPrefill(t *testing.T) {
	assert.True(t, FormPrefill{}.Empty())
	assert.False(t, FormPrefill{Subject: "x"}.Complete())
	assert.True(t, FormPrefill{Subject: "x", Description: "y", Name: "n", Email: "e"}.Complete())
}
