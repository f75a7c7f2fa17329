package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComposeDescription(t *testing.T) {
	tests := []struct {
		name    string
		orderID string
		want    string
	}{
		{"no order id", "", "It arrived cracked"},
		{"order id", "1001", "Shopify Order ID: 1001\n\nIt arrived cracked"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Submission{Description: "It arrived cracked", OrderID: tt.orderID}
			assert.Equal(t, tt.want, ComposeDescription(s))
		})
	}
}

func TestComposeDescription_EmptyDescription(t *testing.T) {
	assert.Equal(t, "Shopify Order ID: 7\n\n", ComposeDescription(Submission{OrderID: "7"}))
}
