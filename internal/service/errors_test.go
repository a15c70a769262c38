package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shaharia-lab/stockroom/internal/service"
)

func TestNotFoundError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *service.NotFoundError
		expected string
	}{
		{
			name:     "typical resource",
			err:      &service.NotFoundError{Resource: "item", ID: "Apples"},
			expected: `item "Apples" not found`,
		},
		{
			name:     "different resource type",
			err:      &service.NotFoundError{Resource: "notification", ID: "42"},
			expected: `notification "42" not found`,
		},
		{
			name:     "empty ID",
			err:      &service.NotFoundError{Resource: "item", ID: ""},
			expected: `item "" not found`,
		},
		{
			name:     "empty resource",
			err:      &service.NotFoundError{Resource: "", ID: "Pears"},
			expected: ` "Pears" not found`,
		},
		{
			name:     "both empty",
			err:      &service.NotFoundError{Resource: "", ID: ""},
			expected: ` "" not found`,
		},
		{
			name:     "ID with quotes",
			err:      &service.NotFoundError{Resource: "item", ID: `12" pipe`},
			expected: `item "12\" pipe" not found`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestNotFoundError_implements_error(t *testing.T) {
	var err error = &service.NotFoundError{Resource: "item", ID: "x"}
	assert.Error(t, err)
}

func TestValidationError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *service.ValidationError
		expected string
	}{
		{
			name:     "with field and message",
			err:      &service.ValidationError{Field: "item_name", Message: "item_name is required"},
			expected: `validation error for "item_name": item_name is required`,
		},
		{
			name:     "without field - returns message only",
			err:      &service.ValidationError{Field: "", Message: "invalid request body"},
			expected: "invalid request body",
		},
		{
			name:     "empty message with field",
			err:      &service.ValidationError{Field: "quantity", Message: ""},
			expected: `validation error for "quantity": `,
		},
		{
			name:     "both empty",
			err:      &service.ValidationError{Field: "", Message: ""},
			expected: "",
		},
		{
			name:     "dotted field",
			err:      &service.ValidationError{Field: "smtp.host", Message: "SMTP host is not configured"},
			expected: `validation error for "smtp.host": SMTP host is not configured`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestValidationError_implements_error(t *testing.T) {
	var err error = &service.ValidationError{Field: "x", Message: "bad"}
	assert.Error(t, err)
}
