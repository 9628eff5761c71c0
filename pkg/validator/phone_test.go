package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPhoneValidator(t *testing.T) {
	validator := NewPhoneValidator()
	assert.NotNil(t, validator)
}

func TestValidate_ValidNumbers(t *testing.T) {
	validator := NewPhoneValidator()

	validNumbers := []struct {
		input    string
		expected string
		name     string
	}{
		{"9876543210", "9876543210", "Standard format"},
		{"98765 43210", "9876543210", "With spaces"},
		{"98765-43210", "9876543210", "With dashes"},
		{"98765.43210", "9876543210", "With dots"},
		{"(98765) 43210", "9876543210", "With parentheses"},
		{"6123456789", "6123456789", "Prefix 6"},
		{"7123456789", "7123456789", "Prefix 7"},
		{"8123456789", "8123456789", "Prefix 8"},
		{"919876543210", "9876543210", "With country code"},
		{"+91 98765 43210", "9876543210", "With country code and plus"},
		{"09876543210", "9876543210", "With trunk zero"},
	}

	for _, tc := range validNumbers {
		t.Run(tc.name, func(t *testing.T) {
			sanitized, err := validator.Validate(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, sanitized)
		})
	}
}

func TestValidate_InvalidNumbers(t *testing.T) {
	validator := NewPhoneValidator()

	invalidNumbers := []struct {
		input       string
		expectedErr error
		name        string
	}{
		{"", ErrEmptyPhone, "Empty string"},
		{"123", ErrInvalidLength, "Too short"},
		{"98765432101", ErrInvalidLength, "Too long"},
		{"5876543210", ErrInvalidPrefix, "Invalid prefix 5"},
		{"1876543210", ErrInvalidPrefix, "Invalid prefix 1"},
		{"0876543210", ErrInvalidPrefix, "Invalid prefix 0"},
		{"987654321a", ErrInvalidFormat, "Contains letters"},
		{"98765-4321a", ErrInvalidFormat, "Contains letters with dashes"},
		{"98765 4321!", ErrInvalidFormat, "Contains special characters"},
	}

	for _, tc := range invalidNumbers {
		t.Run(tc.name, func(t *testing.T) {
			_, err := validator.Validate(tc.input)
			assert.Error(t, err)
			assert.Equal(t, tc.expectedErr, err)
		})
	}
}

func TestSanitize(t *testing.T) {
	validator := NewPhoneValidator()

	tests := []struct {
		input    string
		expected string
		name     string
	}{
		{"9876543210", "9876543210", "Already clean"},
		{"98765 43210", "9876543210", "With spaces"},
		{"98765-43210", "9876543210", "With dashes"},
		{"98765.43210", "9876543210", "With dots"},
		{"(98765) 43210", "9876543210", "With parentheses"},
		{"+919876543210", "9876543210", "With country code and plus"},
		{"919876543210", "9876543210", "With country code"},
		{"09876543210", "9876543210", "With trunk zero"},
		{"98765 - 43210", "9876543210", "Multiple separators"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := validator.Sanitize(tc.input)
			assert.Equal(t, tc.expected, result)
		})
	}
}

func TestIsValidPrefix(t *testing.T) {
	validator := NewPhoneValidator()

	for _, phone := range []string{"6123456789", "7123456789", "8123456789", "9876543210"} {
		t.Run(phone[:1], func(t *testing.T) {
			assert.True(t, validator.IsValidPrefix(phone))
		})
	}

	for _, phone := range []string{"1234567890", "5876543210", ""} {
		t.Run("invalid_"+phone, func(t *testing.T) {
			assert.False(t, validator.IsValidPrefix(phone))
		})
	}
}

func TestFormat(t *testing.T) {
	validator := NewPhoneValidator()

	formatted, err := validator.Format("919876543210")
	require.NoError(t, err)
	assert.Equal(t, "98765 43210", formatted)

	_, err = validator.Format("123")
	assert.Error(t, err)
}

func TestValidateMultiple(t *testing.T) {
	validator := NewPhoneValidator()

	results := validator.ValidateMultiple([]string{"9876543210", "123", ""})
	require.Len(t, results, 3)
	assert.NoError(t, results["9876543210"])
	assert.Equal(t, ErrInvalidLength, results["123"])
	assert.Equal(t, ErrEmptyPhone, results[""])
}
