package handlers

import "github.com/securegate/visitor-pass-backend/internal/models"

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// ValidationErrorResponse carries field-scoped validation messages so the
// form can surface each failure next to its input.
type ValidationErrorResponse struct {
	Error   string                  `json:"error"`
	Message string                  `json:"message"`
	Fields  models.ValidationErrors `json:"fields"`
}

func validationFailed(errs models.ValidationErrors) ValidationErrorResponse {
	return ValidationErrorResponse{
		Error:   "validation_error",
		Message: "The submission contains invalid fields",
		Fields:  errs,
	}
}
