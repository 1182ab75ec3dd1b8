package internal

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

type ErrorType string

const (
	ErrorTypeValidation   ErrorType = "VALIDATION_ERROR"
	ErrorTypeNotFound     ErrorType = "NOT_FOUND"
	ErrorTypeUnauthorized ErrorType = "UNAUTHORIZED"
	ErrorTypeForbidden    ErrorType = "FORBIDDEN"
	ErrorTypeConflict     ErrorType = "CONFLICT"
	ErrorTypeInternal     ErrorType = "INTERNAL_ERROR"
)

type ErrorCode string

const (
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeInvalidStatus    ErrorCode = "INVALID_STATUS"
	ErrCodeInvalidPriority  ErrorCode = "INVALID_PRIORITY"
	ErrCodeInvalidRole      ErrorCode = "INVALID_ROLE"
	ErrCodeInvalidDate      ErrorCode = "INVALID_DATE"
	ErrCodeInvalidEmail     ErrorCode = "INVALID_EMAIL"
	ErrCodeInvalidReference ErrorCode = "INVALID_REFERENCE"

	ErrCodeUserNotFound    ErrorCode = "USER_NOT_FOUND"
	ErrCodeTenantNotFound  ErrorCode = "TENANT_NOT_FOUND"
	ErrCodeProjectNotFound ErrorCode = "PROJECT_NOT_FOUND"
	ErrCodeTaskNotFound    ErrorCode = "TASK_NOT_FOUND"

	ErrCodeInvalidCredentials    ErrorCode = "INVALID_CREDENTIALS"
	ErrCodeInactiveAccount       ErrorCode = "INACTIVE_ACCOUNT"
	ErrCodeUnauthenticated       ErrorCode = "UNAUTHENTICATED"
	ErrCodePermissionDenied      ErrorCode = "PERMISSION_DENIED"
	ErrCodePasswordResetRequired ErrorCode = "PASSWORD_RESET_REQUIRED"
	ErrCodeRecoveryFailed        ErrorCode = "RECOVERY_FAILED"
	ErrCodeCannotDeleteSelf      ErrorCode = "CANNOT_DELETE_SELF"
	ErrCodePasswordMismatch      ErrorCode = "PASSWORD_MISMATCH"
	ErrCodeWrongCurrentPassword  ErrorCode = "WRONG_CURRENT_PASSWORD"

	ErrCodeDuplicateEmail ErrorCode = "DUPLICATE_EMAIL"
	ErrCodeTenantExists   ErrorCode = "TENANT_EXISTS"

	ErrCodeMalformedStoredData ErrorCode = "MALFORMED_STORED_DATA"
	ErrCodeNoActiveTenant      ErrorCode = "NO_ACTIVE_TENANT"
)

type AppError struct {
	Type    ErrorType   `json:"type"`
	Code    ErrorCode   `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
	Cause   error       `json:"-"`
}

func (e *AppError) Error() string {
	if e.Details != nil {
		if validationErrors, ok := e.Details.(ValidationErrors); ok && len(validationErrors.Errors) > 0 {
			return validationErrors.Errors[0].Message
		}
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) GetDetailedMessage() string {
	if e.Details != nil {
		if validationErrors, ok := e.Details.(ValidationErrors); ok {
			if len(validationErrors.Errors) == 1 {
				return validationErrors.Errors[0].Message
			} else if len(validationErrors.Errors) > 1 {
				messages := make([]string, len(validationErrors.Errors))
				for i, err := range validationErrors.Errors {
					messages[i] = err.Message
				}
				return strings.Join(messages, "; ")
			}
		}
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is matches any *AppError carrying the same code.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// WithCause returns a copy of e carrying cause. Sentinels are never mutated.
func (e *AppError) WithCause(cause error) *AppError {
	cp := *e
	cp.Cause = cause
	return &cp
}

// WithDetails returns a copy of e carrying details.
func (e *AppError) WithDetails(details interface{}) *AppError {
	cp := *e
	cp.Details = details
	return &cp
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func NewValidationError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:    ErrorTypeValidation,
		Code:    code,
		Message: message,
	}
}

func NewValidationFieldError(field, message string, code ErrorCode) *AppError {
	return &AppError{
		Type:    ErrorTypeValidation,
		Code:    ErrCodeValidationFailed,
		Message: "Validation failed",
		Details: ValidationErrors{
			Errors: []ValidationError{
				{Field: field, Message: message, Code: string(code)},
			},
		},
	}
}

func NewNotFoundError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:    ErrorTypeNotFound,
		Code:    code,
		Message: message,
	}
}

func NewUnauthorizedError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:    ErrorTypeUnauthorized,
		Code:    code,
		Message: message,
	}
}

func NewForbiddenError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:    ErrorTypeForbidden,
		Code:    code,
		Message: message,
	}
}

func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:    ErrorTypeInternal,
		Code:    "INTERNAL_ERROR",
		Message: message,
		Cause:   cause,
	}
}

func NewConflictError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:    ErrorTypeConflict,
		Code:    code,
		Message: message,
	}
}

var (
	ErrUserNotFound    = NewNotFoundError("User not found", ErrCodeUserNotFound)
	ErrTenantNotFound  = NewNotFoundError("Organization not found", ErrCodeTenantNotFound)
	ErrProjectNotFound = NewNotFoundError("Project not found", ErrCodeProjectNotFound)
	ErrTaskNotFound    = NewNotFoundError("Task not found", ErrCodeTaskNotFound)

	ErrInvalidCredentials    = NewUnauthorizedError("Invalid password", ErrCodeInvalidCredentials)
	ErrUnauthenticated       = NewUnauthorizedError("Not logged in", ErrCodeUnauthenticated)
	ErrInactiveAccount       = NewForbiddenError("Account is not active", ErrCodeInactiveAccount)
	ErrForbidden             = NewForbiddenError("You do not have permission to perform this action", ErrCodePermissionDenied)
	ErrPasswordResetRequired = NewForbiddenError("Password change required before login", ErrCodePasswordResetRequired)
	ErrRecoveryFailed        = NewUnauthorizedError("Security answers do not match", ErrCodeRecoveryFailed)
	ErrCannotDeleteSelf      = NewForbiddenError("You cannot delete your own account", ErrCodeCannotDeleteSelf)
	ErrPasswordMismatch      = NewValidationError("New passwords do not match", ErrCodePasswordMismatch)
	ErrCurrentPassword       = NewValidationError("Current password is incorrect", ErrCodeWrongCurrentPassword)

	ErrDuplicateEmail = NewConflictError("Email already exists", ErrCodeDuplicateEmail)
	ErrTenantExists   = NewConflictError("Organization already exists", ErrCodeTenantExists)

	ErrMalformedStoredData = &AppError{Type: ErrorTypeInternal, Code: ErrCodeMalformedStoredData, Message: "Stored data is malformed"}
	ErrNoActiveTenant      = NewValidationError("No active organization", ErrCodeNoActiveTenant)
)

func IsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

func (e *AppError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    ErrorType   `json:"type"`
		Code    ErrorCode   `json:"code"`
		Message string      `json:"message"`
		Details interface{} `json:"details,omitempty"`
	}{
		Type:    e.Type,
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	})
}
