package models

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Error codes carried by AppError.
const (
	CodeNotFound     = "NOT_FOUND"
	CodeValidation   = "VALIDATION_ERROR"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
	CodeConfig       = "CONFIG_ERROR"
	CodeInternal     = "INTERNAL_ERROR"
)

var (
	// ErrBlogNotFound is returned by every lookup-by-id path when the blog is absent.
	ErrBlogNotFound = errors.New("blog not found")
	// ErrCommentNotFound is returned when the blog exists but the comment does not.
	ErrCommentNotFound = errors.New("comment not found")
)

// ErrorResponse represents a standardized API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// AppError represents a custom application error
type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewBlogNotFoundError wraps ErrBlogNotFound with the offending id.
func NewBlogNotFoundError(id string) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: "Blog not found",
		Err:     fmt.Errorf("%w: id %q", ErrBlogNotFound, id),
	}
}

// NewCommentNotFoundError wraps ErrCommentNotFound with the offending id.
func NewCommentNotFoundError(id string) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: "Comment not found",
		Err:     fmt.Errorf("%w: id %q", ErrCommentNotFound, id),
	}
}

func NewValidationError(message string) *AppError {
	return &AppError{
		Code:    CodeValidation,
		Message: message,
	}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{
		Code:    CodeUnauthorized,
		Message: message,
	}
}

func NewForbiddenError(message string) *AppError {
	return &AppError{
		Code:    CodeForbidden,
		Message: message,
	}
}

// NewConfigError reports a server-side misconfiguration such as a missing secret.
func NewConfigError(message string) *AppError {
	return &AppError{
		Code:    CodeConfig,
		Message: message,
	}
}

func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    CodeInternal,
		Message: "Internal server error",
		Err:     err,
	}
}

// IsNotFound reports whether err signals an absent blog or comment.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrBlogNotFound) || errors.Is(err, ErrCommentNotFound)
}

// RespondWithError creates a standardized error response. Details of wrapped
// errors are only exposed for client-side codes; internal causes stay in the logs.
func RespondWithError(c *fiber.Ctx, status int, err error) error {
	var response ErrorResponse

	var appErr *AppError
	if errors.As(err, &appErr) {
		response = ErrorResponse{
			Error: appErr.Message,
			Code:  appErr.Code,
		}
	} else {
		response = ErrorResponse{
			Error: err.Error(),
		}
	}

	return c.Status(status).JSON(response)
}
