package middleware

import (
	"errors"
	"log"
	"runtime/debug"

	"helperhub/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

// AppError is an error with the HTTP status and client-facing message it
// should be rendered with. Cause is logged, never sent.
type AppError struct {
	StatusCode int
	Message    string
	Data       any
	Cause      error
}

func NewAppError(statusCode int, message string, data any, cause error) *AppError {
	return &AppError{StatusCode: statusCode, Message: message, Data: data, Cause: cause}
}

func (e *AppError) Error() string {
	if e == nil {
		return ""
	}
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

type ErrorMiddleware struct {
	logger *log.Logger
}

func NewErrorMiddleware(logger *log.Logger) *ErrorMiddleware {
	if logger == nil {
		logger = log.Default()
	}
	return &ErrorMiddleware{logger: logger}
}

// Middleware renders every error as the JSON envelope and recovers panics.
// 503 keeps its message and data so clients know to retry; other 5xx are
// collapsed to a generic message.
func (m *ErrorMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				m.logger.Printf("[HTTP] panic rid=%s method=%s path=%s panic=%v\n%s",
					c.GetRespHeader(requestIDHeader), c.Method(), c.Path(), r, debug.Stack())
				err = response.Error(c, fiber.StatusInternalServerError, response.MessageInternalError, nil)
			}
		}()

		if err = c.Next(); err == nil {
			return nil
		}

		out := render(err)
		if out.status >= 500 {
			m.logger.Printf("[HTTP] failed rid=%s method=%s path=%s status=%d err=%v",
				c.GetRespHeader(requestIDHeader), c.Method(), c.Path(), out.status, err)
		}
		return response.Error(c, out.status, out.message, out.data)
	}
}

type rendered struct {
	status  int
	message string
	data    any
}

var internalError = rendered{status: fiber.StatusInternalServerError, message: response.MessageInternalError}

func render(err error) rendered {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return clientView(appErr.StatusCode, appErr.Message, appErr.Data)
	}
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return clientView(fiberErr.Code, fiberErr.Message, nil)
	}
	return internalError
}

func clientView(status int, message string, data any) rendered {
	switch {
	case status <= 0:
		return internalError
	case status == fiber.StatusServiceUnavailable:
	case status >= 500:
		return internalError
	}
	if message == "" {
		message = response.MessageFor(status)
	}
	return rendered{status: status, message: message, data: data}
}
