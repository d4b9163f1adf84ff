package response

import "github.com/gofiber/fiber/v3"

// Envelope is the body of every JSON response.
type Envelope struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

const (
	MessageOK                 = "ok"
	MessageCreated            = "created"
	MessageBadRequest         = "bad request"
	MessageUnauthorized       = "unauthorized"
	MessageForbidden          = "forbidden"
	MessageNotFound           = "not found"
	MessageConflict           = "conflict"
	MessageRequestTooLarge    = "payload too large"
	MessageTooManyRequests    = "too many requests"
	MessageInternalError      = "internal server error"
	MessageServiceUnavailable = "service unavailable"
	MessageError              = "error"
)

var statusMessages = map[int]string{
	fiber.StatusOK:                    MessageOK,
	fiber.StatusCreated:               MessageCreated,
	fiber.StatusBadRequest:            MessageBadRequest,
	fiber.StatusUnauthorized:          MessageUnauthorized,
	fiber.StatusForbidden:             MessageForbidden,
	fiber.StatusNotFound:              MessageNotFound,
	fiber.StatusConflict:              MessageConflict,
	fiber.StatusRequestEntityTooLarge: MessageRequestTooLarge,
	fiber.StatusTooManyRequests:       MessageTooManyRequests,
	fiber.StatusServiceUnavailable:    MessageServiceUnavailable,
}

// MessageFor is the message used when a handler leaves it empty.
func MessageFor(status int) string {
	if msg, ok := statusMessages[status]; ok {
		return msg
	}
	if status >= 500 {
		return MessageInternalError
	}
	return MessageError
}

func Success(c fiber.Ctx, status int, message string, data any) error {
	return write(c, status, message, data)
}

func Error(c fiber.Ctx, status int, message string, data any) error {
	return write(c, status, message, data)
}

func write(c fiber.Ctx, status int, message string, data any) error {
	if status < 100 || status > 599 {
		status = fiber.StatusInternalServerError
	}
	if message == "" {
		message = MessageFor(status)
	}
	return c.Status(status).JSON(Envelope{Status: status, Message: message, Data: data})
}
