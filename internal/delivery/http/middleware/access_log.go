package middleware

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-ID"

type AccessLogMiddleware struct {
	logger *log.Logger
}

func NewAccessLogMiddleware(logger *log.Logger) *AccessLogMiddleware {
	if logger == nil {
		logger = log.Default()
	}
	return &AccessLogMiddleware{logger: logger}
}

// Middleware tags the request with an id and writes one line per request.
// It runs inside the error middleware, so a returned error has not been
// rendered yet and its status is derived here.
func (m *AccessLogMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		start := time.Now()

		rid := c.Get(requestIDHeader)
		if _, err := uuid.Parse(rid); err != nil {
			rid = uuid.NewString()
		}
		c.Set(requestIDHeader, rid)

		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			status = render(err).status
		}
		userID := "-"
		if id, ok := IdentityFrom(c); ok {
			userID = id.ID.String()
		}

		m.logger.Printf("[HTTP] access rid=%s ip=%s method=%s path=%s status=%d latency=%s user_id=%s bytes=%d",
			rid, c.IP(), c.Method(), c.OriginalURL(), status, time.Since(start).Round(time.Microsecond), userID, len(c.Response().Body()))
		return err
	}
}
