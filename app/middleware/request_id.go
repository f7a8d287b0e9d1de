package middleware

import (
	"inventory-service/pkg/ctxutil"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofrs/uuid/v5"
)

const RequestIDHeader = "X-Request-ID"

// RequestIDMiddleware propagates X-Request-ID, minting a UUIDv4 when the
// caller did not send one. The id travels with any stock check the request enqueues.
func RequestIDMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqID := c.Get(RequestIDHeader)
		if reqID == "" {
			uuidV4, err := uuid.NewV4()
			if err != nil {
				slog.WarnContext(c.Context(), "[RequestIDMiddleware] Error generating UUID", "error", err)
			} else {
				reqID = uuidV4.String()
			}
		}
		if reqID != "" {
			c.Locals(ctxutil.RequestIDKey, reqID)
			c.Set(RequestIDHeader, reqID)
		}
		return c.Next()
	}
}
