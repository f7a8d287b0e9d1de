package middleware

import (
	"inventory-service/pkg/ctxutil"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofrs/uuid/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRequestIDApp(seen *string) *fiber.App {
	app := fiber.New()
	app.Use(RequestIDMiddleware())
	app.Get("/", func(c *fiber.Ctx) error {
		*seen = ctxutil.GetRequestID(c.Context())
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func TestRequestIDMiddleware_Propagates(t *testing.T) {
	var seen string
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "req-123")

	resp, err := newRequestIDApp(&seen).Test(req)
	require.NoError(t, err)
	assert.Equal(t, "req-123", resp.Header.Get(RequestIDHeader))
	assert.Equal(t, "req-123", seen)
}

func TestRequestIDMiddleware_Mints(t *testing.T) {
	var seen string
	resp, err := newRequestIDApp(&seen).Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)

	id := resp.Header.Get(RequestIDHeader)
	parsed, err := uuid.FromString(id)
	require.NoError(t, err)
	assert.Equal(t, byte(uuid.V4), parsed.Version())
	assert.Equal(t, id, seen)
}
