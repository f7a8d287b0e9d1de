package middleware

import (
	"inventory-service/app/domain"
	"inventory-service/app/handler/api/response"
	"inventory-service/pkg"
	"inventory-service/pkg/ctxutil"
	"log/slog"

	"github.com/gofiber/fiber/v2"
)

// Auth accepts a Bearer JWT carrying uid and cid claims and scopes the
// request to that company.
func Auth(secretKey string) fiber.Handler {
	return func(c *fiber.Ctx) error {

		token, err := pkg.GetTokenFromHeaders(c.Get("Authorization"))
		if err != nil {
			slog.ErrorContext(c.Context(), "[middleware] Auth", "GetTokenFromHeaders", err)
			return c.Status(fiber.StatusUnauthorized).JSON(response.Error(domain.ErrUnauthorized))
		}

		claims, err := pkg.ParseJwtToken(token, secretKey)
		if err != nil {
			slog.ErrorContext(c.Context(), "[middleware] Auth", "ParseJwtToken", err)
			return c.Status(fiber.StatusUnauthorized).JSON(response.Error(domain.ErrUnauthorized))
		}

		if claims.UID == 0 {
			slog.ErrorContext(c.Context(), "[middleware] Auth", "userID", "0")
			return c.Status(fiber.StatusUnauthorized).JSON(response.Error(domain.ErrUnauthorized))
		}

		if claims.CID == nil {
			slog.ErrorContext(c.Context(), "[middleware] Auth", "companyID", "nil")
			return c.Status(fiber.StatusUnauthorized).JSON(response.Error(domain.ErrUnauthorized))
		}

		c.Locals(ctxutil.UserIDKey, claims.UID)
		c.Locals(ctxutil.CompanyIDKey, *claims.CID)
		return c.Next()
	}
}
