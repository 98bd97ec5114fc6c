package middleware

import (
	"context"
	"log/slog"

	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/eunoia_backend/internal/service/auth"
	"github.com/Alijeyrad/eunoia_backend/pkg/constants"
	pasetotoken "github.com/Alijeyrad/eunoia_backend/pkg/paseto"
	"github.com/Alijeyrad/eunoia_backend/pkg/reqctx"
)

// AdminVerifier checks an admin session token.
type AdminVerifier interface {
	VerifyAdmin(ctx context.Context, token string) error
}

// AdminRequired rejects requests without a live admin session, read from a
// Bearer token or the admin_session cookie. A token that fails verification
// does not hide a valid one sent the other way.
func AdminRequired(v AdminVerifier) fiber.Handler {
	return func(c fiber.Ctx) error {
		var storeErr error
		for _, token := range pasetotoken.TokensFromRequest(c, constants.AdminSessionCookie) {
			err := v.VerifyAdmin(c.Context(), token)
			if err == nil {
				return c.Next()
			}
			if !auth.IsAuthError(err) {
				storeErr = err
			}
		}

		if storeErr != nil {
			slog.ErrorContext(c.Context(), "admin session check failed",
				"request_id", reqctx.RequestIDFromContext(c.Context()),
				"error", storeErr,
			)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
		}
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}
}
