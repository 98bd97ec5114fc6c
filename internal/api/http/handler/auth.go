package handler

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/Alijeyrad/eunoia_backend/internal/service/auth"
	"github.com/Alijeyrad/eunoia_backend/internal/service/identity"
	"github.com/Alijeyrad/eunoia_backend/internal/service/user"
	"github.com/Alijeyrad/eunoia_backend/pkg/constants"
	pasetotoken "github.com/Alijeyrad/eunoia_backend/pkg/paseto"
)

type AuthHandler struct {
	svc           auth.Service
	users         user.Service
	secureCookies bool
}

// NewAuthHandler builds the handler. secureCookies marks session cookies
// Secure, which production deployments behind TLS want.
func NewAuthHandler(svc auth.Service, users user.Service, secureCookies bool) *AuthHandler {
	return &AuthHandler{svc: svc, users: users, secureCookies: secureCookies}
}

type registerBody struct {
	Name     string `json:"name" validate:"required,max=200"`
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type studentLoginBody struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type adminLoginBody struct {
	Passcode string `json:"passcode"`
}

// POST /api/auth/register
func (h *AuthHandler) Register(c fiber.Ctx) error {
	var body registerBody
	if err := bindAndValidate(c, &body); err != nil {
		return badRequest(c, "Missing fields")
	}

	sess, err := h.svc.Register(c.Context(), auth.RegisterRequest{
		Name:     body.Name,
		Email:    body.Email,
		Password: body.Password,
	})
	if err != nil {
		return mapAuthError(c, err)
	}
	return h.startSession(c, constants.StudentSessionCookie, sess)
}

// POST /api/auth/student-login
func (h *AuthHandler) StudentLogin(c fiber.Ctx) error {
	var body studentLoginBody
	if err := bindAndValidate(c, &body); err != nil {
		return badRequest(c, "Missing fields")
	}

	sess, err := h.svc.Login(c.Context(), auth.LoginRequest{Email: body.Email, Password: body.Password})
	if err != nil {
		return mapAuthError(c, err)
	}
	return h.startSession(c, constants.StudentSessionCookie, sess)
}

// POST /api/auth/logout
func (h *AuthHandler) Logout(c fiber.Ctx) error {
	if err := h.revoke(c, studentCredentials(c)); err != nil {
		return internalError(c, "Logout failed", err)
	}
	h.clearCookie(c, constants.StudentSessionCookie)
	return success(c)
}

// GET /api/auth/me
func (h *AuthHandler) Me(c fiber.Ctx) error {
	id, err := h.lookupStudent(c, studentCredentials(c))
	if err != nil {
		if auth.IsAuthError(err) {
			return unauthorized(c, "not signed in")
		}
		return internalError(c, "Failed to load session", err)
	}
	u, err := h.users.GetByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return unauthorized(c, "not signed in")
		}
		return internalError(c, "Failed to load user", err)
	}
	return ok(c, fiber.Map{"user": publicUser(u.ID.String(), u.Name, u.Email)})
}

// POST /api/auth/login
func (h *AuthHandler) AdminLogin(c fiber.Ctx) error {
	var body adminLoginBody
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	sess, err := h.svc.AdminLogin(c.Context(), body.Passcode)
	if err != nil {
		return mapAuthError(c, err)
	}
	return h.startSession(c, constants.AdminSessionCookie, sess)
}

// POST /api/auth/admin-logout
func (h *AuthHandler) AdminLogout(c fiber.Ctx) error {
	if err := h.revoke(c, pasetotoken.TokensFromRequest(c, constants.AdminSessionCookie)); err != nil {
		return internalError(c, "Logout failed", err)
	}
	h.clearCookie(c, constants.AdminSessionCookie)
	return success(c)
}

// lookupStudent returns the user behind the first live student session among
// tokens. With no tokens it reports identity.ErrNoSession.
func (h *AuthHandler) lookupStudent(c fiber.Ctx, tokens []string) (uuid.UUID, error) {
	err := identity.ErrNoSession
	for _, tok := range tokens {
		var id uuid.UUID
		if id, err = h.svc.LookupSession(c.Context(), tok); err == nil {
			return id, nil
		}
	}
	return uuid.Nil, err
}

// revoke ends every session the request carries.
func (h *AuthHandler) revoke(c fiber.Ctx, tokens []string) error {
	for _, tok := range tokens {
		if err := h.svc.Logout(c.Context(), tok); err != nil {
			return err
		}
	}
	return nil
}

func (h *AuthHandler) startSession(c fiber.Ctx, cookie string, sess *auth.Session) error {
	c.Cookie(&fiber.Cookie{
		Name:     cookie,
		Value:    sess.Token,
		Path:     "/",
		MaxAge:   int(sess.ExpiresIn),
		Expires:  time.Now().Add(time.Duration(sess.ExpiresIn) * time.Second),
		HTTPOnly: true,
		Secure:   h.secureCookies,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	out := fiber.Map{"success": true, "token": sess.Token, "expiresIn": sess.ExpiresIn}
	if sess.User != nil {
		out["user"] = publicUser(sess.User.ID.String(), sess.User.Name, sess.User.Email)
	}
	return ok(c, out)
}

func (h *AuthHandler) clearCookie(c fiber.Ctx, name string) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		Secure:   h.secureCookies,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func publicUser(id, name, email string) fiber.Map {
	return fiber.Map{"id": id, "name": name, "email": email}
}

func mapAuthError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, auth.ErrMissingName),
		errors.Is(err, auth.ErrInvalidEmail),
		errors.Is(err, auth.ErrPasswordTooShort):
		return badRequest(c, err.Error())
	case errors.Is(err, auth.ErrEmailTaken):
		return conflict(c, "Email already registered")
	case errors.Is(err, auth.ErrInvalidCredentials):
		return unauthorized(c, "Invalid credentials")
	case errors.Is(err, auth.ErrInvalidPasscode):
		return unauthorized(c, "Invalid Passcode")
	case errors.Is(err, auth.ErrAdminDisabled):
		return serviceUnavailable(c, "admin console is not configured")
	case auth.IsAuthError(err):
		return unauthorized(c, "unauthorized")
	}
	return internalError(c, "Authentication failed", err)
}
