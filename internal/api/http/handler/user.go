package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/eunoia_backend/internal/service/user"
)

type UserHandler struct {
	svc user.Service
}

func NewUserHandler(svc user.Service) *UserHandler {
	return &UserHandler{svc: svc}
}

// GET /api/admin/users
func (h *UserHandler) List(c fiber.Ctx) error {
	users, err := h.svc.List(c.Context())
	if err != nil {
		return internalError(c, "Failed to fetch users", err)
	}
	return ok(c, fiber.Map{"users": users})
}

// DELETE /api/admin/users/:id
func (h *UserHandler) Delete(c fiber.Ctx) error {
	id, valid := pathID(c)
	if !valid {
		return badRequest(c, "invalid id")
	}
	if err := h.svc.Delete(c.Context(), id); err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return notFound(c, "user not found")
		}
		return internalError(c, "Failed to delete user", err)
	}
	return success(c)
}
