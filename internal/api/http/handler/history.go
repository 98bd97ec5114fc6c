package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/eunoia_backend/internal/service/history"
)

type HistoryHandler struct {
	svc history.Service
}

func NewHistoryHandler(svc history.Service) *HistoryHandler {
	return &HistoryHandler{svc: svc}
}

// GET /api/history?userId=
func (h *HistoryHandler) Get(c fiber.Ctx) error {
	out, err := h.svc.Get(c.Context(), history.Request{
		Credentials: studentCredentials(c),
		ClientID:    c.Query("userId"),
	})
	if err != nil {
		if errors.Is(err, history.ErrUnattributed) {
			return badRequest(c, "Missing userId")
		}
		return internalError(c, "Failed to fetch history", err)
	}
	return ok(c, out)
}
