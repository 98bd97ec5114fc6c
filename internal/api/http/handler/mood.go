package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/eunoia_backend/internal/service/mood"
)

type MoodHandler struct {
	svc         mood.Service
	recentLimit int
}

// NewMoodHandler builds the handler. recentLimit caps GET /api/mood/recent.
func NewMoodHandler(svc mood.Service, recentLimit int) *MoodHandler {
	if recentLimit <= 0 {
		recentLimit = 30
	}
	return &MoodHandler{svc: svc, recentLimit: recentLimit}
}

// POST /api/mood
func (h *MoodHandler) Log(c fiber.Ctx) error {
	body, err := bindJSON(c)
	if err != nil {
		return badRequest(c, "invalid request body")
	}

	note, _ := body["note"].(string)
	_, err = h.svc.Log(c.Context(), mood.LogRequest{
		Mood:        body["mood"],
		Note:        note,
		Credentials: studentCredentials(c),
		ClientID:    clientID(body["userId"]),
	})
	if err != nil {
		if errors.Is(err, mood.ErrInvalidMood) || errors.Is(err, mood.ErrMissingMood) || errors.Is(err, mood.ErrNoteTooLong) {
			return badRequest(c, err.Error())
		}
		return internalError(c, "Failed to log mood", err)
	}
	return success(c)
}

// GET /api/mood/recent?userId=
func (h *MoodHandler) Recent(c fiber.Ctx) error {
	logs, err := h.svc.Recent(c.Context(), mood.RecentRequest{
		Credentials: studentCredentials(c),
		ClientID:    c.Query("userId"),
		Limit:       h.recentLimit,
	})
	if err != nil {
		return internalError(c, "Failed to fetch moods", err)
	}
	return ok(c, fiber.Map{"logs": logs})
}

// GET /api/admin/moods/recent
func (h *MoodHandler) RecentAll(c fiber.Ctx) error {
	moods, err := h.svc.RecentAll(c.Context(), listLimit(c))
	if err != nil {
		return internalError(c, "Failed to fetch moods", err)
	}
	return ok(c, fiber.Map{"moods": moods})
}
