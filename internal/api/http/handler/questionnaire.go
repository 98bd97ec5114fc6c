package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/eunoia_backend/internal/service/assessment"
)

type QuestionnaireHandler struct{}

func NewQuestionnaireHandler() *QuestionnaireHandler {
	return &QuestionnaireHandler{}
}

// GET /api/questionnaires
func (h *QuestionnaireHandler) List(c fiber.Ctx) error {
	return ok(c, fiber.Map{"questionnaires": assessment.Definitions()})
}

// GET /api/questionnaires/:type
func (h *QuestionnaireHandler) Get(c fiber.Ctx) error {
	t, known := assessment.ParseType(c.Params("type"))
	if !known {
		return notFound(c, "unknown questionnaire")
	}
	def, _ := assessment.Lookup(t)
	return ok(c, def)
}
