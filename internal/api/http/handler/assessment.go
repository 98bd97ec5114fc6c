package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/eunoia_backend/internal/service/assessment"
)

type AssessmentHandler struct {
	svc assessment.Service
}

func NewAssessmentHandler(svc assessment.Service) *AssessmentHandler {
	return &AssessmentHandler{svc: svc}
}

// POST /api/assessment
//
// Answers come either as an "answers" list (or object keyed by question id)
// or, when "answers" is absent or null, as top-level question fields.
func (h *AssessmentHandler) Submit(c fiber.Ctx) error {
	body, err := bindJSON(c)
	if err != nil {
		return badRequest(c, "invalid request body")
	}

	var raw assessment.RawAnswers
	switch answers := body["answers"].(type) {
	case []any:
		raw.Values = answers
	case map[string]any:
		raw.Keyed = answers
	case nil:
		raw.Keyed = body
	default:
		verr := &assessment.ValidationError{
			Kind:   assessment.ErrInvalidAnswerValue,
			Field:  "answers",
			Reason: "answers must be a list or an object",
		}
		return badRequest(c, verr.Error())
	}

	res, err := h.svc.Submit(c.Context(), assessment.SubmitRequest{
		Type:        stringField(body, "assessmentType", "questionnaireType", "type"),
		Answers:     raw,
		Credentials: studentCredentials(c),
		ClientID:    clientID(body["userId"]),
	})
	if err != nil {
		var verr *assessment.ValidationError
		if errors.As(err, &verr) {
			return badRequest(c, verr.Error())
		}
		return internalError(c, "Failed to submit assessment", err)
	}
	return ok(c, res)
}

// GET /api/admin/assessments/recent
func (h *AssessmentHandler) Recent(c fiber.Ctx) error {
	out, err := h.svc.Recent(c.Context(), listLimit(c))
	if err != nil {
		return internalError(c, "Failed to fetch assessments", err)
	}
	return ok(c, fiber.Map{"assessments": out})
}

// DELETE /api/admin/assessments/:id
func (h *AssessmentHandler) Delete(c fiber.Ctx) error {
	id, valid := pathID(c)
	if !valid {
		return badRequest(c, "invalid id")
	}
	if err := h.svc.Delete(c.Context(), id); err != nil {
		if errors.Is(err, assessment.ErrNotFound) {
			return notFound(c, "assessment not found")
		}
		return internalError(c, "Failed to delete assessment", err)
	}
	return success(c)
}

// GET /api/admin/severity-summary
func (h *AssessmentHandler) SeveritySummary(c fiber.Ctx) error {
	days := queryInt(c, "days", assessment.DefaultSummaryDays, 1, assessment.MaxSummaryDays)
	out, err := h.svc.SeveritySummary(c.Context(), days)
	if err != nil {
		return internalError(c, "Failed to build severity summary", err)
	}
	return ok(c, out)
}
