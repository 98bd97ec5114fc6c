package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/eunoia_backend/internal/api/http/handler"
)

func (r *Router) registerScreeningRoutes(
	api fiber.Router,
	assessmentH *handler.AssessmentHandler,
	moodH *handler.MoodHandler,
	bookingH *handler.BookingHandler,
	historyH *handler.HistoryHandler,
	questionnaireH *handler.QuestionnaireHandler,
) {
	api.Post("/assessment", assessmentH.Submit)

	api.Post("/mood", moodH.Log)
	api.Get("/mood/recent", moodH.Recent)

	api.Get("/booking", bookingH.Availability)
	api.Post("/booking", bookingH.Create)

	api.Get("/history", historyH.Get)

	api.Get("/questionnaires", questionnaireH.List)
	api.Get("/questionnaires/:type", questionnaireH.Get)
}
