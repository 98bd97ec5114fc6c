package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/eunoia_backend/internal/api/http/handler"
)

func (r *Router) registerAdminRoutes(
	api fiber.Router,
	adminRequired fiber.Handler,
	assessmentH *handler.AssessmentHandler,
	moodH *handler.MoodHandler,
	bookingH *handler.BookingHandler,
	userH *handler.UserHandler,
) {
	group := api.Group("/admin", adminRequired)

	group.Get("/assessments/recent", assessmentH.Recent)
	group.Delete("/assessments/:id", assessmentH.Delete)

	group.Get("/bookings/recent", bookingH.Recent)
	group.Patch("/bookings/:id", bookingH.UpdateStatus)
	group.Delete("/bookings/:id", bookingH.Delete)

	group.Get("/moods/recent", moodH.RecentAll)

	group.Get("/severity-summary", assessmentH.SeveritySummary)

	group.Get("/users", userH.List)
	group.Delete("/users/:id", userH.Delete)
}
