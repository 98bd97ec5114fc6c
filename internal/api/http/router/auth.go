package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/eunoia_backend/internal/api/http/handler"
)

func (r *Router) registerAuthRoutes(api fiber.Router, h *handler.AuthHandler) {
	group := api.Group("/auth")
	group.Post("/register", h.Register)
	group.Post("/student-login", h.StudentLogin)
	group.Post("/logout", h.Logout)
	group.Get("/me", h.Me)

	group.Post("/login", h.AdminLogin)
	group.Post("/admin-logout", h.AdminLogout)
}
