package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/eunoia_backend/internal/service/assessment"
	"github.com/Alijeyrad/eunoia_backend/internal/service/booking"
)

type BookingHandler struct {
	svc booking.Service
}

func NewBookingHandler(svc booking.Service) *BookingHandler {
	return &BookingHandler{svc: svc}
}

type createBookingBody struct {
	Slot         string `json:"slot"`
	SlotTime     string `json:"slotTime"`
	StudentName  string `json:"studentName" validate:"max=200"`
	StudentEmail string `json:"studentEmail" validate:"omitempty,email,max=254"`
	Reason       string `json:"reason" validate:"max=2000"`
	CounselorID  string `json:"counselorId" validate:"max=100"`
	UserID       any    `json:"userId"`
}

// POST /api/booking
func (h *BookingHandler) Create(c fiber.Ctx) error {
	var body createBookingBody
	if err := bindAndValidate(c, &body); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return badRequest(c, "invalid field: "+verrs[0].Field())
		}
		return badRequest(c, "invalid request body")
	}

	res, err := h.svc.Create(c.Context(), booking.CreateRequest{
		Slot:         body.Slot,
		SlotTime:     body.SlotTime,
		StudentName:  body.StudentName,
		StudentEmail: body.StudentEmail,
		Reason:       body.Reason,
		CounselorID:  body.CounselorID,
		Credentials:  studentCredentials(c),
		ClientID:     clientID(body.UserID),
	})
	if err != nil {
		if errors.Is(err, assessment.ErrMissingRequiredField) {
			return badRequest(c, "Missing required fields")
		}
		return internalError(c, "Failed to create booking", err)
	}
	return ok(c, res)
}

// GET /api/booking?start=&end=
func (h *BookingHandler) Availability(c fiber.Ctx) error {
	startStr, endStr := c.Query("start"), c.Query("end")
	if startStr == "" || endStr == "" {
		return badRequest(c, "Missing start/end params")
	}
	start, okStart := booking.ParseSlot(startStr)
	end, okEnd := booking.ParseSlot(endStr)
	if !okStart || !okEnd {
		return badRequest(c, "Invalid start/end params")
	}

	slots, err := h.svc.Availability(c.Context(), start, end)
	if err != nil {
		if errors.Is(err, booking.ErrInvalidRange) {
			return badRequest(c, "start must not be after end")
		}
		return internalError(c, "Failed to fetch slots", err)
	}
	return ok(c, fiber.Map{"bookings": slots})
}

// GET /api/admin/bookings/recent
func (h *BookingHandler) Recent(c fiber.Ctx) error {
	out, err := h.svc.Recent(c.Context(), listLimit(c))
	if err != nil {
		return internalError(c, "Failed to fetch bookings", err)
	}
	return ok(c, fiber.Map{"bookings": out})
}

type updateBookingBody struct {
	Status string `json:"status" validate:"required"`
}

// PATCH /api/admin/bookings/:id
func (h *BookingHandler) UpdateStatus(c fiber.Ctx) error {
	id, valid := pathID(c)
	if !valid {
		return badRequest(c, "invalid id")
	}
	var body updateBookingBody
	if err := bindAndValidate(c, &body); err != nil {
		return badRequest(c, "Missing status")
	}

	b, err := h.svc.UpdateStatus(c.Context(), id, body.Status)
	switch {
	case err == nil:
		return ok(c, fiber.Map{"success": true, "booking": b})
	case errors.Is(err, booking.ErrInvalidStatus):
		return badRequest(c, err.Error())
	case errors.Is(err, booking.ErrNotFound):
		return notFound(c, "booking not found")
	case errors.Is(err, booking.ErrInvalidTransition):
		return conflict(c, err.Error())
	}
	return internalError(c, "Failed to update booking", err)
}

// DELETE /api/admin/bookings/:id
func (h *BookingHandler) Delete(c fiber.Ctx) error {
	id, valid := pathID(c)
	if !valid {
		return badRequest(c, "invalid id")
	}
	if err := h.svc.Delete(c.Context(), id); err != nil {
		if errors.Is(err, booking.ErrNotFound) {
			return notFound(c, "booking not found")
		}
		return internalError(c, "Failed to delete booking", err)
	}
	return success(c)
}
