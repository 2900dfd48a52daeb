package controller

import (
	"errors"

	"search-analytics-service/internal/model"
	"search-analytics-service/internal/service"

	"github.com/gofiber/fiber/v2"
)

type EventController interface {
	CreateEvent(c *fiber.Ctx) error
}

// eventController exposes HTTP handlers for search event ingestion.
type eventController struct {
	eventService service.EventService
}

// NewEventController builds an EventController.
func NewEventController(svc service.EventService) EventController {
	return &eventController{eventService: svc}
}

// CreateEvent accepts a single search impression.
func (h *eventController) CreateEvent(c *fiber.Ctx) error {
	var req model.SearchEventRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json payload")
	}

	event, err := h.eventService.BuildEvent(req)
	if err != nil {
		var validationErr *service.ValidationError
		if errors.As(err, &validationErr) {
			return fiber.NewError(fiber.StatusBadRequest, validationErr.Error())
		}
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	result, err := h.eventService.ProcessEvent(c.UserContext(), event)
	if err != nil {
		return fiber.NewError(fiber.StatusServiceUnavailable, "event not accepted")
	}

	return c.Status(fiber.StatusAccepted).JSON(result)
}
