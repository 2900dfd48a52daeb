package controller

import (
	"errors"
	"fmt"
	"time"

	"search-analytics-service/internal/dashboard"
	"search-analytics-service/internal/model"
	"search-analytics-service/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
)

type AnalyticsController interface {
	GetAnalytics(c *fiber.Ctx) error
	ExportCSV(c *fiber.Ctx) error
}

type analyticsController struct {
	analyticsService service.AnalyticsService
	now              func() time.Time
}

// NewAnalyticsController builds the stateless analytics API.
func NewAnalyticsController(svc service.AnalyticsService) AnalyticsController {
	return &analyticsController{analyticsService: svc, now: time.Now}
}

// GetAnalytics returns the payload for ?start=&end=&q=. Missing dates default
// to the last 30 days.
func (h *analyticsController) GetAnalytics(c *fiber.Ctx) error {
	params := h.buildParams(c)

	payload, err := h.fetch(c, params)
	if err != nil {
		return err
	}
	return c.JSON(payload)
}

// ExportCSV downloads the top queries for ?start=&end=&q=.
func (h *analyticsController) ExportCSV(c *fiber.Ctx) error {
	params := h.buildParams(c)

	payload, err := h.fetch(c, params)
	if err != nil {
		return err
	}
	if len(payload.TopQueries) == 0 {
		return fiber.NewError(fiber.StatusNotFound, dashboard.ErrNoRecords.Error())
	}

	content, err := dashboard.ExportCSV(payload.TopQueries)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return sendCSV(c, dashboard.ExportFileName(params.StartDate, params.EndDate), content)
}

func (h *analyticsController) fetch(c *fiber.Ctx, params model.QueryParams) (model.AnalyticsPayload, error) {
	payload, err := h.analyticsService.FetchAnalytics(c.UserContext(), params)
	if err != nil {
		var validationErr *service.ValidationError
		if errors.As(err, &validationErr) {
			return model.AnalyticsPayload{}, fiber.NewError(fiber.StatusBadRequest, validationErr.Error())
		}
		return model.AnalyticsPayload{}, fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return payload, nil
}

func (h *analyticsController) buildParams(c *fiber.Ctx) model.QueryParams {
	defaultStart, defaultEnd := model.DefaultDateRange(h.now())
	return model.QueryParams{
		StartDate:   utils.Trim(c.Query("start", defaultStart), ' '),
		EndDate:     utils.Trim(c.Query("end", defaultEnd), ' '),
		QueryFilter: c.Query("q"),
	}
}

func sendCSV(c *fiber.Ctx, fileName string, content []byte) error {
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", fileName))
	return c.Send(content)
}
