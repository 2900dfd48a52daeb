package controller

import (
	"errors"

	"search-analytics-service/internal/dashboard"
	"search-analytics-service/internal/model"
	"search-analytics-service/internal/view"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"go.uber.org/zap"
)

const dashboardPath = "/dashboard"

type DashboardController interface {
	Page(c *fiber.Ctx) error
	State(c *fiber.Ctx) error
	SetDateRange(c *fiber.Ctx) error
	SetFilter(c *fiber.Ctx) error
	SetTab(c *fiber.Ctx) error
	ToggleSort(c *fiber.Ctx) error
	SelectQuery(c *fiber.Ctx) error
	Retry(c *fiber.Ctx) error
	ExportCSV(c *fiber.Ctx) error
}

type dashboardController struct {
	dashboard *dashboard.Dashboard
	renderer  *view.Renderer
	log       *zap.Logger
}

// NewDashboardController serves the process-wide dashboard session. Every
// POST action answers with a 303 back to the page.
func NewDashboardController(d *dashboard.Dashboard, renderer *view.Renderer, log *zap.Logger) DashboardController {
	return &dashboardController{dashboard: d, renderer: renderer, log: log}
}

func (h *dashboardController) Page(c *fiber.Ctx) error {
	c.Type("html", "utf-8")
	if err := h.renderer.Render(c, h.dashboard.View()); err != nil {
		h.log.Error("dashboard render failed", zap.Error(err))
		return fiber.NewError(fiber.StatusInternalServerError, "failed to render dashboard")
	}
	return nil
}

func (h *dashboardController) State(c *fiber.Ctx) error {
	return c.JSON(h.dashboard.View())
}

// SetDateRange accepts start, end or both. A rejected range is reported on
// the next render.
func (h *dashboardController) SetDateRange(c *fiber.Ctx) error {
	start := formValue(c, "start")
	end := formValue(c, "end")

	var err error
	switch {
	case start != "" && end != "":
		err = h.dashboard.SetDateRange(start, end)
	case start != "":
		err = h.dashboard.SetStartDate(start)
	case end != "":
		err = h.dashboard.SetEndDate(end)
	default:
		return fiber.NewError(fiber.StatusBadRequest, "start or end is required")
	}
	if err != nil {
		h.log.Info("date range rejected", zap.String("start", start), zap.String("end", end), zap.Error(err))
	}
	return backToDashboard(c)
}

func (h *dashboardController) SetFilter(c *fiber.Ctx) error {
	h.dashboard.FilterInput(utils.CopyString(c.FormValue("q")))
	return backToDashboard(c)
}

func (h *dashboardController) SetTab(c *fiber.Ctx) error {
	kind, ok := dashboard.ParseTab(c.FormValue("tab"))
	if !ok {
		return fiber.NewError(fiber.StatusBadRequest, "unknown tab")
	}
	h.dashboard.SetTab(kind)
	return backToDashboard(c)
}

func (h *dashboardController) ToggleSort(c *fiber.Ctx) error {
	field, ok := model.ParseSortField(c.FormValue("field"))
	if !ok {
		return fiber.NewError(fiber.StatusBadRequest, "unknown sort field")
	}
	h.dashboard.ToggleSort(field)
	return backToDashboard(c)
}

func (h *dashboardController) SelectQuery(c *fiber.Ctx) error {
	if err := h.dashboard.SelectQuery(c.FormValue("query")); err != nil {
		if errors.Is(err, dashboard.ErrUnknownQuery) {
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		}
		return err
	}
	return backToDashboard(c)
}

func (h *dashboardController) Retry(c *fiber.Ctx) error {
	h.dashboard.Retry()
	return backToDashboard(c)
}

func (h *dashboardController) ExportCSV(c *fiber.Ctx) error {
	content, fileName, err := h.dashboard.Export()
	if err != nil {
		if errors.Is(err, dashboard.ErrNoRecords) {
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return sendCSV(c, fileName, content)
}

// formValue returns a trimmed copy of a form field. FormValue aliases the
// request buffer, which fasthttp reuses once the handler returns.
func formValue(c *fiber.Ctx, key string) string {
	return utils.CopyString(utils.Trim(c.FormValue(key), ' '))
}

func backToDashboard(c *fiber.Ctx) error {
	return c.Redirect(dashboardPath, fiber.StatusSeeOther)
}
