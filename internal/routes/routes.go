package routes

import (
	"search-analytics-service/internal/controller"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Controllers groups the handlers attached to the app. Events is nil when
// ingestion is disabled.
type Controllers struct {
	Analytics controller.AnalyticsController
	Dashboard controller.DashboardController
	Events    controller.EventController
}

// Register attaches all HTTP routes to the Fiber app.
func Register(app *fiber.App, ctrls Controllers) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api/analytics")
	api.Get("/", ctrls.Analytics.GetAnalytics)
	api.Get("/export.csv", ctrls.Analytics.ExportCSV)

	if ctrls.Events != nil {
		app.Post("/events", ctrls.Events.CreateEvent)
	}

	app.Get("/", func(c *fiber.Ctx) error {
		return c.Redirect("/dashboard", fiber.StatusFound)
	})

	board := app.Group("/dashboard")
	board.Get("/", ctrls.Dashboard.Page)
	board.Get("/state", ctrls.Dashboard.State)
	board.Get("/export.csv", ctrls.Dashboard.ExportCSV)
	board.Post("/date-range", ctrls.Dashboard.SetDateRange)
	board.Post("/filter", ctrls.Dashboard.SetFilter)
	board.Post("/tab", ctrls.Dashboard.SetTab)
	board.Post("/sort", ctrls.Dashboard.ToggleSort)
	board.Post("/select", ctrls.Dashboard.SelectQuery)
	board.Post("/retry", ctrls.Dashboard.Retry)
}
