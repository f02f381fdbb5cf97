package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/collegedesk/collegedesk-api/internal/config"
	"github.com/collegedesk/collegedesk-api/internal/handler"
	"github.com/collegedesk/collegedesk-api/internal/middleware"
	"github.com/collegedesk/collegedesk-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	AttendanceHandler   *handler.AttendanceHandler
	MarksHandler        *handler.MarksHandler
	LeaveHandler        *handler.LeaveHandler
	NotificationHandler *handler.NotificationHandler
	StudentHandler      *handler.StudentHandler
	ReportHandler       *handler.ReportHandler
	JWTMiddleware       fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	// Common v1 group for health & headers
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))
	api.Get("/metrics", observability.MetricsHandler())

	// Use provided JWT middleware, or a no-op if nil
	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	// Attendance (rosters, sessions, commits)
	if deps.AttendanceHandler != nil {
		attendance := app.Group("/api/v2/attendance", jwtMiddleware)
		attendance.Use("/session", middleware.RateLimit("attendance_commit", 30, time.Minute))
		deps.AttendanceHandler.Register(attendance)
	}

	// Marks (editable results & audit trail)
	if deps.MarksHandler != nil {
		marks := app.Group("/api/v2/marks", jwtMiddleware)
		marks.Use("/results", middleware.RateLimit("marks_mutation", 60, time.Minute))
		deps.MarksHandler.Register(marks)
	}

	// Leave lifecycle
	if deps.LeaveHandler != nil {
		leave := app.Group("/api/v2/leave", jwtMiddleware)
		deps.LeaveHandler.Register(leave)
	}

	// Notifications (list, SSE stream)
	if deps.NotificationHandler != nil {
		notifications := app.Group("/api/v2/notifications", jwtMiddleware)
		deps.NotificationHandler.Register(notifications)
	}

	// Students (lookup, photo upload)
	if deps.StudentHandler != nil {
		students := app.Group("/api/v2/students", jwtMiddleware)
		deps.StudentHandler.Register(students)
	}

	// Reports (CSV export, cached summaries)
	if deps.ReportHandler != nil {
		reports := app.Group("/api/v2/reports", jwtMiddleware)
		deps.ReportHandler.Register(reports)
	}
}
