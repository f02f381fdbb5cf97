package handler

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/collegedesk/collegedesk-api/internal/service"
	"github.com/collegedesk/collegedesk-api/internal/utils"
)

// ReportHandler serves attendance exports and cached summaries.
type ReportHandler struct {
	reports    service.ReportService
	attendance service.AttendanceService
	logger     zerolog.Logger
}

// NewReportHandler builds a report handler instance.
func NewReportHandler(reports service.ReportService, attendance service.AttendanceService, logger zerolog.Logger) *ReportHandler {
	return &ReportHandler{
		reports:    reports,
		attendance: attendance,
		logger:     logger.With().Str("component", "report_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *ReportHandler) Register(router fiber.Router) {
	router.Get("/session.csv", h.sessionCSV)
	router.Get("/students/:id/summary", h.studentSummary)
}

func (h *ReportHandler) sessionCSV(c *fiber.Ctx) error {
	facultyID := userIDFromContext(c)
	if facultyID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "user not authenticated")
	}

	subjectCode := c.Query("subject_code")
	date := c.Query("date")
	sessionID := c.Query("session_id")
	if subjectCode == "" || date == "" || sessionID == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "subject_code, date and session_id are required")
	}

	session, err := h.attendance.LoadSession(c.Context(), facultyID, subjectCode, date, sessionID)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to load session for export")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}

	payload, err := h.reports.SessionCSV(session)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to render session csv")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}

	filename := fmt.Sprintf("attendance_%s_%s_%s.csv", subjectCode, date, sessionID)
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(payload)
}

func (h *ReportHandler) studentSummary(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	summary, err := h.reports.StudentSummary(c.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "student not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}

	return utils.SendSuccess(c, "student summary retrieved", summary)
}
