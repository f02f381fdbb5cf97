package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/collegedesk/collegedesk-api/internal/dto"
	"github.com/collegedesk/collegedesk-api/internal/service"
	"github.com/collegedesk/collegedesk-api/internal/utils"
)

// AttendanceHandler manages session roster and attendance commit endpoints.
type AttendanceHandler struct {
	attendance service.AttendanceService
	roster     service.RosterService
	logger     zerolog.Logger
}

// NewAttendanceHandler builds an attendance handler instance.
func NewAttendanceHandler(attendance service.AttendanceService, roster service.RosterService, logger zerolog.Logger) *AttendanceHandler {
	return &AttendanceHandler{
		attendance: attendance,
		roster:     roster,
		logger:     logger.With().Str("component", "attendance_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *AttendanceHandler) Register(router fiber.Router) {
	router.Get("/roster/:subjectCode", h.resolveRoster)
	router.Get("/session", h.loadSession)
	router.Post("/session", h.saveSession)
	router.Get("/sessions", h.listFacultySessions)
}

func (h *AttendanceHandler) resolveRoster(c *fiber.Ctx) error {
	facultyID := userIDFromContext(c)
	if facultyID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "user not authenticated")
	}

	subjectCode := c.Params("subjectCode")
	if subjectCode == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "subject code required")
	}

	roster, err := h.roster.ResolveRoster(c.Context(), facultyID, subjectCode)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "roster resolved", roster)
}

func (h *AttendanceHandler) loadSession(c *fiber.Ctx) error {
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
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "session loaded", session)
}

func (h *AttendanceHandler) saveSession(c *fiber.Ctx) error {
	facultyID := userIDFromContext(c)
	if facultyID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "user not authenticated")
	}

	var payload dto.SessionSaveRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	result, err := h.attendance.SaveSession(c.Context(), facultyID, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	requestLogger(h.logger, c).Info().
		Str("subject_code", payload.SubjectCode).
		Str("date", payload.Date).
		Str("session_id", payload.SessionID).
		Bool("saved", result.Saved).
		Msg("attendance session commit handled")

	return utils.SendSuccess(c, "attendance session saved", result)
}

func (h *AttendanceHandler) listFacultySessions(c *fiber.Ctx) error {
	facultyID := userIDFromContext(c)
	if facultyID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "user not authenticated")
	}

	sessions, err := h.attendance.ListFacultyAttendance(c.Context(), facultyID)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "faculty sessions retrieved", sessions)
}

func (h *AttendanceHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
