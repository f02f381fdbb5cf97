package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/collegedesk/collegedesk-api/internal/dto"
	"github.com/collegedesk/collegedesk-api/internal/repository"
	"github.com/collegedesk/collegedesk-api/internal/service"
	"github.com/collegedesk/collegedesk-api/internal/utils"
)

// MarksHandler manages editable result and audit trail endpoints.
type MarksHandler struct {
	service service.MarksService
	logger  zerolog.Logger
}

// NewMarksHandler builds a marks handler instance.
func NewMarksHandler(service service.MarksService, logger zerolog.Logger) *MarksHandler {
	return &MarksHandler{
		service: service,
		logger:  logger.With().Str("component", "marks_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *MarksHandler) Register(router fiber.Router) {
	router.Get("/results", h.listResults)
	router.Patch("/results", h.update)
	router.Post("/results/bulk", h.bulkEntryGrade)
	router.Get("/audit", h.listAudit)
}

func (h *MarksHandler) listResults(c *fiber.Ctx) error {
	semester, err := parseQueryInt(c, "semester")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid semester")
	}
	subjectCode := c.Query("subject_code")
	if semester == 0 || subjectCode == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "semester and subject_code are required")
	}

	results, err := h.service.ListResults(c.Context(), semester, subjectCode)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "results retrieved", results)
}

func (h *MarksHandler) update(c *fiber.Ctx) error {
	actor := marksActorFromContext(c)
	if actor.ID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "user not authenticated")
	}

	var payload dto.MarksUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	result, err := h.service.UpdateMarks(c.Context(), actor, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	requestLogger(h.logger, c).Info().
		Uint("student_id", payload.StudentID).
		Str("subject_code", payload.SubjectCode).
		Bool("updated", result.Updated).
		Int("audit_entries", result.AuditEntries).
		Msg("marks update handled")

	return utils.SendSuccess(c, "marks updated", result)
}

func (h *MarksHandler) bulkEntryGrade(c *fiber.Ctx) error {
	actor := marksActorFromContext(c)
	if actor.ID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "user not authenticated")
	}

	var payload dto.BulkGradeRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	results, err := h.service.BulkEntryGrade(c.Context(), actor, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "bulk grading applied", results)
}

func (h *MarksHandler) listAudit(c *fiber.Ctx) error {
	filter := repository.MarksAuditFilter{}
	if studentID, err := parseQueryUint(c, "student_id"); err == nil && studentID != nil {
		filter.StudentID = studentID
	}
	if facultyID, err := parseQueryUint(c, "faculty_id"); err == nil && facultyID != nil {
		filter.FacultyID = facultyID
	}
	if subjectCode := c.Query("subject_code"); subjectCode != "" {
		filter.SubjectCode = &subjectCode
	}
	if limit, err := parseQueryInt(c, "limit"); err == nil && limit > 0 {
		filter.Limit = limit
	}

	entries, err := h.service.ListAudit(c.Context(), filter)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "audit trail retrieved", entries)
}

func (h *MarksHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
