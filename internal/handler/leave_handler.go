package handler

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/collegedesk/collegedesk-api/internal/dto"
	"github.com/collegedesk/collegedesk-api/internal/models"
	"github.com/collegedesk/collegedesk-api/internal/service"
	"github.com/collegedesk/collegedesk-api/internal/utils"
)

// LeaveHandler manages leave request lifecycle endpoints.
type LeaveHandler struct {
	service service.LeaveService
	logger  zerolog.Logger
}

// NewLeaveHandler builds a leave handler instance.
func NewLeaveHandler(service service.LeaveService, logger zerolog.Logger) *LeaveHandler {
	return &LeaveHandler{
		service: service,
		logger:  logger.With().Str("component", "leave_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *LeaveHandler) Register(router fiber.Router) {
	router.Get("/requests", h.list)
	router.Post("/requests/:id/parse", h.parse)
	router.Post("/requests/:id/approve", h.approve)
	router.Post("/requests/:id/reject", h.reject)
	router.Get("/profile/:facultyId", h.profile)
}

func (h *LeaveHandler) list(c *fiber.Ctx) error {
	var status *models.LeaveStatus
	if raw := c.Query("status"); raw != "" {
		candidate := models.LeaveStatus(raw)
		switch candidate {
		case models.LeaveUnread, models.LeavePending, models.LeaveApproved, models.LeaveRejected:
			status = &candidate
		default:
			return utils.SendError(c, fiber.StatusBadRequest, "invalid status filter")
		}
	}

	requests, err := h.service.List(c.Context(), status)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "leave requests retrieved", requests)
}

func (h *LeaveHandler) parse(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	request, err := h.service.ParseRequest(c.Context(), id)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "leave request parsed", request)
}

func (h *LeaveHandler) approve(c *fiber.Ctx) error {
	return h.decide(c, h.service.Approve, "leave request approved")
}

func (h *LeaveHandler) reject(c *fiber.Ctx) error {
	return h.decide(c, h.service.Reject, "leave request rejected")
}

type leaveDecisionFunc func(ctx context.Context, requestID uint, approver service.LeaveActor, payload dto.LeaveDecisionRequest) (dto.LeaveDecisionResponse, error)

func (h *LeaveHandler) decide(c *fiber.Ctx, decide leaveDecisionFunc, message string) error {
	actor := leaveActorFromContext(c)
	if actor.ID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "user not authenticated")
	}

	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.LeaveDecisionRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&payload); err != nil {
			return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
		}
	}

	result, err := decide(c.Context(), id, actor, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	requestLogger(h.logger, c).Info().
		Uint("request_id", id).
		Bool("decided", result.Decided).
		Msg("leave decision handled")

	return utils.SendSuccess(c, message, result)
}

func (h *LeaveHandler) profile(c *fiber.Ctx) error {
	facultyID, err := parseUintParam(c, "facultyId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	profile, err := h.service.Profile(c.Context(), facultyID)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "leave profile retrieved", profile)
}

func (h *LeaveHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrLeaveRequestNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "leave request not found")
	case errors.Is(err, service.ErrLeaveProfileNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "leave profile not found")
	case errors.Is(err, service.ErrLeaveParserUnavailable):
		return utils.SendError(c, fiber.StatusServiceUnavailable, "leave parser not configured")
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
