package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/collegedesk/collegedesk-api/internal/dto"
	"github.com/collegedesk/collegedesk-api/internal/models"
	"github.com/collegedesk/collegedesk-api/internal/observability"
	"github.com/collegedesk/collegedesk-api/internal/repository"
	"github.com/collegedesk/collegedesk-api/pkg/ai"
)

// ErrLeaveRequestNotFound indicates the leave request was not located.
var ErrLeaveRequestNotFound = errors.New("leave request not found")

// ErrLeaveParserUnavailable indicates no parsing collaborator is configured.
var ErrLeaveParserUnavailable = errors.New("leave parser not configured")

// ErrLeaveProfileNotFound indicates no leave profile exists for the faculty.
var ErrLeaveProfileNotFound = errors.New("leave profile not found")

// LeaveActor identifies the user deciding a leave request.
type LeaveActor struct {
	ID   uint
	Role string
}

// LeaveService drives the leave request lifecycle: parsing inbound emails,
// approving or rejecting requests, and maintaining leave balances.
type LeaveService interface {
	List(ctx context.Context, status *models.LeaveStatus) ([]dto.LeaveRequestResponse, error)
	ParseRequest(ctx context.Context, requestID uint) (dto.LeaveRequestResponse, error)
	Approve(ctx context.Context, requestID uint, approver LeaveActor, payload dto.LeaveDecisionRequest) (dto.LeaveDecisionResponse, error)
	Reject(ctx context.Context, requestID uint, approver LeaveActor, payload dto.LeaveDecisionRequest) (dto.LeaveDecisionResponse, error)
	Profile(ctx context.Context, facultyID uint) (dto.LeaveProfileResponse, error)
}

type leaveService struct {
	repo      repository.LeaveRepository
	parser    ai.LeaveParser
	validator *validator.Validate
	sync      SyncRecorder
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
	now       func() time.Time
}

// NewLeaveService constructs the leave service. The parser may be nil when no
// AI collaborator is configured.
func NewLeaveService(repo repository.LeaveRepository, parser ai.LeaveParser, validate *validator.Validate, sync SyncRecorder, logger zerolog.Logger) LeaveService {
	return &leaveService{
		repo:      repo,
		parser:    parser,
		validator: validate,
		sync:      sync,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger.With().Str("component", "leave_service").Logger(),
		now:       time.Now,
	}
}

func (s *leaveService) List(ctx context.Context, status *models.LeaveStatus) ([]dto.LeaveRequestResponse, error) {
	requests, err := s.repo.ListRequests(ctx, status)
	if err != nil {
		return nil, err
	}
	return dto.NewLeaveRequestResponseSlice(requests), nil
}

// ParseRequest runs the AI collaborator over the raw email and stores the
// structured fields. An unread request moves to pending once parsed.
func (s *leaveService) ParseRequest(ctx context.Context, requestID uint) (dto.LeaveRequestResponse, error) {
	if s.parser == nil {
		return dto.LeaveRequestResponse{}, ErrLeaveParserUnavailable
	}

	request, err := s.repo.GetRequest(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.LeaveRequestResponse{}, ErrLeaveRequestNotFound
		}
		return dto.LeaveRequestResponse{}, err
	}

	parsed, err := s.parser.Parse(ctx, ai.LeaveEmail{
		FromEmail: request.FromEmail,
		Subject:   request.Subject,
		Body:      request.Body,
	})
	if err != nil {
		return dto.LeaveRequestResponse{}, fmt.Errorf("parse leave request: %w", err)
	}

	parsedAt := s.now()
	request.LeaveType = strings.ToUpper(strings.TrimSpace(parsed.LeaveType))
	request.FromDate = parsed.FromDate
	request.ToDate = parsed.ToDate
	request.Days = parsed.Days
	request.Reason = strings.TrimSpace(s.sanitizer.Sanitize(parsed.Reason))
	request.ParsedAt = &parsedAt
	if request.Status == models.LeaveUnread {
		request.Status = models.LeavePending
	}

	if err := s.repo.SaveRequest(ctx, &request); err != nil {
		return dto.LeaveRequestResponse{}, err
	}

	return dto.NewLeaveRequestResponse(request), nil
}

// Approve finalizes a request. Without parsed data or a faculty binding the
// call is a no-op. On approval of a CL request the faculty's takenCL grows by
// the parsed day count; any other leave type leaves the balance untouched. A
// history entry is always recorded when a profile exists.
func (s *leaveService) Approve(ctx context.Context, requestID uint, approver LeaveActor, payload dto.LeaveDecisionRequest) (dto.LeaveDecisionResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.LeaveDecisionResponse{}, err
	}

	request, err := s.repo.GetRequest(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.LeaveDecisionResponse{}, ErrLeaveRequestNotFound
		}
		return dto.LeaveDecisionResponse{}, err
	}

	if !request.Status.Actionable() || !request.Parsed() || request.FacultyID == nil {
		s.logger.Debug().
			Uint("request_id", requestID).
			Str("status", string(request.Status)).
			Bool("parsed", request.Parsed()).
			Msg("leave request not actionable, skipping approval")
		return dto.LeaveDecisionResponse{Request: dto.NewLeaveRequestResponse(request)}, nil
	}

	decidedAt := s.now()
	approverID := approver.ID
	request.Status = models.LeaveApproved
	request.DecidedBy = &approverID
	request.DecidedAt = &decidedAt
	request.Comment = strings.TrimSpace(s.sanitizer.Sanitize(payload.Comment))

	if err := s.repo.SaveRequest(ctx, &request); err != nil {
		return dto.LeaveDecisionResponse{}, err
	}

	profile, err := s.repo.GetProfileByFaculty(ctx, *request.FacultyID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.LeaveDecisionResponse{}, err
		}
		s.logger.Warn().
			Uint("faculty_id", *request.FacultyID).
			Msg("no leave profile for faculty, decision recorded without balance update")
	} else {
		if request.LeaveType == "CL" {
			profile.TakenCL += request.Days
			if err := s.repo.SaveProfile(ctx, &profile); err != nil {
				return dto.LeaveDecisionResponse{}, err
			}
		}

		history := models.LeaveHistoryEntry{
			ProfileID: profile.ID,
			RequestID: request.ID,
			LeaveType: request.LeaveType,
			FromDate:  request.FromDate,
			ToDate:    request.ToDate,
			Days:      request.Days,
			Status:    models.LeaveApproved,
			Comment:   request.Comment,
			CreatedAt: decidedAt,
		}
		if err := s.repo.AppendHistory(ctx, &history); err != nil {
			s.logger.Warn().Err(err).Uint("request_id", request.ID).Msg("failed to append leave history")
		}
	}

	if s.sync != nil {
		if err := s.sync.Enqueue(ctx, "leave_requests", fmt.Sprintf("%d", request.ID), "update", map[string]interface{}{
			"status":     string(request.Status),
			"decided_by": approver.ID,
			"leave_type": request.LeaveType,
			"days":       request.Days,
		}); err != nil {
			s.logger.Warn().Err(err).Msg("failed to enqueue leave sync record")
		}
	}

	observability.LeaveDecisions().WithLabelValues("approved").Inc()

	s.logger.Info().
		Uint("request_id", request.ID).
		Str("leave_type", request.LeaveType).
		Int("days", request.Days).
		Msg("leave request approved")

	return dto.LeaveDecisionResponse{Decided: true, Request: dto.NewLeaveRequestResponse(request)}, nil
}

// Reject finalizes a request without touching any balance or history.
func (s *leaveService) Reject(ctx context.Context, requestID uint, approver LeaveActor, payload dto.LeaveDecisionRequest) (dto.LeaveDecisionResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.LeaveDecisionResponse{}, err
	}

	request, err := s.repo.GetRequest(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.LeaveDecisionResponse{}, ErrLeaveRequestNotFound
		}
		return dto.LeaveDecisionResponse{}, err
	}

	if !request.Status.Actionable() {
		return dto.LeaveDecisionResponse{Request: dto.NewLeaveRequestResponse(request)}, nil
	}

	decidedAt := s.now()
	approverID := approver.ID
	request.Status = models.LeaveRejected
	request.DecidedBy = &approverID
	request.DecidedAt = &decidedAt
	request.Comment = strings.TrimSpace(s.sanitizer.Sanitize(payload.Comment))

	if err := s.repo.SaveRequest(ctx, &request); err != nil {
		return dto.LeaveDecisionResponse{}, err
	}

	if s.sync != nil {
		if err := s.sync.Enqueue(ctx, "leave_requests", fmt.Sprintf("%d", request.ID), "update", map[string]interface{}{
			"status":     string(request.Status),
			"decided_by": approver.ID,
		}); err != nil {
			s.logger.Warn().Err(err).Msg("failed to enqueue leave sync record")
		}
	}

	observability.LeaveDecisions().WithLabelValues("rejected").Inc()

	return dto.LeaveDecisionResponse{Decided: true, Request: dto.NewLeaveRequestResponse(request)}, nil
}

func (s *leaveService) Profile(ctx context.Context, facultyID uint) (dto.LeaveProfileResponse, error) {
	profile, err := s.repo.GetProfileByFaculty(ctx, facultyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.LeaveProfileResponse{}, ErrLeaveProfileNotFound
		}
		return dto.LeaveProfileResponse{}, err
	}
	return dto.NewLeaveProfileResponse(profile), nil
}
