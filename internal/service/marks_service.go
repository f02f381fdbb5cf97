package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/collegedesk/collegedesk-api/internal/dto"
	"github.com/collegedesk/collegedesk-api/internal/models"
	"github.com/collegedesk/collegedesk-api/internal/observability"
	"github.com/collegedesk/collegedesk-api/internal/repository"
)

// MarksActor identifies the faculty member performing a marks mutation.
type MarksActor struct {
	ID   uint
	Name string
}

// MarksService applies partial mark updates, derives totals and grades, and
// maintains the append-only audit trail.
type MarksService interface {
	UpdateMarks(ctx context.Context, actor MarksActor, payload dto.MarksUpdateRequest) (dto.MarksUpdateResponse, error)
	BulkEntryGrade(ctx context.Context, actor MarksActor, payload dto.BulkGradeRequest) ([]dto.MarksResultResponse, error)
	ListResults(ctx context.Context, semester int, subjectCode string) ([]dto.MarksResultResponse, error)
	ListAudit(ctx context.Context, filter repository.MarksAuditFilter) ([]dto.MarksAuditResponse, error)
}

type marksService struct {
	repo      repository.MarksRepository
	students  repository.StudentRepository
	validator *validator.Validate
	notifier  NotificationPublisher
	sync      SyncRecorder
	logger    zerolog.Logger
	tracer    trace.Tracer
	now       func() time.Time
}

// NewMarksService constructs the marks service.
func NewMarksService(repo repository.MarksRepository, students repository.StudentRepository, validate *validator.Validate, notifier NotificationPublisher, sync SyncRecorder, logger zerolog.Logger) MarksService {
	return &marksService{
		repo:      repo,
		students:  students,
		validator: validate,
		notifier:  notifier,
		sync:      sync,
		logger:    logger.With().Str("component", "marks_service").Logger(),
		tracer:    otel.Tracer("github.com/collegedesk/collegedesk-api/internal/service/marks"),
		now:       time.Now,
	}
}

// computeTotalForGenericUpdate is the derivation used by the partial update
// path: the CIE average plus half the SEE score, rounded half away from zero.
// The bulk entry screen uses a different formula on purpose; the two are
// independent policies and must not be unified.
func computeTotalForGenericUpdate(cie1, cie2, see int) int {
	return int(math.Round(float64(cie1+cie2)/2 + float64(see)/2))
}

// computeTotalForBulkEntryGrading is the derivation used by the bulk entry
// screen: the raw internal components summed out of 60.
func computeTotalForBulkEntryGrading(cie1, cie2, assignment int) int {
	return cie1 + cie2 + assignment
}

// gradeForPercentage maps a 0-100 percentage onto the letter scale.
func gradeForPercentage(percentage float64) string {
	switch {
	case percentage >= 90:
		return "S"
	case percentage >= 80:
		return "A"
	case percentage >= 70:
		return "B"
	case percentage >= 60:
		return "C"
	case percentage >= 50:
		return "D"
	case percentage >= 40:
		return "E"
	default:
		return "F"
	}
}

// UpdateMarks applies a partial update to one editable result. Every changed
// field gets exactly one audit entry with the old and new values; unchanged
// fields produce none. A missing academic record or result row is a silent
// skip, reported through Updated=false rather than an error.
func (s *marksService) UpdateMarks(ctx context.Context, actor MarksActor, payload dto.MarksUpdateRequest) (dto.MarksUpdateResponse, error) {
	ctx, span := s.tracer.Start(ctx, "marks.update", trace.WithAttributes(
		attribute.Int64("marks.student_id", int64(payload.StudentID)),
		attribute.Int("marks.semester", payload.Semester),
		attribute.String("marks.subject_code", payload.SubjectCode),
		attribute.Int64("marks.actor_id", int64(actor.ID)),
	))
	defer span.End()

	if err := s.validator.Struct(payload); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation_failed")
		return dto.MarksUpdateResponse{}, err
	}

	hasRecord, err := s.repo.HasAcademicRecord(ctx, payload.StudentID, payload.Semester)
	if err != nil {
		span.RecordError(err)
		return dto.MarksUpdateResponse{}, err
	}
	if !hasRecord {
		s.logger.Debug().
			Uint("student_id", payload.StudentID).
			Int("semester", payload.Semester).
			Msg("no academic record for semester, skipping update")
		return dto.MarksUpdateResponse{}, nil
	}

	result, err := s.repo.GetResult(ctx, payload.StudentID, payload.Semester, payload.SubjectCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Debug().
				Uint("student_id", payload.StudentID).
				Str("subject_code", payload.SubjectCode).
				Msg("no editable result for subject, skipping update")
			return dto.MarksUpdateResponse{}, nil
		}
		span.RecordError(err)
		return dto.MarksUpdateResponse{}, err
	}

	studentUSN := ""
	if student, err := s.students.GetByID(ctx, payload.StudentID); err == nil {
		studentUSN = student.USN
	}

	timestamp := s.now()
	var auditEntries []models.MarksAuditLog
	appendAudit := func(field string, oldValue, newValue int) {
		auditEntries = append(auditEntries, models.MarksAuditLog{
			FacultyID:   actor.ID,
			FacultyName: actor.Name,
			StudentID:   payload.StudentID,
			StudentUSN:  studentUSN,
			Semester:    payload.Semester,
			SubjectCode: payload.SubjectCode,
			Field:       field,
			OldValue:    oldValue,
			NewValue:    newValue,
			CreatedAt:   timestamp,
		})
	}

	// Fixed field order; audit rows land in this order and listings read
	// them back newest-first.
	if payload.CIE1 != nil && *payload.CIE1 != result.CIE1 {
		appendAudit("cie1", result.CIE1, *payload.CIE1)
		result.CIE1 = *payload.CIE1
	}
	if payload.CIE2 != nil && *payload.CIE2 != result.CIE2 {
		appendAudit("cie2", result.CIE2, *payload.CIE2)
		result.CIE2 = *payload.CIE2
	}
	if payload.Assignment != nil && *payload.Assignment != result.Assignment {
		appendAudit("assignment", result.Assignment, *payload.Assignment)
		result.Assignment = *payload.Assignment
	}
	if payload.SEE != nil && *payload.SEE != result.SEE {
		appendAudit("see", result.SEE, *payload.SEE)
		result.SEE = *payload.SEE
	}

	result.Total = computeTotalForGenericUpdate(result.CIE1, result.CIE2, result.SEE)
	result.Grade = gradeForPercentage(float64(result.Total))

	if err := s.repo.SaveResult(ctx, &result); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "result_save_failed")
		return dto.MarksUpdateResponse{}, err
	}

	if err := s.repo.AppendAuditEntries(ctx, auditEntries); err != nil {
		s.logger.Warn().Err(err).
			Uint("student_id", payload.StudentID).
			Msg("failed to append marks audit entries")
		span.RecordError(err)
	} else if len(auditEntries) > 0 {
		observability.MarksAuditEntries().Add(float64(len(auditEntries)))
	}

	if s.notifier != nil && len(auditEntries) > 0 {
		_, err := s.notifier.Publish(ctx, dto.NotificationCreateRequest{
			RecipientID:   fmt.Sprintf("%d", payload.StudentID),
			RecipientRole: "student",
			Title:         "Marks updated",
			Message:       fmt.Sprintf("Your marks for %s were updated.", payload.SubjectCode),
			Type:          "marks",
			Priority:      "normal",
			Link:          "/results",
		})
		if err != nil {
			s.logger.Warn().Err(err).Msg("failed to publish marks notification")
		}
	}

	if s.sync != nil {
		if err := s.sync.Enqueue(ctx, "editable_results", fmt.Sprintf("%d", result.ID), "upsert", map[string]interface{}{
			"student_id":   result.StudentID,
			"semester":     result.Semester,
			"subject_code": result.SubjectCode,
			"total":        result.Total,
			"grade":        result.Grade,
		}); err != nil {
			s.logger.Warn().Err(err).Msg("failed to enqueue marks sync record")
		}
	}

	span.SetAttributes(attribute.Int("marks.audit_entries", len(auditEntries)))

	return dto.MarksUpdateResponse{
		Updated:      true,
		AuditEntries: len(auditEntries),
		Result:       dto.NewMarksResultResponse(result),
	}, nil
}

// BulkEntryGrade commits a batch of bulk entry rows using the bulk grading
// policy. Rows whose result cannot be located are skipped. Committed rows
// transition to saved status.
func (s *marksService) BulkEntryGrade(ctx context.Context, actor MarksActor, payload dto.BulkGradeRequest) ([]dto.MarksResultResponse, error) {
	ctx, span := s.tracer.Start(ctx, "marks.bulk_entry", trace.WithAttributes(
		attribute.Int("marks.rows", len(payload.Rows)),
		attribute.Int64("marks.actor_id", int64(actor.ID)),
	))
	defer span.End()

	if err := s.validator.Struct(payload); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation_failed")
		return nil, err
	}

	timestamp := s.now()
	responses := make([]dto.MarksResultResponse, 0, len(payload.Rows))
	for _, row := range payload.Rows {
		result, err := s.repo.GetResult(ctx, row.StudentID, row.Semester, row.SubjectCode)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				s.logger.Debug().
					Uint("student_id", row.StudentID).
					Str("subject_code", row.SubjectCode).
					Msg("no editable result for bulk row, skipping")
				continue
			}
			span.RecordError(err)
			return nil, err
		}

		var auditEntries []models.MarksAuditLog
		record := func(field string, oldValue, newValue int) {
			if oldValue == newValue {
				return
			}
			auditEntries = append(auditEntries, models.MarksAuditLog{
				FacultyID:   actor.ID,
				FacultyName: actor.Name,
				StudentID:   row.StudentID,
				Semester:    row.Semester,
				SubjectCode: row.SubjectCode,
				Field:       field,
				OldValue:    oldValue,
				NewValue:    newValue,
				CreatedAt:   timestamp,
			})
		}

		record("cie1", result.CIE1, row.CIE1)
		record("cie2", result.CIE2, row.CIE2)
		record("assignment", result.Assignment, row.Assignment)

		result.CIE1 = row.CIE1
		result.CIE2 = row.CIE2
		result.Assignment = row.Assignment
		result.Total = computeTotalForBulkEntryGrading(row.CIE1, row.CIE2, row.Assignment)
		result.Grade = gradeForPercentage(float64(result.Total) / 60 * 100)
		result.Status = models.ResultStatusSaved

		if err := s.repo.SaveResult(ctx, &result); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "bulk_save_failed")
			return nil, err
		}

		if err := s.repo.AppendAuditEntries(ctx, auditEntries); err != nil {
			s.logger.Warn().Err(err).
				Uint("student_id", row.StudentID).
				Msg("failed to append bulk audit entries")
		} else if len(auditEntries) > 0 {
			observability.MarksAuditEntries().Add(float64(len(auditEntries)))
		}

		responses = append(responses, dto.NewMarksResultResponse(result))
	}

	return responses, nil
}

func (s *marksService) ListResults(ctx context.Context, semester int, subjectCode string) ([]dto.MarksResultResponse, error) {
	results, err := s.repo.ListResults(ctx, semester, subjectCode)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.MarksResultResponse, 0, len(results))
	for _, result := range results {
		responses = append(responses, dto.NewMarksResultResponse(result))
	}
	return responses, nil
}

func (s *marksService) ListAudit(ctx context.Context, filter repository.MarksAuditFilter) ([]dto.MarksAuditResponse, error) {
	entries, err := s.repo.ListAudit(ctx, filter)
	if err != nil {
		return nil, err
	}
	return dto.NewMarksAuditResponseSlice(entries), nil
}
