package service

import (
	"context"
	"errors"
	"fmt"
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

// AttendanceService owns the session attendance commit path: loading a
// session draft, committing it with replace semantics, folding the batch into
// per-student aggregates and recording the faculty session summary.
type AttendanceService interface {
	LoadSession(ctx context.Context, facultyID uint, subjectCode, date, sessionID string) (dto.SessionRoster, error)
	SaveSession(ctx context.Context, facultyID uint, payload dto.SessionSaveRequest) (dto.SessionSaveResponse, error)
	ListFacultyAttendance(ctx context.Context, facultyID uint) ([]dto.FacultyAttendanceResponse, error)
}

type attendanceService struct {
	attendance repository.AttendanceRepository
	students   repository.StudentRepository
	roster     RosterService
	validator  *validator.Validate
	sync       SyncRecorder
	logger     zerolog.Logger
	tracer     trace.Tracer
	now        func() time.Time
}

// NewAttendanceService constructs the attendance service.
func NewAttendanceService(attendance repository.AttendanceRepository, students repository.StudentRepository, roster RosterService, validate *validator.Validate, sync SyncRecorder, logger zerolog.Logger) AttendanceService {
	return &attendanceService{
		attendance: attendance,
		students:   students,
		roster:     roster,
		validator:  validate,
		sync:       sync,
		logger:     logger.With().Str("component", "attendance_service").Logger(),
		tracer:     otel.Tracer("github.com/collegedesk/collegedesk-api/internal/service/attendance"),
		now:        time.Now,
	}
}

// LoadSession returns the committed roster for the session when one exists,
// otherwise a fresh draft with every enrolled student marked Absent. The
// draft is the caller's to edit; nothing here mutates committed state.
func (s *attendanceService) LoadSession(ctx context.Context, facultyID uint, subjectCode, date, sessionID string) (dto.SessionRoster, error) {
	roster, err := s.roster.ResolveRoster(ctx, facultyID, subjectCode)
	if err != nil {
		return dto.SessionRoster{}, err
	}

	session := dto.SessionRoster{
		SubjectCode: roster.SubjectCode,
		SubjectName: roster.SubjectName,
		Section:     roster.Section,
		Semester:    roster.Semester,
		Date:        date,
		SessionID:   sessionID,
		Entries:     make([]dto.SessionEntry, 0, len(roster.Students)),
	}

	key := repository.SessionKey{SubjectCode: subjectCode, Date: date, SessionID: sessionID}
	logs, err := s.attendance.ListSessionLogs(ctx, key)
	if err != nil {
		return dto.SessionRoster{}, err
	}

	if len(logs) > 0 {
		names := make(map[uint]dto.RosterStudent, len(roster.Students))
		for _, student := range roster.Students {
			names[student.StudentID] = student
		}
		session.Committed = true
		for _, log := range logs {
			entry := dto.SessionEntry{
				StudentID:  log.StudentID,
				Status:     log.Status,
				Method:     log.Method,
				Confidence: log.Confidence,
			}
			if student, ok := names[log.StudentID]; ok {
				entry.USN = student.USN
				entry.Name = student.Name
			}
			session.Entries = append(session.Entries, entry)
		}
		return session, nil
	}

	for _, student := range roster.Students {
		session.Entries = append(session.Entries, dto.SessionEntry{
			StudentID: student.StudentID,
			USN:       student.USN,
			Name:      student.Name,
			Status:    models.AttendanceAbsent,
			Method:    models.MethodManual,
		})
	}

	return session, nil
}

// SaveSession commits a session batch. The committed log set is replaced
// wholesale, so repeated saves converge on the same logs. The per-student
// aggregates are incremented on every call: resaving a session bumps
// totalClasses again. That mirrors how the counters have always behaved and
// changing it needs a product decision, not a code one.
func (s *attendanceService) SaveSession(ctx context.Context, facultyID uint, payload dto.SessionSaveRequest) (dto.SessionSaveResponse, error) {
	ctx, span := s.tracer.Start(ctx, "attendance.save_session", trace.WithAttributes(
		attribute.String("attendance.subject_code", payload.SubjectCode),
		attribute.String("attendance.date", payload.Date),
		attribute.String("attendance.session_id", payload.SessionID),
		attribute.Int64("attendance.faculty_id", int64(facultyID)),
	))
	defer span.End()

	if err := s.validator.Struct(payload); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation_failed")
		return dto.SessionSaveResponse{}, err
	}

	response := dto.SessionSaveResponse{
		SubjectCode: payload.SubjectCode,
		Date:        payload.Date,
		SessionID:   payload.SessionID,
	}

	if len(payload.Entries) == 0 {
		span.SetAttributes(attribute.Bool("attendance.empty_draft", true))
		return response, nil
	}

	timestamp := s.now()
	method := models.MethodManual
	logs := make([]models.StudentAttendanceLog, 0, len(payload.Entries))
	presentCount := 0
	for _, entry := range payload.Entries {
		entryMethod := entry.Method
		if entryMethod == "" {
			entryMethod = models.MethodManual
		}
		if entryMethod == models.MethodAI {
			method = models.MethodAI
		}
		if entry.Status.Counted() {
			presentCount++
		}
		logs = append(logs, models.StudentAttendanceLog{
			StudentID:   entry.StudentID,
			SubjectCode: payload.SubjectCode,
			Date:        payload.Date,
			SessionID:   payload.SessionID,
			Status:      entry.Status,
			Method:      entryMethod,
			Confidence:  entry.Confidence,
			Timestamp:   timestamp,
		})
	}

	key := repository.SessionKey{SubjectCode: payload.SubjectCode, Date: payload.Date, SessionID: payload.SessionID}
	if err := s.attendance.ReplaceSessionLogs(ctx, key, logs); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "session_replace_failed")
		return dto.SessionSaveResponse{}, err
	}

	for _, entry := range payload.Entries {
		err := s.students.BumpSubjectAggregate(ctx, entry.StudentID, payload.SubjectCode, payload.SubjectName, entry.Status.Counted())
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				s.logger.Debug().Uint("student_id", entry.StudentID).Msg("skipping aggregate for unknown student")
				continue
			}
			span.RecordError(err)
			span.SetStatus(codes.Error, "aggregate_update_failed")
			return dto.SessionSaveResponse{}, err
		}
	}

	summary := models.FacultyAttendance{
		FacultyID:     facultyID,
		SubjectCode:   payload.SubjectCode,
		Section:       payload.Section,
		Date:          payload.Date,
		TotalStudents: len(payload.Entries),
		PresentCount:  presentCount,
	}
	if err := s.attendance.CreateFacultyAttendance(ctx, &summary); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "faculty_attendance_failed")
		return dto.SessionSaveResponse{}, err
	}

	if s.sync != nil {
		sessionKey := fmt.Sprintf("%s:%s:%s", payload.SubjectCode, payload.Date, payload.SessionID)
		if err := s.sync.Enqueue(ctx, "attendance_sessions", sessionKey, "upsert", map[string]interface{}{
			"subject_code":   payload.SubjectCode,
			"date":           payload.Date,
			"session_id":     payload.SessionID,
			"total_students": len(payload.Entries),
			"present_count":  presentCount,
		}); err != nil {
			s.logger.Warn().Err(err).Msg("failed to enqueue session sync record")
		}
		if err := s.sync.Enqueue(ctx, "faculty_attendance", fmt.Sprintf("%d", summary.ID), "insert", map[string]interface{}{
			"faculty_id":     facultyID,
			"subject_code":   payload.SubjectCode,
			"date":           payload.Date,
			"total_students": summary.TotalStudents,
			"present_count":  summary.PresentCount,
		}); err != nil {
			s.logger.Warn().Err(err).Msg("failed to enqueue faculty attendance sync record")
		}
	}

	observability.AttendanceSessionsSaved().WithLabelValues(string(method)).Inc()
	span.SetAttributes(
		attribute.Int("attendance.total_students", len(payload.Entries)),
		attribute.Int("attendance.present_count", presentCount),
	)

	s.logger.Info().
		Str("subject_code", payload.SubjectCode).
		Str("date", payload.Date).
		Str("session_id", payload.SessionID).
		Int("total_students", len(payload.Entries)).
		Int("present_count", presentCount).
		Msg("session attendance saved")

	response.Saved = true
	response.TotalStudents = len(payload.Entries)
	response.PresentCount = presentCount
	return response, nil
}

func (s *attendanceService) ListFacultyAttendance(ctx context.Context, facultyID uint) ([]dto.FacultyAttendanceResponse, error) {
	records, err := s.attendance.ListFacultyAttendance(ctx, facultyID)
	if err != nil {
		return nil, err
	}
	return dto.NewFacultyAttendanceResponseSlice(records), nil
}
