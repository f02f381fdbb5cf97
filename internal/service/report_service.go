package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/collegedesk/collegedesk-api/internal/dto"
	"github.com/collegedesk/collegedesk-api/internal/repository"
)

// ReportService builds attendance projections: the CSV export of a session
// roster and the cached per-student attendance summary.
type ReportService interface {
	SessionCSV(roster dto.SessionRoster) ([]byte, error)
	StudentSummary(ctx context.Context, studentID uint) (dto.StudentResponse, error)
}

type reportService struct {
	students repository.StudentRepository
	cache    *redis.Client
	ttl      time.Duration
	logger   zerolog.Logger
}

// NewReportService constructs the report service. The cache is optional.
func NewReportService(students repository.StudentRepository, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) ReportService {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &reportService{
		students: students,
		cache:    cache,
		ttl:      ttl,
		logger:   logger.With().Str("component", "report_service").Logger(),
	}
}

// SessionCSV projects a draft roster into CSV rows. Pure; the draft is not
// committed or mutated.
func (s *reportService) SessionCSV(roster dto.SessionRoster) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write([]string{"Student ID", "Name", "Date", "Session", "Status", "Method", "Confidence"}); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}

	for _, entry := range roster.Entries {
		confidence := ""
		if entry.Confidence != nil {
			confidence = strconv.FormatFloat(*entry.Confidence, 'f', 2, 64)
		}
		row := []string{
			entry.USN,
			entry.Name,
			roster.Date,
			roster.SessionID,
			string(entry.Status),
			string(entry.Method),
			confidence,
		}
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// StudentSummary returns the student's per-subject aggregates, cached per
// student for the configured TTL.
func (s *reportService) StudentSummary(ctx context.Context, studentID uint) (dto.StudentResponse, error) {
	cacheKey := ""
	if s.cache != nil {
		cacheKey = fmt.Sprintf("reports:student:v1:%d", studentID)
		if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil && cached != "" {
			var response dto.StudentResponse
			if err := json.Unmarshal([]byte(cached), &response); err == nil {
				return response, nil
			}
		}
	}

	student, err := s.students.GetByID(ctx, studentID)
	if err != nil {
		return dto.StudentResponse{}, err
	}

	response := dto.NewStudentResponse(student)

	if cacheKey != "" {
		if payload, err := json.Marshal(response); err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.ttl).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to cache student summary")
			}
		}
	}

	return response, nil
}
