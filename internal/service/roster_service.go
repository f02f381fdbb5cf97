package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/collegedesk/collegedesk-api/internal/dto"
	"github.com/collegedesk/collegedesk-api/internal/repository"
)

// RosterService resolves the enrolled student set for a taught subject.
type RosterService interface {
	ResolveRoster(ctx context.Context, facultyID uint, subjectCode string) (dto.RosterResponse, error)
}

type rosterService struct {
	faculty  repository.FacultyRepository
	students repository.StudentRepository
	logger   zerolog.Logger
}

// NewRosterService constructs the roster service.
func NewRosterService(faculty repository.FacultyRepository, students repository.StudentRepository, logger zerolog.Logger) RosterService {
	return &rosterService{
		faculty:  faculty,
		students: students,
		logger:   logger.With().Str("component", "roster_service").Logger(),
	}
}

// ResolveRoster looks up the subject's semester from the faculty's taught
// subjects and returns every student in that semester. An unknown subject
// yields an empty roster, not an error. Section is carried for display but
// not applied as a filter.
func (s *rosterService) ResolveRoster(ctx context.Context, facultyID uint, subjectCode string) (dto.RosterResponse, error) {
	subject, err := s.faculty.FindSubject(ctx, facultyID, subjectCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.RosterResponse{SubjectCode: subjectCode, Students: []dto.RosterStudent{}}, nil
		}
		return dto.RosterResponse{}, err
	}

	students, err := s.students.ListBySemester(ctx, subject.Semester)
	if err != nil {
		return dto.RosterResponse{}, err
	}

	roster := dto.RosterResponse{
		SubjectCode: subject.SubjectCode,
		SubjectName: subject.SubjectName,
		Semester:    subject.Semester,
		Section:     subject.Section,
		Students:    make([]dto.RosterStudent, 0, len(students)),
	}
	for _, student := range students {
		roster.Students = append(roster.Students, dto.RosterStudent{
			StudentID: student.ID,
			USN:       student.USN,
			Name:      student.Name,
		})
	}

	return roster, nil
}
