package dto

import (
	"time"

	"github.com/collegedesk/collegedesk-api/internal/models"
)

// RosterStudent is one enrolled student inside a resolved roster.
type RosterStudent struct {
	StudentID uint   `json:"student_id"`
	USN       string `json:"usn"`
	Name      string `json:"name"`
}

// RosterResponse is the enrolled student set for a subject taught by a faculty.
type RosterResponse struct {
	SubjectCode string          `json:"subject_code"`
	SubjectName string          `json:"subject_name"`
	Semester    int             `json:"semester"`
	Section     string          `json:"section"`
	Students    []RosterStudent `json:"students"`
}

// SessionEntry is one draft row of a session roster.
type SessionEntry struct {
	StudentID  uint                    `json:"student_id" validate:"required"`
	USN        string                  `json:"usn"`
	Name       string                  `json:"name"`
	Status     models.AttendanceStatus `json:"status" validate:"required,oneof=Present Absent Late"`
	Method     models.AttendanceMethod `json:"method" validate:"omitempty,oneof=manual ai"`
	Confidence *float64                `json:"confidence,omitempty"`
}

// SessionRoster is the editable draft for one class session. Mutations touch
// only the draft; nothing is committed until the save request is issued.
type SessionRoster struct {
	SubjectCode string         `json:"subject_code"`
	SubjectName string         `json:"subject_name"`
	Section     string         `json:"section"`
	Semester    int            `json:"semester"`
	Date        string         `json:"date"`
	SessionID   string         `json:"session_id"`
	Committed   bool           `json:"committed"`
	Entries     []SessionEntry `json:"entries"`
}

// SetStatus updates the draft status of a single student. Unknown student ids
// are ignored.
func (r *SessionRoster) SetStatus(studentID uint, status models.AttendanceStatus) {
	for i := range r.Entries {
		if r.Entries[i].StudentID == studentID {
			r.Entries[i].Status = status
			return
		}
	}
}

// SetAllStatus applies the status to every draft row.
func (r *SessionRoster) SetAllStatus(status models.AttendanceStatus) {
	for i := range r.Entries {
		r.Entries[i].Status = status
	}
}

// PresentCount counts rows whose status contributes to attendance.
func (r SessionRoster) PresentCount() int {
	count := 0
	for _, entry := range r.Entries {
		if entry.Status.Counted() {
			count++
		}
	}
	return count
}

// SessionSaveRequest commits a full session roster in one batch.
type SessionSaveRequest struct {
	SubjectCode string         `json:"subject_code" validate:"required,max=32"`
	SubjectName string         `json:"subject_name" validate:"omitempty,max=255"`
	Section     string         `json:"section" validate:"omitempty,max=8"`
	Semester    int            `json:"semester" validate:"required,min=1,max=8"`
	Date        string         `json:"date" validate:"required,datetime=2006-01-02"`
	SessionID   string         `json:"session_id" validate:"required,max=64"`
	Entries     []SessionEntry `json:"entries" validate:"dive"`
}

// SessionSaveResponse reports the outcome of a session commit.
type SessionSaveResponse struct {
	Saved         bool   `json:"saved"`
	SubjectCode   string `json:"subject_code"`
	Date          string `json:"date"`
	SessionID     string `json:"session_id"`
	TotalStudents int    `json:"total_students"`
	PresentCount  int    `json:"present_count"`
}

// AttendanceLogResponse is the serialized committed log row.
type AttendanceLogResponse struct {
	ID          uint                    `json:"id"`
	StudentID   uint                    `json:"student_id"`
	SubjectCode string                  `json:"subject_code"`
	Date        string                  `json:"date"`
	SessionID   string                  `json:"session_id"`
	Status      models.AttendanceStatus `json:"status"`
	Method      models.AttendanceMethod `json:"method"`
	Confidence  *float64                `json:"confidence,omitempty"`
	Timestamp   time.Time               `json:"timestamp"`
}

// NewAttendanceLogResponse converts a model into a DTO.
func NewAttendanceLogResponse(log models.StudentAttendanceLog) AttendanceLogResponse {
	return AttendanceLogResponse{
		ID:          log.ID,
		StudentID:   log.StudentID,
		SubjectCode: log.SubjectCode,
		Date:        log.Date,
		SessionID:   log.SessionID,
		Status:      log.Status,
		Method:      log.Method,
		Confidence:  log.Confidence,
		Timestamp:   log.Timestamp,
	}
}

// FacultyAttendanceResponse is the serialized taught-session summary.
type FacultyAttendanceResponse struct {
	ID            uint      `json:"id"`
	FacultyID     uint      `json:"faculty_id"`
	SubjectCode   string    `json:"subject_code"`
	Section       string    `json:"section"`
	Date          string    `json:"date"`
	TotalStudents int       `json:"total_students"`
	PresentCount  int       `json:"present_count"`
	CreatedAt     time.Time `json:"created_at"`
}

// NewFacultyAttendanceResponse converts a model into a DTO.
func NewFacultyAttendanceResponse(record models.FacultyAttendance) FacultyAttendanceResponse {
	return FacultyAttendanceResponse{
		ID:            record.ID,
		FacultyID:     record.FacultyID,
		SubjectCode:   record.SubjectCode,
		Section:       record.Section,
		Date:          record.Date,
		TotalStudents: record.TotalStudents,
		PresentCount:  record.PresentCount,
		CreatedAt:     record.CreatedAt,
	}
}

// NewFacultyAttendanceResponseSlice converts a slice of models into DTOs.
func NewFacultyAttendanceResponseSlice(records []models.FacultyAttendance) []FacultyAttendanceResponse {
	out := make([]FacultyAttendanceResponse, 0, len(records))
	for _, record := range records {
		out = append(out, NewFacultyAttendanceResponse(record))
	}
	return out
}
