package dto

import (
	"time"

	"github.com/collegedesk/collegedesk-api/internal/models"
)

// MarksUpdateRequest carries a partial update to one editable subject result.
// Nil fields are left untouched.
type MarksUpdateRequest struct {
	StudentID   uint   `json:"student_id" validate:"required"`
	Semester    int    `json:"semester" validate:"required,min=1,max=8"`
	SubjectCode string `json:"subject_code" validate:"required,max=32"`
	CIE1        *int   `json:"cie1" validate:"omitempty,min=0,max=25"`
	CIE2        *int   `json:"cie2" validate:"omitempty,min=0,max=25"`
	Assignment  *int   `json:"assignment" validate:"omitempty,min=0,max=10"`
	SEE         *int   `json:"see" validate:"omitempty,min=0,max=100"`
}

// BulkGradeRow is one row of the marks-management bulk entry screen.
type BulkGradeRow struct {
	StudentID   uint   `json:"student_id" validate:"required"`
	Semester    int    `json:"semester" validate:"required,min=1,max=8"`
	SubjectCode string `json:"subject_code" validate:"required,max=32"`
	CIE1        int    `json:"cie1" validate:"min=0,max=25"`
	CIE2        int    `json:"cie2" validate:"min=0,max=25"`
	Assignment  int    `json:"assignment" validate:"min=0,max=10"`
}

// BulkGradeRequest commits a batch of bulk entry rows.
type BulkGradeRequest struct {
	Rows []BulkGradeRow `json:"rows" validate:"required,min=1,dive"`
}

// MarksResultResponse is the serialized editable result.
type MarksResultResponse struct {
	ID          uint   `json:"id"`
	StudentID   uint   `json:"student_id"`
	Semester    int    `json:"semester"`
	SubjectCode string `json:"subject_code"`
	SubjectName string `json:"subject_name"`
	CIE1        int    `json:"cie1"`
	CIE2        int    `json:"cie2"`
	Assignment  int    `json:"assignment"`
	SEE         int    `json:"see"`
	Total       int    `json:"total"`
	Grade       string `json:"grade"`
	Status      string `json:"status"`
}

// NewMarksResultResponse converts a model into a DTO.
func NewMarksResultResponse(result models.EditableSubjectResult) MarksResultResponse {
	return MarksResultResponse{
		ID:          result.ID,
		StudentID:   result.StudentID,
		Semester:    result.Semester,
		SubjectCode: result.SubjectCode,
		SubjectName: result.SubjectName,
		CIE1:        result.CIE1,
		CIE2:        result.CIE2,
		Assignment:  result.Assignment,
		SEE:         result.SEE,
		Total:       result.Total,
		Grade:       result.Grade,
		Status:      result.Status,
	}
}

// MarksUpdateResponse reports the outcome of a partial marks update. Updated
// is false when the target result row could not be located.
type MarksUpdateResponse struct {
	Updated      bool                `json:"updated"`
	AuditEntries int                 `json:"audit_entries"`
	Result       MarksResultResponse `json:"result,omitempty"`
}

// MarksAuditResponse is the serialized audit trail entry.
type MarksAuditResponse struct {
	ID          uint      `json:"id"`
	FacultyID   uint      `json:"faculty_id"`
	FacultyName string    `json:"faculty_name"`
	StudentID   uint      `json:"student_id"`
	StudentUSN  string    `json:"student_usn"`
	Semester    int       `json:"semester"`
	SubjectCode string    `json:"subject_code"`
	Field       string    `json:"field"`
	OldValue    int       `json:"old_value"`
	NewValue    int       `json:"new_value"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewMarksAuditResponse converts a model into a DTO.
func NewMarksAuditResponse(entry models.MarksAuditLog) MarksAuditResponse {
	return MarksAuditResponse{
		ID:          entry.ID,
		FacultyID:   entry.FacultyID,
		FacultyName: entry.FacultyName,
		StudentID:   entry.StudentID,
		StudentUSN:  entry.StudentUSN,
		Semester:    entry.Semester,
		SubjectCode: entry.SubjectCode,
		Field:       entry.Field,
		OldValue:    entry.OldValue,
		NewValue:    entry.NewValue,
		CreatedAt:   entry.CreatedAt,
	}
}

// NewMarksAuditResponseSlice converts a slice of models into DTOs.
func NewMarksAuditResponseSlice(entries []models.MarksAuditLog) []MarksAuditResponse {
	out := make([]MarksAuditResponse, 0, len(entries))
	for _, entry := range entries {
		out = append(out, NewMarksAuditResponse(entry))
	}
	return out
}
