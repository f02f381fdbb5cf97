package models

import "time"

// Result lifecycle states for an editable subject result.
const (
	ResultStatusDraft = "draft"
	ResultStatusSaved = "saved"
)

// EditableSubjectResult holds the mutable grade components for one student,
// subject and semester. Total is always derived from the input components.
type EditableSubjectResult struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	StudentID   uint      `gorm:"uniqueIndex:idx_editable_result_key;not null" json:"student_id"`
	Semester    int       `gorm:"uniqueIndex:idx_editable_result_key;not null" json:"semester"`
	SubjectCode string    `gorm:"size:32;uniqueIndex:idx_editable_result_key;not null" json:"subject_code"`
	SubjectName string    `gorm:"size:255" json:"subject_name"`
	CIE1        int       `gorm:"not null;default:0" json:"cie1"`
	CIE2        int       `gorm:"not null;default:0" json:"cie2"`
	Assignment  int       `gorm:"not null;default:0" json:"assignment"`
	SEE         int       `gorm:"not null;default:0" json:"see"`
	Total       int       `gorm:"not null;default:0" json:"total"`
	Grade       string    `gorm:"size:4" json:"grade"`
	Status      string    `gorm:"size:16;not null;default:draft" json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// AcademicRecord is the per-semester summary row for a student.
type AcademicRecord struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	StudentID uint    `gorm:"index:idx_academic_record_key,unique;not null" json:"student_id"`
	Semester  int     `gorm:"index:idx_academic_record_key,unique;not null" json:"semester"`
	SGPA      float64 `json:"sgpa"`
}

// MarksAuditLog is append-only: one entry per changed field per commit.
// Entries are never updated or deleted; insertion order is the only total
// order and listings return most-recent-first.
type MarksAuditLog struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	FacultyID   uint      `gorm:"index;not null" json:"faculty_id"`
	FacultyName string    `gorm:"size:255" json:"faculty_name"`
	StudentID   uint      `gorm:"index;not null" json:"student_id"`
	StudentUSN  string    `gorm:"size:32" json:"student_usn"`
	Semester    int       `gorm:"not null" json:"semester"`
	SubjectCode string    `gorm:"size:32;index;not null" json:"subject_code"`
	Field       string    `gorm:"size:32;not null" json:"field"`
	OldValue    int       `gorm:"not null" json:"old_value"`
	NewValue    int       `gorm:"not null" json:"new_value"`
	CreatedAt   time.Time `json:"created_at"`
}
