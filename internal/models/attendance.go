package models

import "time"

// AttendanceStatus enumerates the recognised per-student session outcomes.
type AttendanceStatus string

// Attendance statuses. Late counts as attended for aggregate purposes.
const (
	AttendancePresent AttendanceStatus = "Present"
	AttendanceAbsent  AttendanceStatus = "Absent"
	AttendanceLate    AttendanceStatus = "Late"
)

// Counted reports whether the status contributes to classes attended.
func (s AttendanceStatus) Counted() bool {
	return s == AttendancePresent || s == AttendanceLate
}

// Valid reports whether the status is one of the recognised values.
func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendancePresent, AttendanceAbsent, AttendanceLate:
		return true
	}
	return false
}

// AttendanceMethod records how a log entry was captured.
type AttendanceMethod string

const (
	MethodManual AttendanceMethod = "manual"
	MethodAI     AttendanceMethod = "ai"
)

// StudentAttendanceLog is one row per (student, subject, date, session).
// A resave of a session replaces all rows sharing (subject_code, date,
// session_id) instead of appending, so the committed set stays unique per
// natural key.
type StudentAttendanceLog struct {
	ID          uint             `gorm:"primaryKey" json:"id"`
	StudentID   uint             `gorm:"uniqueIndex:idx_attendance_log_natural;not null" json:"student_id"`
	SubjectCode string           `gorm:"size:32;uniqueIndex:idx_attendance_log_natural;not null" json:"subject_code"`
	Date        string           `gorm:"size:10;uniqueIndex:idx_attendance_log_natural;not null" json:"date"`
	SessionID   string           `gorm:"size:64;uniqueIndex:idx_attendance_log_natural;not null" json:"session_id"`
	Status      AttendanceStatus `gorm:"size:16;not null" json:"status"`
	Method      AttendanceMethod `gorm:"size:16;not null;default:manual" json:"method"`
	Confidence  *float64         `json:"confidence,omitempty"`
	Timestamp   time.Time        `json:"timestamp"`
}
