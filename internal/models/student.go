package models

import "time"

// Student represents an enrolled learner identified by a university seat number.
type Student struct {
	ID         uint                `gorm:"primaryKey" json:"id"`
	USN        string              `gorm:"size:32;uniqueIndex;not null" json:"usn"`
	Name       string              `gorm:"size:255;not null" json:"name"`
	Email      string              `gorm:"size:255;uniqueIndex" json:"email"`
	Department string              `gorm:"size:64;index" json:"department"`
	Semester   int                 `gorm:"index;not null" json:"semester"`
	Section    string              `gorm:"size:8" json:"section"`
	PhotoURL   string              `gorm:"size:512" json:"photo_url"`
	Attendance []SubjectAttendance `json:"attendance,omitempty"`
	CreatedAt  time.Time           `json:"created_at"`
	UpdatedAt  time.Time           `json:"updated_at"`
}

// SubjectAttendance is the per-subject running aggregate for one student.
// It only ever grows; individual sessions live in StudentAttendanceLog.
type SubjectAttendance struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	StudentID       uint      `gorm:"index:idx_subject_attendance_student_subject,unique;not null" json:"student_id"`
	SubjectCode     string    `gorm:"size:32;index:idx_subject_attendance_student_subject,unique;not null" json:"subject_code"`
	SubjectName     string    `gorm:"size:255" json:"subject_name"`
	TotalClasses    int       `gorm:"not null;default:0" json:"total_classes"`
	ClassesAttended int       `gorm:"not null;default:0" json:"classes_attended"`
	UpdatedAt       time.Time `json:"updated_at"`
}
