package models

import "time"

// Faculty represents a teaching staff member.
type Faculty struct {
	ID         uint             `gorm:"primaryKey" json:"id"`
	Name       string           `gorm:"size:255;not null" json:"name"`
	Email      string           `gorm:"size:255;uniqueIndex" json:"email"`
	Department string           `gorm:"size:64;index" json:"department"`
	Subjects   []FacultySubject `json:"subjects,omitempty"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
}

// FacultySubject maps a faculty member to a subject they teach in a given
// semester and section. The roster for a session is derived from this mapping.
type FacultySubject struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	FacultyID   uint   `gorm:"index;not null" json:"faculty_id"`
	SubjectCode string `gorm:"size:32;index;not null" json:"subject_code"`
	SubjectName string `gorm:"size:255" json:"subject_name"`
	Semester    int    `gorm:"not null" json:"semester"`
	Section     string `gorm:"size:8" json:"section"`
}

// FacultyAttendance summarizes one taught session. A faculty teaching the same
// subject and section twice in a day produces two rows; rows are never merged.
type FacultyAttendance struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	FacultyID     uint      `gorm:"index;not null" json:"faculty_id"`
	SubjectCode   string    `gorm:"size:32;index;not null" json:"subject_code"`
	Section       string    `gorm:"size:8" json:"section"`
	Date          string    `gorm:"size:10;index;not null" json:"date"`
	TotalStudents int       `gorm:"not null" json:"total_students"`
	PresentCount  int       `gorm:"not null" json:"present_count"`
	CreatedAt     time.Time `json:"created_at"`
}
