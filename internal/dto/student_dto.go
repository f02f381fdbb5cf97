package dto

import "github.com/collegedesk/collegedesk-api/internal/models"

// SubjectAttendanceResponse is one per-subject aggregate row for a student.
type SubjectAttendanceResponse struct {
	SubjectCode     string  `json:"subject_code"`
	SubjectName     string  `json:"subject_name"`
	TotalClasses    int     `json:"total_classes"`
	ClassesAttended int     `json:"classes_attended"`
	Percentage      float64 `json:"percentage"`
}

// StudentResponse is the serialized student record.
type StudentResponse struct {
	ID         uint                        `json:"id"`
	USN        string                      `json:"usn"`
	Name       string                      `json:"name"`
	Department string                      `json:"department"`
	Semester   int                         `json:"semester"`
	Section    string                      `json:"section"`
	PhotoURL   string                      `json:"photo_url,omitempty"`
	Attendance []SubjectAttendanceResponse `json:"attendance,omitempty"`
}

// NewStudentResponse converts a model into a DTO.
func NewStudentResponse(student models.Student) StudentResponse {
	attendance := make([]SubjectAttendanceResponse, 0, len(student.Attendance))
	for _, row := range student.Attendance {
		percentage := 0.0
		if row.TotalClasses > 0 {
			percentage = float64(row.ClassesAttended) / float64(row.TotalClasses) * 100
		}
		attendance = append(attendance, SubjectAttendanceResponse{
			SubjectCode:     row.SubjectCode,
			SubjectName:     row.SubjectName,
			TotalClasses:    row.TotalClasses,
			ClassesAttended: row.ClassesAttended,
			Percentage:      percentage,
		})
	}

	return StudentResponse{
		ID:         student.ID,
		USN:        student.USN,
		Name:       student.Name,
		Department: student.Department,
		Semester:   student.Semester,
		Section:    student.Section,
		PhotoURL:   student.PhotoURL,
		Attendance: attendance,
	}
}

// PhotoUploadResponse reports the stored photo URL after a successful upload.
type PhotoUploadResponse struct {
	StudentID uint   `json:"student_id"`
	PhotoURL  string `json:"photo_url"`
}
