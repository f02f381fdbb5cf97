package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/collegedesk/collegedesk-api/internal/models"
)

// SessionKey is the natural key identifying one class session.
type SessionKey struct {
	SubjectCode string
	Date        string
	SessionID   string
}

// AttendanceRepository defines data operations for per-session attendance
// logs and faculty session summaries.
type AttendanceRepository interface {
	ListSessionLogs(ctx context.Context, key SessionKey) ([]models.StudentAttendanceLog, error)
	ReplaceSessionLogs(ctx context.Context, key SessionKey, logs []models.StudentAttendanceLog) error
	ListStudentLogs(ctx context.Context, studentID uint, subjectCode string) ([]models.StudentAttendanceLog, error)
	CreateFacultyAttendance(ctx context.Context, record *models.FacultyAttendance) error
	ListFacultyAttendance(ctx context.Context, facultyID uint) ([]models.FacultyAttendance, error)
}

type attendanceRepository struct {
	db *gorm.DB
}

// NewAttendanceRepository instantiates the repository.
func NewAttendanceRepository(db *gorm.DB) AttendanceRepository {
	return &attendanceRepository{db: db}
}

func (r *attendanceRepository) sessionScope(ctx context.Context, key SessionKey) *gorm.DB {
	return r.db.WithContext(ctx).
		Where("subject_code = ?", key.SubjectCode).
		Where("date = ?", key.Date).
		Where("session_id = ?", key.SessionID)
}

func (r *attendanceRepository) ListSessionLogs(ctx context.Context, key SessionKey) ([]models.StudentAttendanceLog, error) {
	var logs []models.StudentAttendanceLog
	if err := r.sessionScope(ctx, key).
		Order("student_id ASC").
		Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

// ReplaceSessionLogs removes every committed log sharing the session key and
// inserts the new batch in a single transaction, so a resave converges on the
// same final log set instead of appending duplicates.
func (r *attendanceRepository) ReplaceSessionLogs(ctx context.Context, key SessionKey, logs []models.StudentAttendanceLog) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("subject_code = ?", key.SubjectCode).
			Where("date = ?", key.Date).
			Where("session_id = ?", key.SessionID).
			Delete(&models.StudentAttendanceLog{}).Error; err != nil {
			return err
		}
		if len(logs) == 0 {
			return nil
		}
		return tx.Create(&logs).Error
	})
}

func (r *attendanceRepository) ListStudentLogs(ctx context.Context, studentID uint, subjectCode string) ([]models.StudentAttendanceLog, error) {
	query := r.db.WithContext(ctx).Where("student_id = ?", studentID)
	if subjectCode != "" {
		query = query.Where("subject_code = ?", subjectCode)
	}

	var logs []models.StudentAttendanceLog
	if err := query.Order("date DESC, session_id DESC").Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

func (r *attendanceRepository) CreateFacultyAttendance(ctx context.Context, record *models.FacultyAttendance) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *attendanceRepository) ListFacultyAttendance(ctx context.Context, facultyID uint) ([]models.FacultyAttendance, error) {
	var records []models.FacultyAttendance
	if err := r.db.WithContext(ctx).
		Where("faculty_id = ?", facultyID).
		Order("date DESC, id DESC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}
