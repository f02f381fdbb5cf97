package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/collegedesk/collegedesk-api/internal/models"
)

// MarksAuditFilter narrows audit trail queries.
type MarksAuditFilter struct {
	StudentID   *uint
	FacultyID   *uint
	SubjectCode *string
	Limit       int
}

// MarksRepository defines data operations for editable results and the
// append-only audit trail.
type MarksRepository interface {
	GetResult(ctx context.Context, studentID uint, semester int, subjectCode string) (models.EditableSubjectResult, error)
	ListResults(ctx context.Context, semester int, subjectCode string) ([]models.EditableSubjectResult, error)
	SaveResult(ctx context.Context, result *models.EditableSubjectResult) error
	HasAcademicRecord(ctx context.Context, studentID uint, semester int) (bool, error)
	AppendAuditEntries(ctx context.Context, entries []models.MarksAuditLog) error
	ListAudit(ctx context.Context, filter MarksAuditFilter) ([]models.MarksAuditLog, error)
}

type marksRepository struct {
	db *gorm.DB
}

// NewMarksRepository instantiates the repository.
func NewMarksRepository(db *gorm.DB) MarksRepository {
	return &marksRepository{db: db}
}

func (r *marksRepository) GetResult(ctx context.Context, studentID uint, semester int, subjectCode string) (models.EditableSubjectResult, error) {
	var result models.EditableSubjectResult
	if err := r.db.WithContext(ctx).
		Where("student_id = ? AND semester = ? AND subject_code = ?", studentID, semester, subjectCode).
		First(&result).Error; err != nil {
		return models.EditableSubjectResult{}, err
	}
	return result, nil
}

func (r *marksRepository) ListResults(ctx context.Context, semester int, subjectCode string) ([]models.EditableSubjectResult, error) {
	var results []models.EditableSubjectResult
	if err := r.db.WithContext(ctx).
		Where("semester = ? AND subject_code = ?", semester, subjectCode).
		Order("student_id ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *marksRepository) SaveResult(ctx context.Context, result *models.EditableSubjectResult) error {
	return r.db.WithContext(ctx).Save(result).Error
}

func (r *marksRepository) HasAcademicRecord(ctx context.Context, studentID uint, semester int) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.AcademicRecord{}).
		Where("student_id = ? AND semester = ?", studentID, semester).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// AppendAuditEntries inserts the batch as-is. Audit rows are never updated
// or deleted afterwards.
func (r *marksRepository) AppendAuditEntries(ctx context.Context, entries []models.MarksAuditLog) error {
	if len(entries) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&entries).Error
}

func (r *marksRepository) ListAudit(ctx context.Context, filter MarksAuditFilter) ([]models.MarksAuditLog, error) {
	query := r.db.WithContext(ctx).Model(&models.MarksAuditLog{})

	if filter.StudentID != nil {
		query = query.Where("student_id = ?", *filter.StudentID)
	}
	if filter.FacultyID != nil {
		query = query.Where("faculty_id = ?", *filter.FacultyID)
	}
	if filter.SubjectCode != nil {
		query = query.Where("subject_code = ?", *filter.SubjectCode)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var entries []models.MarksAuditLog
	if err := query.Order("id DESC").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
