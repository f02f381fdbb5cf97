package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/collegedesk/collegedesk-api/internal/models"
)

// StudentRepository defines data operations for students and their
// per-subject attendance aggregates.
type StudentRepository interface {
	GetByID(ctx context.Context, id uint) (models.Student, error)
	ListBySemester(ctx context.Context, semester int) ([]models.Student, error)
	UpdatePhotoURL(ctx context.Context, id uint, url string) error
	BumpSubjectAggregate(ctx context.Context, studentID uint, subjectCode, subjectName string, attended bool) error
}

type studentRepository struct {
	db *gorm.DB
}

// NewStudentRepository instantiates the repository.
func NewStudentRepository(db *gorm.DB) StudentRepository {
	return &studentRepository{db: db}
}

func (r *studentRepository) GetByID(ctx context.Context, id uint) (models.Student, error) {
	var student models.Student
	if err := r.db.WithContext(ctx).Preload("Attendance").First(&student, id).Error; err != nil {
		return models.Student{}, err
	}
	return student, nil
}

func (r *studentRepository) ListBySemester(ctx context.Context, semester int) ([]models.Student, error) {
	var students []models.Student
	if err := r.db.WithContext(ctx).
		Where("semester = ?", semester).
		Order("usn ASC").
		Find(&students).Error; err != nil {
		return nil, err
	}
	return students, nil
}

func (r *studentRepository) UpdatePhotoURL(ctx context.Context, id uint, url string) error {
	result := r.db.WithContext(ctx).
		Model(&models.Student{}).
		Where("id = ?", id).
		Update("photo_url", url)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// BumpSubjectAggregate increments the running totals for one saved session.
// The aggregate row is created on first touch so new subjects start counting
// without a provisioning step.
func (r *studentRepository) BumpSubjectAggregate(ctx context.Context, studentID uint, subjectCode, subjectName string, attended bool) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var exists int64
		if err := tx.Model(&models.Student{}).Where("id = ?", studentID).Count(&exists).Error; err != nil {
			return err
		}
		if exists == 0 {
			return gorm.ErrRecordNotFound
		}

		var row models.SubjectAttendance
		err := tx.Where("student_id = ? AND subject_code = ?", studentID, subjectCode).
			First(&row).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			row = models.SubjectAttendance{
				StudentID:   studentID,
				SubjectCode: subjectCode,
				SubjectName: subjectName,
			}
		} else if err != nil {
			return err
		}

		row.TotalClasses++
		if attended {
			row.ClassesAttended++
		}

		return tx.Save(&row).Error
	})
}
