package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/collegedesk/collegedesk-api/internal/models"
)

// FacultyRepository defines data operations for faculty and their subjects.
type FacultyRepository interface {
	GetByID(ctx context.Context, id uint) (models.Faculty, error)
	ListSubjects(ctx context.Context, facultyID uint) ([]models.FacultySubject, error)
	FindSubject(ctx context.Context, facultyID uint, subjectCode string) (models.FacultySubject, error)
}

type facultyRepository struct {
	db *gorm.DB
}

// NewFacultyRepository instantiates the repository.
func NewFacultyRepository(db *gorm.DB) FacultyRepository {
	return &facultyRepository{db: db}
}

func (r *facultyRepository) GetByID(ctx context.Context, id uint) (models.Faculty, error) {
	var faculty models.Faculty
	if err := r.db.WithContext(ctx).Preload("Subjects").First(&faculty, id).Error; err != nil {
		return models.Faculty{}, err
	}
	return faculty, nil
}

func (r *facultyRepository) ListSubjects(ctx context.Context, facultyID uint) ([]models.FacultySubject, error) {
	var subjects []models.FacultySubject
	if err := r.db.WithContext(ctx).
		Where("faculty_id = ?", facultyID).
		Order("subject_code ASC").
		Find(&subjects).Error; err != nil {
		return nil, err
	}
	return subjects, nil
}

func (r *facultyRepository) FindSubject(ctx context.Context, facultyID uint, subjectCode string) (models.FacultySubject, error) {
	var subject models.FacultySubject
	if err := r.db.WithContext(ctx).
		Where("faculty_id = ? AND subject_code = ?", facultyID, subjectCode).
		First(&subject).Error; err != nil {
		return models.FacultySubject{}, err
	}
	return subject, nil
}
