package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/collegedesk/collegedesk-api/internal/models"
)

// LeaveRepository defines data operations for leave requests, balances and
// decision history.
type LeaveRepository interface {
	GetRequest(ctx context.Context, id uint) (models.LeaveRequest, error)
	ListRequests(ctx context.Context, status *models.LeaveStatus) ([]models.LeaveRequest, error)
	SaveRequest(ctx context.Context, request *models.LeaveRequest) error
	GetProfileByFaculty(ctx context.Context, facultyID uint) (models.FacultyLeaveProfile, error)
	SaveProfile(ctx context.Context, profile *models.FacultyLeaveProfile) error
	AppendHistory(ctx context.Context, entry *models.LeaveHistoryEntry) error
}

type leaveRepository struct {
	db *gorm.DB
}

// NewLeaveRepository instantiates the repository.
func NewLeaveRepository(db *gorm.DB) LeaveRepository {
	return &leaveRepository{db: db}
}

func (r *leaveRepository) GetRequest(ctx context.Context, id uint) (models.LeaveRequest, error) {
	var request models.LeaveRequest
	if err := r.db.WithContext(ctx).First(&request, id).Error; err != nil {
		return models.LeaveRequest{}, err
	}
	return request, nil
}

func (r *leaveRepository) ListRequests(ctx context.Context, status *models.LeaveStatus) ([]models.LeaveRequest, error) {
	query := r.db.WithContext(ctx).Model(&models.LeaveRequest{})
	if status != nil {
		query = query.Where("status = ?", *status)
	}

	var requests []models.LeaveRequest
	if err := query.Order("created_at DESC").Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *leaveRepository) SaveRequest(ctx context.Context, request *models.LeaveRequest) error {
	return r.db.WithContext(ctx).Save(request).Error
}

func (r *leaveRepository) GetProfileByFaculty(ctx context.Context, facultyID uint) (models.FacultyLeaveProfile, error) {
	var profile models.FacultyLeaveProfile
	if err := r.db.WithContext(ctx).
		Preload("History", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC, id DESC")
		}).
		Where("faculty_id = ?", facultyID).
		First(&profile).Error; err != nil {
		return models.FacultyLeaveProfile{}, err
	}
	return profile, nil
}

func (r *leaveRepository) SaveProfile(ctx context.Context, profile *models.FacultyLeaveProfile) error {
	return r.db.WithContext(ctx).Omit("History").Save(profile).Error
}

func (r *leaveRepository) AppendHistory(ctx context.Context, entry *models.LeaveHistoryEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}
