package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/collegedesk/collegedesk-api/internal/dto"
	"github.com/collegedesk/collegedesk-api/internal/repository"
)

// ErrStudentNotFound indicates the student was not located.
var ErrStudentNotFound = errors.New("student not found")

// ErrUnsupportedPhotoType indicates the uploaded file is not an image.
var ErrUnsupportedPhotoType = errors.New("unsupported photo type")

// FileUploader stores a file and returns its public URL.
type FileUploader interface {
	Upload(ctx context.Context, name string, reader io.Reader) (string, error)
}

// StudentService exposes student lookups and the photo training upload.
type StudentService interface {
	Get(ctx context.Context, id uint) (dto.StudentResponse, error)
	UploadPhoto(ctx context.Context, id uint, filename string, content []byte) (dto.PhotoUploadResponse, error)
}

type studentService struct {
	repo     repository.StudentRepository
	uploader FileUploader
	logger   zerolog.Logger
}

// NewStudentService constructs the student service.
func NewStudentService(repo repository.StudentRepository, uploader FileUploader, logger zerolog.Logger) StudentService {
	return &studentService{
		repo:     repo,
		uploader: uploader,
		logger:   logger.With().Str("component", "student_service").Logger(),
	}
}

func (s *studentService) Get(ctx context.Context, id uint) (dto.StudentResponse, error) {
	student, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.StudentResponse{}, ErrStudentNotFound
		}
		return dto.StudentResponse{}, err
	}
	return dto.NewStudentResponse(student), nil
}

// UploadPhoto sniffs the content type, uploads the image and stores the
// resulting URL on the student record.
func (s *studentService) UploadPhoto(ctx context.Context, id uint, filename string, content []byte) (dto.PhotoUploadResponse, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.PhotoUploadResponse{}, ErrStudentNotFound
		}
		return dto.PhotoUploadResponse{}, err
	}

	detected := mimetype.Detect(content)
	if !strings.HasPrefix(detected.String(), "image/") {
		return dto.PhotoUploadResponse{}, fmt.Errorf("%w: %s", ErrUnsupportedPhotoType, detected.String())
	}

	url, err := s.uploader.Upload(ctx, filename, bytes.NewReader(content))
	if err != nil {
		return dto.PhotoUploadResponse{}, fmt.Errorf("upload student photo: %w", err)
	}

	if err := s.repo.UpdatePhotoURL(ctx, id, url); err != nil {
		return dto.PhotoUploadResponse{}, err
	}

	s.logger.Info().Uint("student_id", id).Msg("student photo updated")

	return dto.PhotoUploadResponse{StudentID: id, PhotoURL: url}, nil
}
