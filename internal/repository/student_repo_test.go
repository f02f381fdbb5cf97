package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/collegedesk/collegedesk-api/internal/models"
)

func TestStudentRepositoryBumpSubjectAggregate(t *testing.T) {
	db := setupTestDB(t, &models.Student{}, &models.SubjectAttendance{})
	repo := NewStudentRepository(db)

	student := models.Student{ID: 101, USN: "1CD21CS101", Name: "Asha", Semester: 5}
	require.NoError(t, db.Create(&student).Error)

	// First touch creates the aggregate row.
	require.NoError(t, repo.BumpSubjectAggregate(context.Background(), 101, "CS51", "Networks", true))

	var aggregate models.SubjectAttendance
	require.NoError(t, db.First(&aggregate, "student_id = ? AND subject_code = ?", 101, "CS51").Error)
	require.Equal(t, 1, aggregate.TotalClasses)
	require.Equal(t, 1, aggregate.ClassesAttended)

	// An absent session grows the denominator only.
	require.NoError(t, repo.BumpSubjectAggregate(context.Background(), 101, "CS51", "Networks", false))

	require.NoError(t, db.First(&aggregate, "student_id = ? AND subject_code = ?", 101, "CS51").Error)
	require.Equal(t, 2, aggregate.TotalClasses)
	require.Equal(t, 1, aggregate.ClassesAttended)
}

func TestStudentRepositoryBumpUnknownStudent(t *testing.T) {
	db := setupTestDB(t, &models.Student{}, &models.SubjectAttendance{})
	repo := NewStudentRepository(db)

	err := repo.BumpSubjectAggregate(context.Background(), 9999, "CS51", "Networks", true)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestStudentRepositoryUpdatePhotoURL(t *testing.T) {
	db := setupTestDB(t, &models.Student{}, &models.SubjectAttendance{})
	repo := NewStudentRepository(db)

	student := models.Student{ID: 102, USN: "1CD21CS102", Name: "Bharat", Semester: 5}
	require.NoError(t, db.Create(&student).Error)

	require.NoError(t, repo.UpdatePhotoURL(context.Background(), 102, "https://cdn.example.com/b.png"))

	stored, err := repo.GetByID(context.Background(), 102)
	require.NoError(t, err)
	require.Equal(t, "https://cdn.example.com/b.png", stored.PhotoURL)

	err = repo.UpdatePhotoURL(context.Background(), 8888, "https://cdn.example.com/x.png")
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
