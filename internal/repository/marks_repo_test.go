package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/collegedesk/collegedesk-api/internal/models"
)

func TestMarksRepositoryAuditTrailIsAppendOnly(t *testing.T) {
	db := setupTestDB(t, &models.MarksAuditLog{})
	repo := NewMarksRepository(db)

	now := time.Now()
	first := []models.MarksAuditLog{
		{FacultyID: 7, StudentID: 201, Semester: 5, SubjectCode: "CS54", Field: "cie1", OldValue: 0, NewValue: 20, CreatedAt: now},
		{FacultyID: 7, StudentID: 201, Semester: 5, SubjectCode: "CS54", Field: "cie2", OldValue: 0, NewValue: 22, CreatedAt: now},
	}
	require.NoError(t, repo.AppendAuditEntries(context.Background(), first))

	second := []models.MarksAuditLog{
		{FacultyID: 7, StudentID: 201, Semester: 5, SubjectCode: "CS54", Field: "cie1", OldValue: 20, NewValue: 21, CreatedAt: now.Add(time.Minute)},
	}
	require.NoError(t, repo.AppendAuditEntries(context.Background(), second))

	studentID := uint(201)
	entries, err := repo.ListAudit(context.Background(), MarksAuditFilter{StudentID: &studentID})
	require.NoError(t, err)
	require.Len(t, entries, 3)

	// Newest first.
	require.Equal(t, "cie1", entries[0].Field)
	require.Equal(t, 21, entries[0].NewValue)
	require.Equal(t, 20, entries[0].OldValue)
}

func TestMarksRepositoryAppendEmptyBatchIsNoOp(t *testing.T) {
	db := setupTestDB(t, &models.MarksAuditLog{})
	repo := NewMarksRepository(db)

	require.NoError(t, repo.AppendAuditEntries(context.Background(), nil))
}

func TestMarksRepositoryAuditFilters(t *testing.T) {
	db := setupTestDB(t, &models.MarksAuditLog{})
	repo := NewMarksRepository(db)

	now := time.Now()
	require.NoError(t, repo.AppendAuditEntries(context.Background(), []models.MarksAuditLog{
		{FacultyID: 8, StudentID: 202, Semester: 5, SubjectCode: "CS55", Field: "see", OldValue: 0, NewValue: 80, CreatedAt: now},
		{FacultyID: 9, StudentID: 203, Semester: 5, SubjectCode: "CS55", Field: "see", OldValue: 0, NewValue: 70, CreatedAt: now},
		{FacultyID: 8, StudentID: 202, Semester: 5, SubjectCode: "CS56", Field: "cie1", OldValue: 0, NewValue: 18, CreatedAt: now},
	}))

	facultyID := uint(8)
	entries, err := repo.ListAudit(context.Background(), MarksAuditFilter{FacultyID: &facultyID})
	require.NoError(t, err)
	require.Len(t, entries, 2)

	subjectCode := "CS55"
	entries, err = repo.ListAudit(context.Background(), MarksAuditFilter{FacultyID: &facultyID, SubjectCode: &subjectCode})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, uint(202), entries[0].StudentID)

	entries, err = repo.ListAudit(context.Background(), MarksAuditFilter{SubjectCode: &subjectCode, Limit: 1})
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestMarksRepositorySaveAndGetResult(t *testing.T) {
	db := setupTestDB(t, &models.EditableSubjectResult{}, &models.AcademicRecord{})
	repo := NewMarksRepository(db)

	result := models.EditableSubjectResult{StudentID: 204, Semester: 5, SubjectCode: "CS57", CIE1: 20, CIE2: 22, SEE: 85, Total: 64, Grade: "C", Status: models.ResultStatusDraft}
	require.NoError(t, repo.SaveResult(context.Background(), &result))

	stored, err := repo.GetResult(context.Background(), 204, 5, "CS57")
	require.NoError(t, err)
	require.Equal(t, 64, stored.Total)

	hasRecord, err := repo.HasAcademicRecord(context.Background(), 204, 5)
	require.NoError(t, err)
	require.False(t, hasRecord)

	require.NoError(t, db.Create(&models.AcademicRecord{StudentID: 204, Semester: 5, SGPA: 8.2}).Error)

	hasRecord, err = repo.HasAcademicRecord(context.Background(), 204, 5)
	require.NoError(t, err)
	require.True(t, hasRecord)
}
