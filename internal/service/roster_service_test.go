package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/collegedesk/collegedesk-api/internal/models"
)

func TestRosterServiceResolvesEnrolledStudents(t *testing.T) {
	students := newFakeStudentRepo(
		models.Student{ID: 1, USN: "1CD21CS001", Name: "Asha", Semester: 5},
		models.Student{ID: 2, USN: "1CD21CS002", Name: "Bharat", Semester: 5},
		models.Student{ID: 3, USN: "1CD20CS003", Name: "Chitra", Semester: 3},
	)
	faculty := &fakeFacultyRepo{subjects: []models.FacultySubject{
		{FacultyID: 7, SubjectCode: "CS51", SubjectName: "Networks", Semester: 5, Section: "A"},
	}}
	svc := NewRosterService(faculty, students, testLogger())

	roster, err := svc.ResolveRoster(context.Background(), 7, "CS51")
	require.NoError(t, err)
	require.Equal(t, "Networks", roster.SubjectName)
	require.Equal(t, 5, roster.Semester)
	require.Len(t, roster.Students, 2)
}

func TestRosterServiceUnknownSubjectYieldsEmptyRoster(t *testing.T) {
	svc := NewRosterService(&fakeFacultyRepo{}, newFakeStudentRepo(), testLogger())

	roster, err := svc.ResolveRoster(context.Background(), 7, "CS99")
	require.NoError(t, err)
	require.Equal(t, "CS99", roster.SubjectCode)
	require.Empty(t, roster.Students)
}
