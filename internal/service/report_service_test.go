package service

import (
	"context"
	"strings"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/collegedesk/collegedesk-api/internal/dto"
	"github.com/collegedesk/collegedesk-api/internal/models"
)

func TestReportServiceSessionCSV(t *testing.T) {
	svc := NewReportService(newFakeStudentRepo(), nil, time.Minute, testLogger())

	confidence := 0.92
	roster := dto.SessionRoster{
		SubjectCode: "CS51",
		Date:        "2026-03-02",
		SessionID:   "S1",
		Entries: []dto.SessionEntry{
			{USN: "1CD21CS001", Name: "Asha", Status: models.AttendancePresent, Method: models.MethodAI, Confidence: &confidence},
			{USN: "1CD21CS002", Name: "Bharat", Status: models.AttendanceAbsent, Method: models.MethodManual},
		},
	}

	payload, err := svc.SessionCSV(roster)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(payload)), "\n")
	require.Len(t, lines, 3)
	require.Equal(t, "Student ID,Name,Date,Session,Status,Method,Confidence", lines[0])
	require.Equal(t, "1CD21CS001,Asha,2026-03-02,S1,Present,ai,0.92", lines[1])
	require.Equal(t, "1CD21CS002,Bharat,2026-03-02,S1,Absent,manual,", lines[2])
}

func TestReportServiceSessionCSVEmptyRoster(t *testing.T) {
	svc := NewReportService(newFakeStudentRepo(), nil, time.Minute, testLogger())

	payload, err := svc.SessionCSV(dto.SessionRoster{SubjectCode: "CS51"})
	require.NoError(t, err)
	require.Equal(t, "Student ID,Name,Date,Session,Status,Method,Confidence", strings.TrimSpace(string(payload)))
}

func TestReportServiceStudentSummaryCaches(t *testing.T) {
	server, err := miniredis.Run()
	require.NoError(t, err)
	defer server.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: server.Addr()})
	defer redisClient.Close()

	students := newFakeStudentRepo(models.Student{
		ID:       1,
		USN:      "1CD21CS001",
		Name:     "Asha",
		Semester: 5,
		Attendance: []models.SubjectAttendance{
			{StudentID: 1, SubjectCode: "CS51", TotalClasses: 10, ClassesAttended: 8},
		},
	})

	svc := NewReportService(students, redisClient, time.Minute, testLogger())

	summary, err := svc.StudentSummary(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, summary.Attendance, 1)
	require.InDelta(t, 80.0, summary.Attendance[0].Percentage, 0.01)
	require.Equal(t, 1, students.getCalls)

	// Second read is served from the cache.
	cached, err := svc.StudentSummary(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, summary, cached)
	require.Equal(t, 1, students.getCalls)
}

func TestReportServiceStudentSummaryWithoutCache(t *testing.T) {
	students := newFakeStudentRepo(models.Student{ID: 2, USN: "1CD21CS002", Name: "Bharat", Semester: 5})
	svc := NewReportService(students, nil, time.Minute, testLogger())

	summary, err := svc.StudentSummary(context.Background(), 2)
	require.NoError(t, err)
	require.Equal(t, "1CD21CS002", summary.USN)
}
