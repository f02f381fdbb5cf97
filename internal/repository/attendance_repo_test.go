package repository

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/collegedesk/collegedesk-api/internal/models"
)

var testDBCounter atomic.Int64

func setupTestDB(t *testing.T, models ...interface{}) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", testDBCounter.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models...))
	return db
}

func TestAttendanceRepositoryReplaceSessionLogsConverges(t *testing.T) {
	db := setupTestDB(t, &models.StudentAttendanceLog{})
	repo := NewAttendanceRepository(db)

	key := SessionKey{SubjectCode: "CS51", Date: "2026-03-02", SessionID: "S1"}
	now := time.Now()

	first := []models.StudentAttendanceLog{
		{StudentID: 1, SubjectCode: key.SubjectCode, Date: key.Date, SessionID: key.SessionID, Status: models.AttendancePresent, Method: models.MethodManual, Timestamp: now},
		{StudentID: 2, SubjectCode: key.SubjectCode, Date: key.Date, SessionID: key.SessionID, Status: models.AttendanceAbsent, Method: models.MethodManual, Timestamp: now},
	}
	require.NoError(t, repo.ReplaceSessionLogs(context.Background(), key, first))

	second := []models.StudentAttendanceLog{
		{StudentID: 1, SubjectCode: key.SubjectCode, Date: key.Date, SessionID: key.SessionID, Status: models.AttendancePresent, Method: models.MethodManual, Timestamp: now},
		{StudentID: 2, SubjectCode: key.SubjectCode, Date: key.Date, SessionID: key.SessionID, Status: models.AttendanceLate, Method: models.MethodAI, Timestamp: now},
	}
	require.NoError(t, repo.ReplaceSessionLogs(context.Background(), key, second))

	logs, err := repo.ListSessionLogs(context.Background(), key)
	require.NoError(t, err)
	require.Len(t, logs, 2, "resave must replace, never append")

	byStudent := make(map[uint]models.StudentAttendanceLog, len(logs))
	for _, log := range logs {
		byStudent[log.StudentID] = log
	}
	require.Equal(t, models.AttendanceLate, byStudent[2].Status)
	require.Equal(t, models.MethodAI, byStudent[2].Method)
}

func TestAttendanceRepositoryReplaceScopesToSessionKey(t *testing.T) {
	db := setupTestDB(t, &models.StudentAttendanceLog{})
	repo := NewAttendanceRepository(db)

	morning := SessionKey{SubjectCode: "CS52", Date: "2026-03-02", SessionID: "S1"}
	afternoon := SessionKey{SubjectCode: "CS52", Date: "2026-03-02", SessionID: "S2"}
	now := time.Now()

	require.NoError(t, repo.ReplaceSessionLogs(context.Background(), morning, []models.StudentAttendanceLog{
		{StudentID: 11, SubjectCode: morning.SubjectCode, Date: morning.Date, SessionID: morning.SessionID, Status: models.AttendancePresent, Method: models.MethodManual, Timestamp: now},
	}))
	require.NoError(t, repo.ReplaceSessionLogs(context.Background(), afternoon, []models.StudentAttendanceLog{
		{StudentID: 11, SubjectCode: afternoon.SubjectCode, Date: afternoon.Date, SessionID: afternoon.SessionID, Status: models.AttendanceAbsent, Method: models.MethodManual, Timestamp: now},
	}))

	morningLogs, err := repo.ListSessionLogs(context.Background(), morning)
	require.NoError(t, err)
	require.Len(t, morningLogs, 1)
	require.Equal(t, models.AttendancePresent, morningLogs[0].Status)

	afternoonLogs, err := repo.ListSessionLogs(context.Background(), afternoon)
	require.NoError(t, err)
	require.Len(t, afternoonLogs, 1)
	require.Equal(t, models.AttendanceAbsent, afternoonLogs[0].Status)
}

func TestFacultyAttendanceRowsAreNeverMerged(t *testing.T) {
	db := setupTestDB(t, &models.FacultyAttendance{})
	repo := NewAttendanceRepository(db)

	summary := models.FacultyAttendance{FacultyID: 77, SubjectCode: "CS53", Section: "A", Date: "2026-03-02", TotalStudents: 60, PresentCount: 55}
	require.NoError(t, repo.CreateFacultyAttendance(context.Background(), &summary))

	again := models.FacultyAttendance{FacultyID: 77, SubjectCode: "CS53", Section: "A", Date: "2026-03-02", TotalStudents: 60, PresentCount: 57}
	require.NoError(t, repo.CreateFacultyAttendance(context.Background(), &again))

	records, err := repo.ListFacultyAttendance(context.Background(), 77)
	require.NoError(t, err)
	require.Len(t, records, 2)
}
