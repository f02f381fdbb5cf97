package service

import (
	"context"
	"fmt"
	"io"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/collegedesk/collegedesk-api/internal/dto"
	"github.com/collegedesk/collegedesk-api/internal/models"
	"github.com/collegedesk/collegedesk-api/internal/repository"
)

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

type aggregateBump struct {
	subjectCode string
	attended    bool
}

type fakeStudentRepo struct {
	students map[uint]models.Student
	bumps    map[uint][]aggregateBump
	getCalls int
}

func newFakeStudentRepo(students ...models.Student) *fakeStudentRepo {
	repo := &fakeStudentRepo{
		students: make(map[uint]models.Student),
		bumps:    make(map[uint][]aggregateBump),
	}
	for _, student := range students {
		repo.students[student.ID] = student
	}
	return repo
}

func (f *fakeStudentRepo) GetByID(ctx context.Context, id uint) (models.Student, error) {
	f.getCalls++
	student, ok := f.students[id]
	if !ok {
		return models.Student{}, gorm.ErrRecordNotFound
	}
	return student, nil
}

func (f *fakeStudentRepo) ListBySemester(ctx context.Context, semester int) ([]models.Student, error) {
	var out []models.Student
	for _, student := range f.students {
		if student.Semester == semester {
			out = append(out, student)
		}
	}
	return out, nil
}

func (f *fakeStudentRepo) UpdatePhotoURL(ctx context.Context, id uint, url string) error {
	student, ok := f.students[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	student.PhotoURL = url
	f.students[id] = student
	return nil
}

func (f *fakeStudentRepo) BumpSubjectAggregate(ctx context.Context, studentID uint, subjectCode, subjectName string, attended bool) error {
	if _, ok := f.students[studentID]; !ok {
		return gorm.ErrRecordNotFound
	}
	f.bumps[studentID] = append(f.bumps[studentID], aggregateBump{subjectCode: subjectCode, attended: attended})
	return nil
}

type fakeAttendanceRepo struct {
	sessions  map[string][]models.StudentAttendanceLog
	summaries []models.FacultyAttendance
	replaces  int
}

func newFakeAttendanceRepo() *fakeAttendanceRepo {
	return &fakeAttendanceRepo{sessions: make(map[string][]models.StudentAttendanceLog)}
}

func sessionMapKey(key repository.SessionKey) string {
	return fmt.Sprintf("%s|%s|%s", key.SubjectCode, key.Date, key.SessionID)
}

func (f *fakeAttendanceRepo) ListSessionLogs(ctx context.Context, key repository.SessionKey) ([]models.StudentAttendanceLog, error) {
	return f.sessions[sessionMapKey(key)], nil
}

func (f *fakeAttendanceRepo) ReplaceSessionLogs(ctx context.Context, key repository.SessionKey, logs []models.StudentAttendanceLog) error {
	f.replaces++
	f.sessions[sessionMapKey(key)] = logs
	return nil
}

func (f *fakeAttendanceRepo) ListStudentLogs(ctx context.Context, studentID uint, subjectCode string) ([]models.StudentAttendanceLog, error) {
	var out []models.StudentAttendanceLog
	for _, logs := range f.sessions {
		for _, log := range logs {
			if log.StudentID == studentID && log.SubjectCode == subjectCode {
				out = append(out, log)
			}
		}
	}
	return out, nil
}

func (f *fakeAttendanceRepo) CreateFacultyAttendance(ctx context.Context, record *models.FacultyAttendance) error {
	record.ID = uint(len(f.summaries) + 1)
	f.summaries = append(f.summaries, *record)
	return nil
}

func (f *fakeAttendanceRepo) ListFacultyAttendance(ctx context.Context, facultyID uint) ([]models.FacultyAttendance, error) {
	var out []models.FacultyAttendance
	for _, record := range f.summaries {
		if record.FacultyID == facultyID {
			out = append(out, record)
		}
	}
	return out, nil
}

type fakeFacultyRepo struct {
	subjects []models.FacultySubject
}

func (f *fakeFacultyRepo) GetByID(ctx context.Context, id uint) (models.Faculty, error) {
	return models.Faculty{ID: id}, nil
}

func (f *fakeFacultyRepo) ListSubjects(ctx context.Context, facultyID uint) ([]models.FacultySubject, error) {
	return f.subjects, nil
}

func (f *fakeFacultyRepo) FindSubject(ctx context.Context, facultyID uint, subjectCode string) (models.FacultySubject, error) {
	for _, subject := range f.subjects {
		if subject.FacultyID == facultyID && subject.SubjectCode == subjectCode {
			return subject, nil
		}
	}
	return models.FacultySubject{}, gorm.ErrRecordNotFound
}

type recordedSync struct {
	entity   string
	entityID string
	op       string
	payload  map[string]interface{}
}

type syncRecorderStub struct {
	records []recordedSync
	err     error
}

func (s *syncRecorderStub) Enqueue(ctx context.Context, entity, entityID, op string, payload map[string]interface{}) error {
	if s.err != nil {
		return s.err
	}
	s.records = append(s.records, recordedSync{entity: entity, entityID: entityID, op: op, payload: payload})
	return nil
}

func attendanceFixture() (*fakeAttendanceRepo, *fakeStudentRepo, *syncRecorderStub, AttendanceService) {
	students := newFakeStudentRepo(
		models.Student{ID: 1, USN: "1CD21CS001", Name: "Asha", Semester: 5},
		models.Student{ID: 2, USN: "1CD21CS002", Name: "Bharat", Semester: 5},
	)
	faculty := &fakeFacultyRepo{subjects: []models.FacultySubject{
		{FacultyID: 7, SubjectCode: "CS51", SubjectName: "Networks", Semester: 5, Section: "A"},
	}}
	attendance := newFakeAttendanceRepo()
	recorder := &syncRecorderStub{}
	roster := NewRosterService(faculty, students, testLogger())
	svc := NewAttendanceService(attendance, students, roster, validator.New(), recorder, testLogger())
	return attendance, students, recorder, svc
}

func sessionPayload() dto.SessionSaveRequest {
	return dto.SessionSaveRequest{
		SubjectCode: "CS51",
		SubjectName: "Networks",
		Section:     "A",
		Semester:    5,
		Date:        "2026-03-02",
		SessionID:   "S1",
		Entries: []dto.SessionEntry{
			{StudentID: 1, Status: models.AttendancePresent},
			{StudentID: 2, Status: models.AttendanceAbsent},
		},
	}
}

func TestAttendanceServiceSaveSessionCommitsBatch(t *testing.T) {
	attendance, students, recorder, svc := attendanceFixture()

	resp, err := svc.SaveSession(context.Background(), 7, sessionPayload())
	require.NoError(t, err)
	require.True(t, resp.Saved)
	require.Equal(t, 2, resp.TotalStudents)
	require.Equal(t, 1, resp.PresentCount)

	key := repository.SessionKey{SubjectCode: "CS51", Date: "2026-03-02", SessionID: "S1"}
	logs, err := attendance.ListSessionLogs(context.Background(), key)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	require.Equal(t, models.MethodManual, logs[0].Method)

	require.Len(t, students.bumps[1], 1)
	require.True(t, students.bumps[1][0].attended)
	require.Len(t, students.bumps[2], 1)
	require.False(t, students.bumps[2][0].attended)

	require.Len(t, attendance.summaries, 1)
	require.Equal(t, uint(7), attendance.summaries[0].FacultyID)
	require.Equal(t, 1, attendance.summaries[0].PresentCount)

	require.Len(t, recorder.records, 2)
	require.Equal(t, "attendance_sessions", recorder.records[0].entity)
	require.Equal(t, "faculty_attendance", recorder.records[1].entity)
}

func TestAttendanceServiceResaveReplacesLogsButBumpsAggregatesAgain(t *testing.T) {
	attendance, students, _, svc := attendanceFixture()

	payload := sessionPayload()
	_, err := svc.SaveSession(context.Background(), 7, payload)
	require.NoError(t, err)

	payload.Entries[1].Status = models.AttendanceLate
	resp, err := svc.SaveSession(context.Background(), 7, payload)
	require.NoError(t, err)
	require.True(t, resp.Saved)
	require.Equal(t, 2, resp.PresentCount)

	// The committed log set converges on the latest save.
	key := repository.SessionKey{SubjectCode: "CS51", Date: "2026-03-02", SessionID: "S1"}
	logs, err := attendance.ListSessionLogs(context.Background(), key)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	require.Equal(t, 2, attendance.replaces)

	// The aggregates do not: each save bumps the counters again.
	require.Len(t, students.bumps[1], 2)
	require.Len(t, students.bumps[2], 2)
}

func TestAttendanceServiceEmptyDraftIsNoOp(t *testing.T) {
	attendance, students, recorder, svc := attendanceFixture()

	payload := sessionPayload()
	payload.Entries = nil

	resp, err := svc.SaveSession(context.Background(), 7, payload)
	require.NoError(t, err)
	require.False(t, resp.Saved)
	require.Zero(t, attendance.replaces)
	require.Empty(t, attendance.summaries)
	require.Empty(t, students.bumps)
	require.Empty(t, recorder.records)
}

func TestAttendanceServiceSaveSkipsUnknownStudents(t *testing.T) {
	attendance, students, _, svc := attendanceFixture()

	payload := sessionPayload()
	payload.Entries = append(payload.Entries, dto.SessionEntry{StudentID: 99, Status: models.AttendancePresent})

	resp, err := svc.SaveSession(context.Background(), 7, payload)
	require.NoError(t, err)
	require.True(t, resp.Saved)
	require.Equal(t, 3, resp.TotalStudents)

	// The unknown student's log is still committed; only the aggregate is skipped.
	key := repository.SessionKey{SubjectCode: "CS51", Date: "2026-03-02", SessionID: "S1"}
	logs, err := attendance.ListSessionLogs(context.Background(), key)
	require.NoError(t, err)
	require.Len(t, logs, 3)
	require.Empty(t, students.bumps[99])
}

func TestAttendanceServiceSaveRejectsInvalidDate(t *testing.T) {
	_, _, _, svc := attendanceFixture()

	payload := sessionPayload()
	payload.Date = "02-03-2026"

	_, err := svc.SaveSession(context.Background(), 7, payload)
	require.Error(t, err)
}

func TestAttendanceServiceLoadSessionDefaultsToAbsent(t *testing.T) {
	_, _, _, svc := attendanceFixture()

	session, err := svc.LoadSession(context.Background(), 7, "CS51", "2026-03-02", "S1")
	require.NoError(t, err)
	require.False(t, session.Committed)
	require.Len(t, session.Entries, 2)
	for _, entry := range session.Entries {
		require.Equal(t, models.AttendanceAbsent, entry.Status)
		require.Equal(t, models.MethodManual, entry.Method)
	}
}

func TestAttendanceServiceLoadSessionReturnsCommittedLogs(t *testing.T) {
	_, _, _, svc := attendanceFixture()

	_, err := svc.SaveSession(context.Background(), 7, sessionPayload())
	require.NoError(t, err)

	session, err := svc.LoadSession(context.Background(), 7, "CS51", "2026-03-02", "S1")
	require.NoError(t, err)
	require.True(t, session.Committed)
	require.Len(t, session.Entries, 2)
	require.Equal(t, models.AttendancePresent, session.Entries[0].Status)
	require.Equal(t, "1CD21CS001", session.Entries[0].USN)
}

func TestSessionRosterDraftEditing(t *testing.T) {
	roster := dto.SessionRoster{Entries: []dto.SessionEntry{
		{StudentID: 1, Status: models.AttendanceAbsent},
		{StudentID: 2, Status: models.AttendanceAbsent},
	}}

	roster.SetAllStatus(models.AttendancePresent)
	require.Equal(t, 2, roster.PresentCount())

	roster.SetStatus(1, models.AttendanceAbsent)
	require.Equal(t, 1, roster.PresentCount())

	// Unknown ids are ignored.
	roster.SetStatus(42, models.AttendancePresent)
	require.Equal(t, 1, roster.PresentCount())
}
