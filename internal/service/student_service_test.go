package service

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/collegedesk/collegedesk-api/internal/models"
)

type uploaderStub struct {
	uploads int
	err     error
}

func (u *uploaderStub) Upload(ctx context.Context, name string, reader io.Reader) (string, error) {
	u.uploads++
	if u.err != nil {
		return "", u.err
	}
	return "https://cdn.example.com/students/" + name, nil
}

func pngBytes() []byte {
	return append([]byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}, make([]byte, 16)...)
}

func TestStudentServiceUploadPhotoStoresURL(t *testing.T) {
	students := newFakeStudentRepo(models.Student{ID: 1, USN: "1CD21CS001", Name: "Asha"})
	uploader := &uploaderStub{}
	svc := NewStudentService(students, uploader, testLogger())

	resp, err := svc.UploadPhoto(context.Background(), 1, "asha.png", pngBytes())
	require.NoError(t, err)
	require.Equal(t, 1, uploader.uploads)
	require.Equal(t, "https://cdn.example.com/students/asha.png", resp.PhotoURL)
	require.Equal(t, resp.PhotoURL, students.students[1].PhotoURL)
}

func TestStudentServiceUploadPhotoRejectsNonImage(t *testing.T) {
	students := newFakeStudentRepo(models.Student{ID: 1, USN: "1CD21CS001"})
	uploader := &uploaderStub{}
	svc := NewStudentService(students, uploader, testLogger())

	_, err := svc.UploadPhoto(context.Background(), 1, "notes.txt", []byte("just some text"))
	require.ErrorIs(t, err, ErrUnsupportedPhotoType)
	require.Zero(t, uploader.uploads)
}

func TestStudentServiceUploadPhotoUnknownStudent(t *testing.T) {
	svc := NewStudentService(newFakeStudentRepo(), &uploaderStub{}, testLogger())

	_, err := svc.UploadPhoto(context.Background(), 99, "x.png", pngBytes())
	require.ErrorIs(t, err, ErrStudentNotFound)
}

func TestStudentServiceGet(t *testing.T) {
	students := newFakeStudentRepo(models.Student{ID: 1, USN: "1CD21CS001", Name: "Asha", Semester: 5})
	svc := NewStudentService(students, &uploaderStub{}, testLogger())

	student, err := svc.Get(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, "1CD21CS001", student.USN)

	_, err = svc.Get(context.Background(), 2)
	require.ErrorIs(t, err, ErrStudentNotFound)
}
