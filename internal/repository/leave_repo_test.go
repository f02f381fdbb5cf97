package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/collegedesk/collegedesk-api/internal/models"
)

func TestLeaveRepositorySaveProfileLeavesHistoryAlone(t *testing.T) {
	db := setupTestDB(t, &models.FacultyLeaveProfile{}, &models.LeaveHistoryEntry{})
	repo := NewLeaveRepository(db)

	profile := models.FacultyLeaveProfile{FacultyID: 301, TotalCL: 12, TakenCL: 3}
	require.NoError(t, repo.SaveProfile(context.Background(), &profile))

	entry := models.LeaveHistoryEntry{ProfileID: profile.ID, RequestID: 1, LeaveType: "CL", Days: 2, Status: models.LeaveApproved, CreatedAt: time.Now()}
	require.NoError(t, repo.AppendHistory(context.Background(), &entry))

	profile.TakenCL = 5
	require.NoError(t, repo.SaveProfile(context.Background(), &profile))

	stored, err := repo.GetProfileByFaculty(context.Background(), 301)
	require.NoError(t, err)
	require.Equal(t, 5, stored.TakenCL)
	require.Len(t, stored.History, 1, "profile save must not rewrite history")
}

func TestLeaveRepositoryHistoryOrderedNewestFirst(t *testing.T) {
	db := setupTestDB(t, &models.FacultyLeaveProfile{}, &models.LeaveHistoryEntry{})
	repo := NewLeaveRepository(db)

	profile := models.FacultyLeaveProfile{FacultyID: 302, TotalCL: 12}
	require.NoError(t, repo.SaveProfile(context.Background(), &profile))

	older := models.LeaveHistoryEntry{ProfileID: profile.ID, RequestID: 10, LeaveType: "CL", Days: 1, Status: models.LeaveApproved, CreatedAt: time.Now().Add(-time.Hour)}
	newer := models.LeaveHistoryEntry{ProfileID: profile.ID, RequestID: 11, LeaveType: "ML", Days: 3, Status: models.LeaveApproved, CreatedAt: time.Now()}
	require.NoError(t, repo.AppendHistory(context.Background(), &older))
	require.NoError(t, repo.AppendHistory(context.Background(), &newer))

	stored, err := repo.GetProfileByFaculty(context.Background(), 302)
	require.NoError(t, err)
	require.Len(t, stored.History, 2)
	require.Equal(t, uint(11), stored.History[0].RequestID)
	require.Equal(t, uint(10), stored.History[1].RequestID)
}

func TestLeaveRepositoryListRequestsByStatus(t *testing.T) {
	db := setupTestDB(t, &models.LeaveRequest{})
	repo := NewLeaveRepository(db)

	pending := models.LeaveRequest{FromEmail: "a@college.edu", Subject: "leave-a", Status: models.LeavePending}
	unread := models.LeaveRequest{FromEmail: "b@college.edu", Subject: "leave-b", Status: models.LeaveUnread}
	require.NoError(t, repo.SaveRequest(context.Background(), &pending))
	require.NoError(t, repo.SaveRequest(context.Background(), &unread))

	status := models.LeavePending
	requests, err := repo.ListRequests(context.Background(), &status)
	require.NoError(t, err)
	require.Len(t, requests, 1)
	require.Equal(t, "leave-a", requests[0].Subject)
}
