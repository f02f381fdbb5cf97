package dto

import (
	"time"

	"github.com/collegedesk/collegedesk-api/internal/models"
)

// LeaveDecisionRequest carries the approver's comment for a decision.
type LeaveDecisionRequest struct {
	Comment string `json:"comment" validate:"omitempty,max=2000"`
}

// LeaveRequestResponse is the serialized leave request.
type LeaveRequestResponse struct {
	ID        uint               `json:"id"`
	FacultyID *uint              `json:"faculty_id,omitempty"`
	FromEmail string             `json:"from_email"`
	Subject   string             `json:"subject"`
	Status    models.LeaveStatus `json:"status"`
	LeaveType string             `json:"leave_type,omitempty"`
	FromDate  string             `json:"from_date,omitempty"`
	ToDate    string             `json:"to_date,omitempty"`
	Days      int                `json:"days,omitempty"`
	Reason    string             `json:"reason,omitempty"`
	Parsed    bool               `json:"parsed"`
	DecidedBy *uint              `json:"decided_by,omitempty"`
	DecidedAt *time.Time         `json:"decided_at,omitempty"`
	Comment   string             `json:"comment,omitempty"`
	CreatedAt time.Time          `json:"created_at"`
}

// NewLeaveRequestResponse converts a model into a DTO.
func NewLeaveRequestResponse(request models.LeaveRequest) LeaveRequestResponse {
	return LeaveRequestResponse{
		ID:        request.ID,
		FacultyID: request.FacultyID,
		FromEmail: request.FromEmail,
		Subject:   request.Subject,
		Status:    request.Status,
		LeaveType: request.LeaveType,
		FromDate:  request.FromDate,
		ToDate:    request.ToDate,
		Days:      request.Days,
		Reason:    request.Reason,
		Parsed:    request.Parsed(),
		DecidedBy: request.DecidedBy,
		DecidedAt: request.DecidedAt,
		Comment:   request.Comment,
		CreatedAt: request.CreatedAt,
	}
}

// NewLeaveRequestResponseSlice converts a slice of models into DTOs.
func NewLeaveRequestResponseSlice(requests []models.LeaveRequest) []LeaveRequestResponse {
	out := make([]LeaveRequestResponse, 0, len(requests))
	for _, request := range requests {
		out = append(out, NewLeaveRequestResponse(request))
	}
	return out
}

// LeaveDecisionResponse reports the outcome of an approve/reject call.
// Decided is false when the request was not actionable.
type LeaveDecisionResponse struct {
	Decided bool                 `json:"decided"`
	Request LeaveRequestResponse `json:"request,omitempty"`
}

// LeaveHistoryResponse is the serialized finalized-decision record.
type LeaveHistoryResponse struct {
	ID        uint               `json:"id"`
	RequestID uint               `json:"request_id"`
	LeaveType string             `json:"leave_type"`
	FromDate  string             `json:"from_date"`
	ToDate    string             `json:"to_date"`
	Days      int                `json:"days"`
	Status    models.LeaveStatus `json:"status"`
	Comment   string             `json:"comment,omitempty"`
	CreatedAt time.Time          `json:"created_at"`
}

// LeaveProfileResponse is the serialized leave balance with history,
// most recent decision first.
type LeaveProfileResponse struct {
	FacultyID uint                   `json:"faculty_id"`
	TotalCL   int                    `json:"total_cl"`
	TakenCL   int                    `json:"taken_cl"`
	History   []LeaveHistoryResponse `json:"history"`
}

// NewLeaveProfileResponse converts a model into a DTO.
func NewLeaveProfileResponse(profile models.FacultyLeaveProfile) LeaveProfileResponse {
	history := make([]LeaveHistoryResponse, 0, len(profile.History))
	for _, entry := range profile.History {
		history = append(history, LeaveHistoryResponse{
			ID:        entry.ID,
			RequestID: entry.RequestID,
			LeaveType: entry.LeaveType,
			FromDate:  entry.FromDate,
			ToDate:    entry.ToDate,
			Days:      entry.Days,
			Status:    entry.Status,
			Comment:   entry.Comment,
			CreatedAt: entry.CreatedAt,
		})
	}

	return LeaveProfileResponse{
		FacultyID: profile.FacultyID,
		TotalCL:   profile.TotalCL,
		TakenCL:   profile.TakenCL,
		History:   history,
	}
}
