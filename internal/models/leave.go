package models

import "time"

// LeaveStatus enumerates the lifecycle states of a leave request.
type LeaveStatus string

// Lifecycle: unread/pending -> approved | rejected. Decisions are terminal.
const (
	LeaveUnread   LeaveStatus = "unread"
	LeavePending  LeaveStatus = "pending"
	LeaveApproved LeaveStatus = "approved"
	LeaveRejected LeaveStatus = "rejected"
)

// Actionable reports whether a request can still be approved or rejected.
func (s LeaveStatus) Actionable() bool {
	return s == LeaveUnread || s == LeavePending
}

// LeaveRequest is an inbound leave application, typically arriving as an
// email whose structured fields are filled in by the parsing collaborator.
type LeaveRequest struct {
	ID        uint        `gorm:"primaryKey" json:"id"`
	FacultyID *uint       `gorm:"index" json:"faculty_id,omitempty"`
	FromEmail string      `gorm:"size:255" json:"from_email"`
	Subject   string      `gorm:"size:255" json:"subject"`
	Body      string      `gorm:"type:text" json:"body"`
	Status    LeaveStatus `gorm:"size:16;index;not null;default:unread" json:"status"`

	// Parsed fields, present only after the parser has run.
	LeaveType string     `gorm:"size:16" json:"leave_type"`
	FromDate  string     `gorm:"size:10" json:"from_date"`
	ToDate    string     `gorm:"size:10" json:"to_date"`
	Days      int        `json:"days"`
	Reason    string     `gorm:"type:text" json:"reason"`
	ParsedAt  *time.Time `json:"parsed_at,omitempty"`

	DecidedBy *uint      `json:"decided_by,omitempty"`
	DecidedAt *time.Time `json:"decided_at,omitempty"`
	Comment   string     `gorm:"type:text" json:"comment"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Parsed reports whether the structured leave fields are available.
func (r LeaveRequest) Parsed() bool {
	return r.ParsedAt != nil
}

// FacultyLeaveProfile tracks the casual-leave balance for one faculty member.
// TakenCL only increases, only on approval, only by the approved day count.
type FacultyLeaveProfile struct {
	ID        uint                `gorm:"primaryKey" json:"id"`
	FacultyID uint                `gorm:"uniqueIndex;not null" json:"faculty_id"`
	TotalCL   int                 `gorm:"not null" json:"total_cl"`
	TakenCL   int                 `gorm:"not null;default:0" json:"taken_cl"`
	History   []LeaveHistoryEntry `gorm:"foreignKey:ProfileID" json:"history,omitempty"`
	UpdatedAt time.Time           `json:"updated_at"`
}

// LeaveHistoryEntry is an append-only record of a finalized decision.
type LeaveHistoryEntry struct {
	ID        uint        `gorm:"primaryKey" json:"id"`
	ProfileID uint        `gorm:"index;not null" json:"profile_id"`
	RequestID uint        `gorm:"index;not null" json:"request_id"`
	LeaveType string      `gorm:"size:16" json:"leave_type"`
	FromDate  string      `gorm:"size:10" json:"from_date"`
	ToDate    string      `gorm:"size:10" json:"to_date"`
	Days      int         `json:"days"`
	Status    LeaveStatus `gorm:"size:16;not null" json:"status"`
	Comment   string      `gorm:"type:text" json:"comment"`
	CreatedAt time.Time   `json:"created_at"`
}
