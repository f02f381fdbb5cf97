package ai

import "context"

// LeaveEmail is the raw material handed to the parser.
type LeaveEmail struct {
	FromEmail string
	Subject   string
	Body      string
}

// ParsedLeave is the structured result extracted from a leave email.
type ParsedLeave struct {
	LeaveType string `json:"leave_type"`
	FromDate  string `json:"from_date"`
	ToDate    string `json:"to_date"`
	Days      int    `json:"days"`
	Reason    string `json:"reason"`
}

// LeaveParser extracts structured leave fields from a free-form email.
// Implementations wrap an external model; callers treat the call as opaque.
type LeaveParser interface {
	Parse(ctx context.Context, email LeaveEmail) (ParsedLeave, error)
}
