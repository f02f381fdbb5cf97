package dto

import (
	"time"

	"github.com/collegedesk/collegedesk-api/internal/models"
)

// NotificationCreateRequest describes the payload to dispatch a notification.
type NotificationCreateRequest struct {
	RecipientID   string `json:"recipient_id" validate:"required,max=64"`
	RecipientRole string `json:"recipient_role" validate:"omitempty,oneof=student faculty hod principal"`
	Title         string `json:"title" validate:"required,max=255"`
	Message       string `json:"message" validate:"required,min=1,max=4000"`
	Type          string `json:"type" validate:"omitempty,max=64"`
	Priority      string `json:"priority" validate:"omitempty,oneof=low normal high"`
	Link          string `json:"link" validate:"omitempty,max=512"`
}

// NotificationResponse is the serialized notification payload.
type NotificationResponse struct {
	ID            uint      `json:"id"`
	RecipientID   string    `json:"recipient_id"`
	RecipientRole string    `json:"recipient_role,omitempty"`
	Title         string    `json:"title"`
	Message       string    `json:"message"`
	Type          string    `json:"type"`
	Priority      string    `json:"priority"`
	Link          string    `json:"link,omitempty"`
	Read          bool      `json:"read"`
	CreatedAt     time.Time `json:"created_at"`
}

// NewNotificationResponse converts a model into a DTO.
func NewNotificationResponse(notification models.Notification) NotificationResponse {
	return NotificationResponse{
		ID:            notification.ID,
		RecipientID:   notification.RecipientID,
		RecipientRole: notification.RecipientRole,
		Title:         notification.Title,
		Message:       notification.Message,
		Type:          notification.Type,
		Priority:      notification.Priority,
		Link:          notification.Link,
		Read:          notification.Read,
		CreatedAt:     notification.CreatedAt,
	}
}

// NewNotificationResponseSlice converts a slice of models into DTOs.
func NewNotificationResponseSlice(notifications []models.Notification) []NotificationResponse {
	out := make([]NotificationResponse, 0, len(notifications))
	for _, notification := range notifications {
		out = append(out, NewNotificationResponse(notification))
	}
	return out
}
