package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/collegedesk/collegedesk-api/internal/dto"
	"github.com/collegedesk/collegedesk-api/internal/handler"
	"github.com/collegedesk/collegedesk-api/internal/models"
	"github.com/collegedesk/collegedesk-api/internal/service"
)

type mockLeaveService struct {
	decision    dto.LeaveDecisionResponse
	lastComment string
	lastActor   service.LeaveActor
	err         error
}

func (m *mockLeaveService) List(_ context.Context, status *models.LeaveStatus) ([]dto.LeaveRequestResponse, error) {
	return nil, m.err
}

func (m *mockLeaveService) ParseRequest(_ context.Context, requestID uint) (dto.LeaveRequestResponse, error) {
	return dto.LeaveRequestResponse{ID: requestID}, m.err
}

func (m *mockLeaveService) Approve(_ context.Context, requestID uint, approver service.LeaveActor, payload dto.LeaveDecisionRequest) (dto.LeaveDecisionResponse, error) {
	m.lastActor = approver
	m.lastComment = payload.Comment
	if m.err != nil {
		return dto.LeaveDecisionResponse{}, m.err
	}
	return m.decision, nil
}

func (m *mockLeaveService) Reject(_ context.Context, requestID uint, approver service.LeaveActor, payload dto.LeaveDecisionRequest) (dto.LeaveDecisionResponse, error) {
	m.lastActor = approver
	m.lastComment = payload.Comment
	if m.err != nil {
		return dto.LeaveDecisionResponse{}, m.err
	}
	return m.decision, nil
}

func (m *mockLeaveService) Profile(_ context.Context, facultyID uint) (dto.LeaveProfileResponse, error) {
	if m.err != nil {
		return dto.LeaveProfileResponse{}, m.err
	}
	return dto.LeaveProfileResponse{FacultyID: facultyID}, nil
}

func leaveTestApp(svc *mockLeaveService) *fiber.App {
	logger := zerolog.New(io.Discard)
	app := fiber.New()
	group := app.Group("/api/v2/leave", func(c *fiber.Ctx) error {
		c.Locals("user_id", uint(9))
		c.Locals("user_role", "principal")
		return c.Next()
	})
	handler.NewLeaveHandler(svc, logger).Register(group)
	return app
}

func TestLeaveHandler_Approve(t *testing.T) {
	svc := &mockLeaveService{decision: dto.LeaveDecisionResponse{Decided: true}}
	app := leaveTestApp(svc)

	body, err := json.Marshal(dto.LeaveDecisionRequest{Comment: "approved"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v2/leave/requests/12/approve", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var response struct {
		Success bool                      `json:"success"`
		Data    dto.LeaveDecisionResponse `json:"data"`
	}
	decodeResponse(t, resp, &response)

	require.True(t, response.Data.Decided)
	require.Equal(t, uint(9), svc.lastActor.ID)
	require.Equal(t, "principal", svc.lastActor.Role)
	require.Equal(t, "approved", svc.lastComment)
}

func TestLeaveHandler_RejectWithoutBody(t *testing.T) {
	svc := &mockLeaveService{decision: dto.LeaveDecisionResponse{Decided: true}}
	app := leaveTestApp(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/v2/leave/requests/12/reject", nil)

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Empty(t, svc.lastComment)
}

func TestLeaveHandler_MissingRequestMapsTo404(t *testing.T) {
	svc := &mockLeaveService{err: service.ErrLeaveRequestNotFound}
	app := leaveTestApp(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/v2/leave/requests/99/approve", nil)

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestLeaveHandler_InvalidStatusFilter(t *testing.T) {
	app := leaveTestApp(&mockLeaveService{})

	req := httptest.NewRequest(http.MethodGet, "/api/v2/leave/requests?status=bogus", nil)

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
