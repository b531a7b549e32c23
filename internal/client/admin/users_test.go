package admin

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carelink/carelink/internal/models"
)

// stubClient records status updates and serves a mutable listing.
type stubClient struct {
	users      []models.ManagedUser
	listCalls  int
	lastUpdate [3]string // admin, target, status
	updateResp *models.StatusResponse
	err        error
}

func (s *stubClient) ListUsers(ctx context.Context, onlyPending bool) ([]models.ManagedUser, error) {
	s.listCalls++
	if s.err != nil {
		return nil, s.err
	}
	if !onlyPending {
		return s.users, nil
	}
	var pending []models.ManagedUser
	for _, u := range s.users {
		if u.Status == models.StatusPending {
			pending = append(pending, u)
		}
	}
	return pending, nil
}

func (s *stubClient) UpdateUserStatus(ctx context.Context, adminID, targetID, newStatus string) (*models.StatusResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.lastUpdate = [3]string{adminID, targetID, newStatus}
	for i := range s.users {
		if s.users[i].UserID == targetID {
			s.users[i].Status = newStatus
		}
	}
	if s.updateResp != nil {
		return s.updateResp, nil
	}
	return &models.StatusResponse{Success: true, Message: "Status updated."}, nil
}

func seededClient() *stubClient {
	return &stubClient{users: []models.ManagedUser{
		{UserID: "7", Name: "P", UserType: models.RoleHelper, Status: models.StatusPending},
		{UserID: "42", Name: "A", UserType: models.RoleHelper, Status: models.StatusApproved},
	}}
}

func TestManager_RefreshAndPendingFilter(t *testing.T) {
	client := seededClient()
	m := NewManager(client, "1", nil)

	require.NoError(t, m.Refresh(context.Background()))
	assert.Len(t, m.Users(), 2)

	require.NoError(t, m.SetPendingOnly(context.Background(), true))
	require.Len(t, m.Users(), 1)
	assert.Equal(t, "7", m.Users()[0].UserID)
}

func TestManager_ApproveUpdatesAndRefreshes(t *testing.T) {
	client := seededClient()
	m := NewManager(client, "1", nil)
	require.NoError(t, m.Refresh(context.Background()))
	listCallsBefore := client.listCalls

	require.NoError(t, m.Approve(context.Background(), "7"))

	assert.Equal(t, [3]string{"1", "7", models.StatusApproved}, client.lastUpdate)
	assert.Greater(t, client.listCalls, listCallsBefore, "a successful update refreshes the listing")
	for _, u := range m.Users() {
		if u.UserID == "7" {
			assert.Equal(t, models.StatusApproved, u.Status)
		}
	}
}

func TestManager_SuspendRejectedByBackend(t *testing.T) {
	client := seededClient()
	client.updateResp = &models.StatusResponse{Success: false, Message: "Not allowed."}
	m := NewManager(client, "1", nil)

	err := m.Suspend(context.Background(), "42")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Not allowed.")
}

func TestManager_TransportErrorPropagates(t *testing.T) {
	client := seededClient()
	client.err = errors.New("connection refused")
	m := NewManager(client, "1", nil)

	assert.Error(t, m.Refresh(context.Background()))
	assert.Error(t, m.Approve(context.Background(), "7"))
}
