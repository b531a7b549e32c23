// Package admin implements the moderator user-management view model:
// listing accounts and moving them between moderation statuses.
package admin

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/carelink/carelink/internal/models"
)

// Client is the slice of the API the manager needs. *api.Client
// satisfies it.
type Client interface {
	ListUsers(ctx context.Context, onlyPending bool) ([]models.ManagedUser, error)
	UpdateUserStatus(ctx context.Context, adminID, targetID, newStatus string) (*models.StatusResponse, error)
}

// Manager drives the user-management screen for one admin.
type Manager struct {
	client  Client
	adminID string
	log     *zap.Logger

	users       []models.ManagedUser
	pendingOnly bool
}

// NewManager constructs a Manager acting as the given admin.
func NewManager(client Client, adminID string, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{client: client, adminID: adminID, log: log}
}

// Refresh re-fetches the listing with the current pending-only setting.
func (m *Manager) Refresh(ctx context.Context) error {
	users, err := m.client.ListUsers(ctx, m.pendingOnly)
	if err != nil {
		return err
	}
	m.users = users
	return nil
}

// SetPendingOnly switches between the full listing and pending accounts
// and re-fetches.
func (m *Manager) SetPendingOnly(ctx context.Context, pendingOnly bool) error {
	m.pendingOnly = pendingOnly
	return m.Refresh(ctx)
}

// Users returns the last fetched listing.
func (m *Manager) Users() []models.ManagedUser { return m.users }

// Approve moves the target account to the approved status.
func (m *Manager) Approve(ctx context.Context, targetID string) error {
	return m.update(ctx, targetID, models.StatusApproved)
}

// Suspend moves the target account to the suspended status.
func (m *Manager) Suspend(ctx context.Context, targetID string) error {
	return m.update(ctx, targetID, models.StatusSuspended)
}

func (m *Manager) update(ctx context.Context, targetID, newStatus string) error {
	resp, err := m.client.UpdateUserStatus(ctx, m.adminID, targetID, newStatus)
	if err != nil {
		return err
	}
	if !resp.Success {
		return fmt.Errorf("status update rejected: %s", resp.Message)
	}
	m.log.Info("user status updated",
		zap.String("target", targetID),
		zap.String("status", newStatus),
	)
	// Mirror the screen behavior: refresh the listing after a change.
	return m.Refresh(ctx)
}
