// Package models defines the core data structures shared between the
// CareLink API client and its view models.
package models

// Role identifies the account type of a CareLink user.
type Role string

const (
	// RoleParent is a family looking for domestic help.
	RoleParent Role = "parent"
	// RoleHelper is a service provider offering domestic help.
	RoleHelper Role = "helper"
	// RoleAdmin is a platform moderator.
	RoleAdmin Role = "admin"
)

// Valid reports whether r is one of the three known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleParent, RoleHelper, RoleAdmin:
		return true
	}
	return false
}

// Account status values used by the moderation endpoints.
const (
	StatusApproved  = "approved"
	StatusPending   = "pending"
	StatusSuspended = "suspended"
)

// UserSummary is the snapshot of a user cached at login time.
// It may become stale relative to server state until re-fetched.
type UserSummary struct {
	// UserID is the unique identifier assigned by the backend.
	UserID string `json:"user_id"`
	// Name is the display name of the user.
	Name string `json:"name"`
	// UserType is the role of the account.
	UserType Role `json:"user_type"`
	// Email is the login email, when the backend includes it.
	Email string `json:"email,omitempty"`
	// Status is the moderation status of the account, when included.
	Status string `json:"status,omitempty"`
}

// Session pairs the persisted token with the cached user snapshot.
// It is created on successful login and cleared on logout; invalidation
// is purely server-side.
type Session struct {
	// Token is the persisted credential. The current backend issues the
	// user id itself rather than a real token.
	Token string `json:"token"`
	// User is the cached user snapshot.
	User UserSummary `json:"user"`
}

// LogEntry is a single server-owned audit event. The client treats it
// as read-only and never mutates or persists it.
type LogEntry struct {
	LogID      string `json:"log_id"`
	Action     string `json:"action"`
	Username   string `json:"username"`
	Role       string `json:"role"`
	Status     string `json:"status"`
	Timestamp  string `json:"timestamp"`
	IPAddress  string `json:"ip_address,omitempty"`
	DeviceInfo string `json:"device_info,omitempty"`
}

// ManagedUser is a row in the admin user-management listing.
type ManagedUser struct {
	UserID   string `json:"user_id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	UserType Role   `json:"user_type"`
	Status   string `json:"status"`
}

// HelperStats are the dashboard numbers shown on the helper home.
type HelperStats struct {
	ProfileViews        int `json:"profile_views"`
	JobApplications     int `json:"job_applications"`
	PendingInterviews   int `json:"pending_interviews"`
	ProfileCompleteness int `json:"profile_completeness"`
}

// ParentStats are the dashboard numbers shown on the parent home.
type ParentStats struct {
	PostedJobs          int `json:"posted_jobs"`
	PendingApplications int `json:"pending_applications"`
	HiredHelpers        int `json:"hired_helpers"`
}

// AdminStats are the platform-wide counts shown on the admin dashboard.
type AdminStats struct {
	TotalUsers       int `json:"total_users"`
	TotalParents     int `json:"total_parents"`
	TotalHelpers     int `json:"total_helpers"`
	PendingApprovals int `json:"pending_approvals"`
}

// Profile is the extended, role-specific profile record.
type Profile struct {
	Bio      string `json:"bio,omitempty"`
	Location string `json:"location,omitempty"`
	Phone    string `json:"phone,omitempty"`
}

// Login reason values returned by the backend alongside success=false.
const (
	// ReasonWrongPassword marks a credential rejection for a known account.
	ReasonWrongPassword = "wrong_password"
	// ReasonAccountPending marks an account awaiting moderator approval.
	// The backend reports it as a failure, but the client admits the user
	// with limited access.
	ReasonAccountPending = "Account Pending"
)

// LoginResponse is the body of POST /login.php.
type LoginResponse struct {
	Success  bool         `json:"success"`
	UserType Role         `json:"user_type,omitempty"`
	Reason   string       `json:"reason,omitempty"`
	Message  string       `json:"message"`
	User     *UserSummary `json:"user,omitempty"`
}

// StatusResponse is the body of the simple mutation endpoints
// (signup, logout, status updates, document uploads).
type StatusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ProfileResponse is the body of GET /{role}/get_profile.php.
type ProfileResponse struct {
	Success  bool           `json:"success"`
	User     UserSummary    `json:"user"`
	Profile  Profile        `json:"profile"`
	Skills   []string       `json:"skills,omitempty"`
	JobStats map[string]int `json:"job_stats,omitempty"`
}
