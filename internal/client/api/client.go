// Package api implements the HTTP client for the CareLink backend.
//
// The backend is an external collaborator accessed over HTTP with JSON
// bodies. API-level rejections (success=false plus a message/reason) are
// returned as data; only infrastructure failures surface as errors, and
// always as *TransportError.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/carelink/carelink/internal/models"
)

// Client talks to the CareLink API. The base URL is passed explicitly at
// construction; there is no global endpoint state.
type Client struct {
	baseURL string
	http    *http.Client
	log     *zap.Logger
}

// New constructs a Client for the API rooted at baseURL. httpClient may
// carry a timeout; when nil, http.DefaultClient is used.
func New(baseURL string, httpClient *http.Client, log *zap.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		log:     log,
	}
}

// Login submits credentials to POST /login.php. A credential rejection is
// not an error: it comes back as a response with Success=false.
func (c *Client) Login(ctx context.Context, email, password string) (*models.LoginResponse, error) {
	body := map[string]string{"email": email, "password": password}
	var resp models.LoginResponse
	if err := c.postJSON(ctx, "/login.php", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Signup registers a new account via POST /signup.php.
func (c *Client) Signup(ctx context.Context, name, email string, role models.Role, password string) (*models.StatusResponse, error) {
	body := map[string]string{
		"name":      name,
		"email":     email,
		"user_type": string(role),
		"password":  password,
	}
	var resp models.StatusResponse
	if err := c.postJSON(ctx, "/signup.php", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// HelperStats fetches the helper dashboard numbers.
func (c *Client) HelperStats(ctx context.Context, userID string) (*models.HelperStats, error) {
	var resp struct {
		Success bool               `json:"success"`
		Stats   models.HelperStats `json:"stats"`
	}
	if err := c.getJSON(ctx, c.statsPath(models.RoleHelper, userID), &resp); err != nil {
		return nil, err
	}
	return &resp.Stats, nil
}

// ParentStats fetches the parent dashboard numbers.
func (c *Client) ParentStats(ctx context.Context, userID string) (*models.ParentStats, error) {
	var resp struct {
		Success bool               `json:"success"`
		Stats   models.ParentStats `json:"stats"`
	}
	if err := c.getJSON(ctx, c.statsPath(models.RoleParent, userID), &resp); err != nil {
		return nil, err
	}
	return &resp.Stats, nil
}

// AdminStats fetches the platform-wide counts for the admin dashboard.
func (c *Client) AdminStats(ctx context.Context, userID string) (*models.AdminStats, error) {
	var resp struct {
		Success bool              `json:"success"`
		Stats   models.AdminStats `json:"stats"`
	}
	if err := c.getJSON(ctx, c.statsPath(models.RoleAdmin, userID), &resp); err != nil {
		return nil, err
	}
	return &resp.Stats, nil
}

// GetProfile fetches the role-specific profile record.
func (c *Client) GetProfile(ctx context.Context, role models.Role, userID string) (*models.ProfileResponse, error) {
	path := fmt.Sprintf("/%s/get_profile.php?user_id=%s", role, url.QueryEscape(userID))
	var resp models.ProfileResponse
	if err := c.getJSON(ctx, path, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListLogs fetches the full audit log. The endpoint returns a bare JSON
// array, not a wrapped object.
func (c *Client) ListLogs(ctx context.Context) ([]models.LogEntry, error) {
	var entries []models.LogEntry
	if err := c.getJSON(ctx, "/admin_get_logs.php", &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// ListUsers fetches the moderation listing. When onlyPending is set, the
// backend filters to accounts awaiting approval.
func (c *Client) ListUsers(ctx context.Context, onlyPending bool) ([]models.ManagedUser, error) {
	path := "/admin_get_users.php"
	if onlyPending {
		path += "?status=pending"
	}
	var resp struct {
		Success bool                 `json:"success"`
		Users   []models.ManagedUser `json:"users"`
	}
	if err := c.getJSON(ctx, path, &resp); err != nil {
		return nil, err
	}
	return resp.Users, nil
}

// UpdateUserStatus moves a target account to a new moderation status.
func (c *Client) UpdateUserStatus(ctx context.Context, adminID, targetID, newStatus string) (*models.StatusResponse, error) {
	body := map[string]string{
		"admin_id":       adminID,
		"target_user_id": targetID,
		"new_status":     newStatus,
	}
	var resp models.StatusResponse
	if err := c.postJSON(ctx, "/admin_update_status.php", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Logout notifies the backend that the user's session ended. Callers clear
// local state regardless of the outcome.
func (c *Client) Logout(ctx context.Context, userID string) (*models.StatusResponse, error) {
	var resp models.StatusResponse
	if err := c.postJSON(ctx, "/logout.php", map[string]string{"user_id": userID}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UploadDocument sends a verification document as multipart form data to
// the role-specific upload endpoint.
func (c *Client) UploadDocument(ctx context.Context, role models.Role, userID, docType, filename string, content io.Reader) (*models.StatusResponse, error) {
	op := fmt.Sprintf("/%s/upload_document.php", role)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if err := mw.WriteField("user_id", userID); err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}
	if err := mw.WriteField("doc_type", docType); err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}
	part, err := mw.CreateFormFile("document", filename)
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}
	if err := mw.Close(); err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+op, &buf)
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var resp models.StatusResponse
	if err := c.do(req, op, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) statsPath(role models.Role, userID string) string {
	return fmt.Sprintf("/%s/get_stats.php?user_id=%s", role, url.QueryEscape(userID))
}

func (c *Client) postJSON(ctx context.Context, path string, body, out any) error {
	b, err := json.Marshal(body)
	if err != nil {
		return &TransportError{Op: path, Err: err}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(b))
	if err != nil {
		return &TransportError{Op: path, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, path, out)
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return &TransportError{Op: path, Err: err}
	}
	return c.do(req, path, out)
}

func (c *Client) do(req *http.Request, op string, out any) error {
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("request failed",
			zap.String("op", op),
			zap.String("request_id", requestID),
			zap.Error(err),
		)
		return &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log.Warn("unexpected status",
			zap.String("op", op),
			zap.String("request_id", requestID),
			zap.Int("status", resp.StatusCode),
		)
		return &TransportError{Op: op, Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &TransportError{Op: op, Err: fmt.Errorf("decoding response: %w", err)}
	}

	c.log.Debug("request completed",
		zap.String("op", op),
		zap.String("request_id", requestID),
	)
	return nil
}
