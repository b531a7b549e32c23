// Package carelinktest provides an in-process fake of the CareLink
// backend for tests. It speaks the same JSON contract as the real PHP
// API and records how often each endpoint was hit, so tests can assert
// that a code path made (or avoided) a network call.
package carelinktest

import (
	"encoding/json"
	"net/http"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/carelink/carelink/internal/models"
)

// Account is a backend user fixture with its plaintext password.
type Account struct {
	models.ManagedUser
	Password string
}

// Fixtures seeds the fake backend.
type Fixtures struct {
	Accounts []Account
	Logs     []models.LogEntry

	HelperStats models.HelperStats
	ParentStats models.ParentStats
	AdminStats  models.AdminStats

	Profiles map[string]models.Profile
}

// Server is the fake backend. Use its Handler with httptest.NewServer.
type Server struct {
	log *zap.Logger

	mu       sync.Mutex
	accounts []Account
	fx       Fixtures
	calls    map[string]int
}

// New constructs a Server seeded with fx.
func New(fx Fixtures, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	accounts := make([]Account, len(fx.Accounts))
	copy(accounts, fx.Accounts)
	return &Server{
		log:      log,
		accounts: accounts,
		fx:       fx,
		calls:    map[string]int{},
	}
}

// Calls returns how many requests hit the given path.
func (s *Server) Calls(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[path]
}

// Accounts returns a copy of the current account state.
func (s *Server) Accounts() []Account {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Account, len(s.accounts))
	copy(out, s.accounts)
	return out
}

// Handler builds the chi router serving the fake API.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(s.withCallCounting)

	r.Post("/login.php", s.handleLogin)
	r.Post("/signup.php", s.handleSignup)
	r.Post("/logout.php", s.handleLogout)
	r.Get("/admin_get_logs.php", s.handleLogs)
	r.Get("/admin_get_users.php", s.handleUsers)
	r.Post("/admin_update_status.php", s.handleUpdateStatus)
	r.Get("/{role}/get_stats.php", s.handleStats)
	r.Get("/{role}/get_profile.php", s.handleProfile)
	r.Post("/{role}/upload_document.php", s.handleUpload)

	return r
}

// withCallCounting records each request path and logs it.
func (s *Server) withCallCounting(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.calls[r.URL.Path]++
		s.mu.Unlock()
		s.log.Debug("fake backend request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
		)
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range s.accounts {
		if a.Email != req.Email {
			continue
		}
		if a.Password != req.Password {
			writeJSON(w, models.LoginResponse{
				Success: false,
				Reason:  models.ReasonWrongPassword,
				Message: "Incorrect password.",
			})
			return
		}
		user := &models.UserSummary{
			UserID:   a.UserID,
			Name:     a.Name,
			UserType: a.UserType,
			Email:    a.Email,
			Status:   a.Status,
		}
		if a.Status == models.StatusPending {
			writeJSON(w, models.LoginResponse{
				Success:  false,
				Reason:   models.ReasonAccountPending,
				UserType: a.UserType,
				Message:  "Your account is pending approval.",
				User:     user,
			})
			return
		}
		if a.Status == models.StatusSuspended {
			writeJSON(w, models.LoginResponse{
				Success: false,
				Message: "Account suspended.",
			})
			return
		}
		writeJSON(w, models.LoginResponse{
			Success:  true,
			UserType: a.UserType,
			Message:  "Login successful.",
			User:     user,
		})
		return
	}

	writeJSON(w, models.LoginResponse{Success: false, Message: "User not found."})
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		UserType string `json:"user_type"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range s.accounts {
		if a.Email == req.Email {
			writeJSON(w, models.StatusResponse{Success: false, Message: "Email already registered."})
			return
		}
	}
	s.accounts = append(s.accounts, Account{
		ManagedUser: models.ManagedUser{
			UserID:   newID(len(s.accounts)),
			Name:     req.Name,
			Email:    req.Email,
			UserType: models.Role(req.UserType),
			Status:   models.StatusPending,
		},
		Password: req.Password,
	})
	writeJSON(w, models.StatusResponse{Success: true, Message: "Registration successful. Awaiting approval."})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, models.StatusResponse{Success: true, Message: "Logged out."})
}

// handleLogs returns the bare array, matching the real endpoint.
func (s *Server) handleLogs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.fx.Logs)
}

func (s *Server) handleUsers(w http.ResponseWriter, r *http.Request) {
	onlyPending := r.URL.Query().Get("status") == models.StatusPending

	s.mu.Lock()
	defer s.mu.Unlock()

	users := make([]models.ManagedUser, 0, len(s.accounts))
	for _, a := range s.accounts {
		if onlyPending && a.Status != models.StatusPending {
			continue
		}
		users = append(users, a.ManagedUser)
	}
	writeJSON(w, map[string]any{"success": true, "users": users})
}

func (s *Server) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AdminID      string `json:"admin_id"`
		TargetUserID string `json:"target_user_id"`
		NewStatus    string `json:"new_status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.accounts {
		if s.accounts[i].UserID == req.TargetUserID {
			s.accounts[i].Status = req.NewStatus
			writeJSON(w, models.StatusResponse{Success: true, Message: "Status updated."})
			return
		}
	}
	writeJSON(w, models.StatusResponse{Success: false, Message: "User not found."})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	switch models.Role(chi.URLParam(r, "role")) {
	case models.RoleHelper:
		writeJSON(w, map[string]any{"success": true, "stats": s.fx.HelperStats})
	case models.RoleParent:
		writeJSON(w, map[string]any{"success": true, "stats": s.fx.ParentStats})
	case models.RoleAdmin:
		writeJSON(w, map[string]any{"success": true, "stats": s.fx.AdminStats})
	default:
		http.Error(w, "unknown role", http.StatusNotFound)
	}
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range s.accounts {
		if a.UserID == userID {
			writeJSON(w, models.ProfileResponse{
				Success: true,
				User: models.UserSummary{
					UserID:   a.UserID,
					Name:     a.Name,
					UserType: a.UserType,
					Email:    a.Email,
					Status:   a.Status,
				},
				Profile: s.fx.Profiles[userID],
			})
			return
		}
	}
	writeJSON(w, models.ProfileResponse{Success: false})
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		http.Error(w, "invalid multipart form", http.StatusBadRequest)
		return
	}
	if _, _, err := r.FormFile("document"); err != nil {
		writeJSON(w, models.StatusResponse{Success: false, Message: "Missing document."})
		return
	}
	writeJSON(w, models.StatusResponse{Success: true, Message: "Document uploaded."})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func newID(n int) string {
	// Fixture ids are small and predictable on purpose.
	return "u" + strconv.Itoa(n+1)
}
