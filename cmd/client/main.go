// Package main is the CareLink terminal client. It resolves the start
// route from the persisted session, then runs an interactive shell for
// login, signup, dashboards, audit logs, and moderation.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/carelink/carelink/internal/client/admin"
	"github.com/carelink/carelink/internal/client/api"
	"github.com/carelink/carelink/internal/client/auth"
	"github.com/carelink/carelink/internal/client/dashboard"
	"github.com/carelink/carelink/internal/client/logs"
	"github.com/carelink/carelink/internal/client/session"
	"github.com/carelink/carelink/internal/config"
	"github.com/carelink/carelink/internal/logger"
	"github.com/carelink/carelink/internal/models"
)

var (
	version   string
	buildDate string
)

// app bundles the long-lived pieces the shell commands share.
type app struct {
	api     *api.Client
	store   session.Store
	log     *zap.Logger
	scanner *bufio.Scanner

	user *models.UserSummary
}

func main() {
	var (
		configPath string
		baseURL    string
		storage    string
		showVer    bool
	)

	flag.StringVar(&configPath, "config", "config.yaml", "path to config file")
	flag.StringVar(&baseURL, "url", "", "CareLink API base URL (overrides config)")
	flag.StringVar(&storage, "storage", "", "session storage file (overrides config)")
	flag.BoolVar(&showVer, "version", false, "show build version and date")
	flag.Parse()

	if showVer {
		fmt.Printf("CareLink Client\nVersion: %s\nBuild Date: %s\n", version, buildDate)
		return
	}

	opts, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if baseURL != "" {
		opts.BaseURL = baseURL
	}
	if storage != "" {
		opts.StoragePath = storage
	}

	zapLogger, err := logger.New(opts.LogLevel)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer func() { _ = zapLogger.Sync() }()

	store, err := session.OpenFileStore(opts.StoragePath)
	if err != nil {
		zapLogger.Fatal("cannot open session store", zap.Error(err))
	}

	a := &app{
		api:     api.New(opts.BaseURL, &http.Client{Timeout: opts.RequestTimeout}, zapLogger),
		store:   store,
		log:     zapLogger,
		scanner: bufio.NewScanner(os.Stdin),
	}

	route := session.ResolveStartRoute(store)
	switch route.Kind {
	case session.RouteAdminDashboard:
		a.user = route.User
		fmt.Printf("Signed in as %s (admin)\n", route.User.Name)
	case session.RouteHome:
		a.user = route.User
		fmt.Printf("Signed in as %s (%s)\n", route.User.Name, route.Role)
	default:
		fmt.Println("Welcome to CareLink. Where families find trusted supports.")
		fmt.Println("Type 'login', 'admin' or 'signup' to begin.")
	}

	a.repl()
}

// repl runs the interactive shell loop.
func (a *app) repl() {
	for {
		fmt.Print("carelink> ")
		if !a.scanner.Scan() {
			return
		}
		line := strings.TrimSpace(a.scanner.Text())
		args := strings.Fields(line)
		if len(args) == 0 {
			continue
		}

		switch args[0] {
		case "help":
			fmt.Println("Commands: login, admin, signup, dashboard, logs, users, approve <id>, suspend <id>, upload <path>, logout, exit")
		case "login":
			a.login(nil)
		case "admin":
			a.login(func(r models.Role) bool { return r == models.RoleAdmin })
		case "signup":
			a.signup()
		case "dashboard":
			a.dashboard()
		case "logs":
			a.logs()
		case "users":
			a.users(args[1:])
		case "approve", "suspend":
			a.moderate(args)
		case "upload":
			a.upload(args[1:])
		case "logout":
			a.logout()
		case "exit":
			fmt.Println("Bye")
			return
		default:
			fmt.Println("Unknown command. Type 'help' for a list of commands.")
		}
	}
}

// login drives one login surface. allow is nil for the user surface and
// an admin-only predicate for the admin surface.
func (a *app) login(allow func(models.Role) bool) {
	opts := []auth.Option{}
	if allow != nil {
		opts = append(opts, auth.WithRoleCheck(allow))
	}
	guard := auth.NewGuard(a.api, a.log, opts...)
	defer guard.Close()

	for {
		email := a.prompt("Email: ")
		password := a.prompt("Password: ")

		sess, err := guard.Submit(context.Background(), email, password)
		if err == nil {
			if err := session.Save(a.store, sess); err != nil {
				a.log.Warn("failed to persist session", zap.Error(err))
			}
			a.user = &sess.User
			fmt.Printf("Welcome back, %s!\n", sess.User.Name)
			return
		}

		var credErr *auth.CredentialError
		var lockErr *auth.LockedError
		switch {
		case errors.As(err, &credErr):
			fmt.Println("Login Failed:", credErr.Message)
		case errors.As(err, &lockErr):
			fmt.Println("Too Many Attempts:", lockErr.Message)
			return
		default:
			fmt.Println("Connection Error: Unable to connect to server.")
			if !a.confirm("Retry? (y/n): ") {
				return
			}
		}
	}
}

func (a *app) signup() {
	form := auth.SignupForm{
		Name:            a.prompt("Name: "),
		Email:           a.prompt("Email: "),
		UserType:        a.prompt("Role (parent/helper): "),
		Password:        a.prompt("Password: "),
		ConfirmPassword: a.prompt("Confirm password: "),
	}
	if err := auth.ValidateSignup(form); err != nil {
		ve := err.(*auth.ValidationError)
		fmt.Printf("%s: %s\n", ve.Title, ve.Message)
		return
	}

	resp, err := a.api.Signup(context.Background(), form.Name, form.Email, models.Role(form.UserType), form.Password)
	if err != nil {
		fmt.Println("Connection Error: Unable to connect to server.")
		return
	}
	if resp.Success {
		fmt.Println("Success:", resp.Message)
	} else {
		fmt.Println("Registration Failed:", resp.Message)
	}
}

func (a *app) dashboard() {
	if a.user == nil {
		fmt.Println("Not signed in.")
		return
	}
	view, err := dashboard.Load(context.Background(), a.api, *a.user, a.log)
	if err != nil {
		fmt.Println("Connection Error: could not load dashboard. Type 'dashboard' to retry.")
		return
	}
	fmt.Print(view.Render())
}

// logs opens the audit-log sub-shell with sort and filter commands.
func (a *app) logs() {
	if a.user == nil || a.user.UserType != models.RoleAdmin {
		fmt.Println("Audit logs are admin-only.")
		return
	}

	view := logs.NewView(a.api, a.log)
	if err := view.Load(context.Background()); err != nil {
		fmt.Println("Connection Error: could not load logs. Type 'reload' to retry.")
	}
	a.printLogs(view)

	for {
		fmt.Print("logs> ")
		if !a.scanner.Scan() {
			return
		}
		args := strings.Fields(strings.TrimSpace(a.scanner.Text()))
		if len(args) == 0 {
			continue
		}
		switch args[0] {
		case "sort":
			view.ToggleSort()
			a.printLogs(view)
		case "filter":
			if len(args) < 2 {
				fmt.Println("Usage: filter all|parent|helper|admin")
				continue
			}
			view.SetFilter(args[1])
			a.printLogs(view)
		case "reload":
			if err := view.Load(context.Background()); err != nil {
				fmt.Println("Connection Error: could not load logs. Type 'reload' to retry.")
			}
			a.printLogs(view)
		case "back":
			return
		default:
			fmt.Println("Commands: sort, filter <role>, reload, back")
		}
	}
}

func (a *app) printLogs(view *logs.View) {
	entries := view.Projected()
	fmt.Printf("%d entries (%s, %s)\n", len(entries), view.Sort(), view.Filter())
	fmt.Println("ACTION | TIME | USER | ROLE | STATUS | IP | DEVICE")
	for _, e := range entries {
		fmt.Printf("%s | %s | %s | %s | %s | %s | %s\n",
			e.Action, e.Timestamp, e.Username, strings.ToUpper(e.Role), e.Status,
			valueOrDash(e.IPAddress), logs.DeviceSummary(e))
	}
}

func (a *app) users(args []string) {
	if a.user == nil || a.user.UserType != models.RoleAdmin {
		fmt.Println("User management is admin-only.")
		return
	}
	mgr := admin.NewManager(a.api, a.user.UserID, a.log)
	pendingOnly := len(args) > 0 && args[0] == "pending"
	if err := mgr.SetPendingOnly(context.Background(), pendingOnly); err != nil {
		fmt.Println("Connection Error: could not load users. Type 'users' to retry.")
		return
	}
	for _, u := range mgr.Users() {
		fmt.Printf("%s | %s | %s | %s | %s\n", u.UserID, u.Name, u.Email, u.UserType, strings.ToUpper(u.Status))
	}
}

func (a *app) moderate(args []string) {
	if a.user == nil || a.user.UserType != models.RoleAdmin {
		fmt.Println("User management is admin-only.")
		return
	}
	if len(args) < 2 {
		fmt.Printf("Usage: %s <user_id>\n", args[0])
		return
	}
	mgr := admin.NewManager(a.api, a.user.UserID, a.log)
	var err error
	if args[0] == "approve" {
		err = mgr.Approve(context.Background(), args[1])
	} else {
		err = mgr.Suspend(context.Background(), args[1])
	}
	if err != nil {
		fmt.Println("Update failed:", err)
		return
	}
	fmt.Println("Status updated.")
}

func (a *app) upload(args []string) {
	if a.user == nil {
		fmt.Println("Not signed in.")
		return
	}
	if len(args) < 1 {
		fmt.Println("Usage: upload <path>")
		return
	}
	f, err := os.Open(args[0])
	if err != nil {
		fmt.Println("Cannot open file:", err)
		return
	}
	defer f.Close()

	docType := a.prompt("Document type: ")
	resp, err := a.api.UploadDocument(context.Background(), a.user.UserType, a.user.UserID, docType, f.Name(), f)
	if err != nil {
		fmt.Println("Connection Error: upload failed. Try again.")
		return
	}
	fmt.Println(resp.Message)
}

// logout fires the backend call, then clears local state no matter what.
func (a *app) logout() {
	if a.user == nil {
		fmt.Println("Not signed in.")
		return
	}
	if _, err := a.api.Logout(context.Background(), a.user.UserID); err != nil {
		a.log.Warn("logout call failed", zap.Error(err))
	}
	if err := session.Clear(a.store); err != nil {
		a.log.Warn("failed to clear session store", zap.Error(err))
	}
	a.user = nil
	fmt.Println("Logged out.")
}

func (a *app) prompt(label string) string {
	fmt.Print(label)
	if !a.scanner.Scan() {
		return ""
	}
	return strings.TrimSpace(a.scanner.Text())
}

func (a *app) confirm(label string) bool {
	return strings.HasPrefix(strings.ToLower(a.prompt(label)), "y")
}

func valueOrDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
