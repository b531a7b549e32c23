// Package dashboard builds the role-conditional home view. One Load
// entry point produces exactly one of the parent, helper, or admin
// variants from the cached user's role.
package dashboard

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/carelink/carelink/internal/models"
)

// StatsClient fetches the per-role dashboard numbers. *api.Client
// satisfies it.
type StatsClient interface {
	HelperStats(ctx context.Context, userID string) (*models.HelperStats, error)
	ParentStats(ctx context.Context, userID string) (*models.ParentStats, error)
	AdminStats(ctx context.Context, userID string) (*models.AdminStats, error)
}

// View is a tagged union: exactly one of Parent, Helper, or Admin is
// non-nil, matching Role.
type View struct {
	Role   models.Role
	Parent *ParentView
	Helper *HelperView
	Admin  *AdminView
}

// ParentView is the seeker home.
type ParentView struct {
	Name  string
	Stats models.ParentStats
}

// HelperView is the provider home.
type HelperView struct {
	Name  string
	Stats models.HelperStats
}

// AdminView is the moderator home.
type AdminView struct {
	Name  string
	Stats models.AdminStats
}

// Load fetches the stats for user's role and builds the matching view
// variant. A transport failure is returned as-is so the caller can show
// a retry affordance; stats are never silently zeroed.
func Load(ctx context.Context, client StatsClient, user models.UserSummary, log *zap.Logger) (*View, error) {
	if log == nil {
		log = zap.NewNop()
	}
	log.Debug("loading dashboard",
		zap.String("user_id", user.UserID),
		zap.String("role", string(user.UserType)),
	)

	switch user.UserType {
	case models.RoleParent:
		stats, err := client.ParentStats(ctx, user.UserID)
		if err != nil {
			return nil, err
		}
		return &View{Role: models.RoleParent, Parent: &ParentView{Name: user.Name, Stats: *stats}}, nil

	case models.RoleHelper:
		stats, err := client.HelperStats(ctx, user.UserID)
		if err != nil {
			return nil, err
		}
		return &View{Role: models.RoleHelper, Helper: &HelperView{Name: user.Name, Stats: *stats}}, nil

	case models.RoleAdmin:
		stats, err := client.AdminStats(ctx, user.UserID)
		if err != nil {
			return nil, err
		}
		return &View{Role: models.RoleAdmin, Admin: &AdminView{Name: user.Name, Stats: *stats}}, nil

	default:
		return nil, fmt.Errorf("dashboard: unknown role %q", user.UserType)
	}
}

// CompletenessColor buckets a profile completeness percentage into the
// badge color used next to the progress bar.
func CompletenessColor(pct int) string {
	switch {
	case pct >= 80:
		return "#2E8B57"
	case pct >= 50:
		return "#FFA500"
	default:
		return "#FF6B6B"
	}
}

// Render produces the terminal representation of the view.
func (v *View) Render() string {
	switch v.Role {
	case models.RoleParent:
		p := v.Parent
		return fmt.Sprintf(
			"Welcome back, %s!\nPosted jobs: %d\nPending applications: %d\nHired helpers: %d\n",
			p.Name, p.Stats.PostedJobs, p.Stats.PendingApplications, p.Stats.HiredHelpers,
		)
	case models.RoleHelper:
		h := v.Helper
		hint := "Your profile is complete!"
		if h.Stats.ProfileCompleteness < 100 {
			hint = "Complete your profile to get more job offers!"
		}
		return fmt.Sprintf(
			"Welcome back, %s!\nProfile completeness: %d%% (%s)\nProfile views: %d\nJob applications: %d\nPending interviews: %d\n%s\n",
			h.Name, h.Stats.ProfileCompleteness, CompletenessColor(h.Stats.ProfileCompleteness),
			h.Stats.ProfileViews, h.Stats.JobApplications, h.Stats.PendingInterviews, hint,
		)
	case models.RoleAdmin:
		a := v.Admin
		return fmt.Sprintf(
			"Welcome, %s.\nTotal users: %d (parents %d, helpers %d)\nPending approvals: %d\n",
			a.Name, a.Stats.TotalUsers, a.Stats.TotalParents, a.Stats.TotalHelpers, a.Stats.PendingApprovals,
		)
	}
	return ""
}
