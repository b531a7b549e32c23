// Package logs implements the audit-log view model: a single fetch of
// the server-owned log list plus a pure filter-then-sort projection.
package logs

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/mileusna/useragent"
	"go.uber.org/zap"

	"github.com/carelink/carelink/internal/models"
)

// SortOrder is the direction of the timestamp sort.
type SortOrder string

const (
	// SortAsc orders oldest first.
	SortAsc SortOrder = "asc"
	// SortDesc orders newest first. This is the default.
	SortDesc SortOrder = "desc"
)

// FilterAll disables role filtering.
const FilterAll = "all"

// Lister fetches the raw log list. *api.Client satisfies it.
type Lister interface {
	ListLogs(ctx context.Context) ([]models.LogEntry, error)
}

// View holds the fetched entries and the (sortOrder, filterRole) pair.
// Every combination of the pair is reachable and valid; the defaults are
// (desc, all).
type View struct {
	client Lister
	log    *zap.Logger

	entries    []models.LogEntry
	sortOrder  SortOrder
	filterRole string
}

// NewView constructs a View with the default projection settings.
func NewView(client Lister, log *zap.Logger) *View {
	if log == nil {
		log = zap.NewNop()
	}
	return &View{
		client:     client,
		log:        log,
		sortOrder:  SortDesc,
		filterRole: FilterAll,
	}
}

// Load replaces the entries with a fresh fetch. On failure the previous
// entries are retained (stale-but-present) and the error is returned so
// the caller can offer a retry.
func (v *View) Load(ctx context.Context) error {
	entries, err := v.client.ListLogs(ctx)
	if err != nil {
		v.log.Warn("log fetch failed, keeping stale entries",
			zap.Int("stale", len(v.entries)),
			zap.Error(err),
		)
		return err
	}
	v.entries = entries
	return nil
}

// ToggleSort flips the sort direction and returns the new value. It does
// not re-fetch.
func (v *View) ToggleSort() SortOrder {
	if v.sortOrder == SortDesc {
		v.sortOrder = SortAsc
	} else {
		v.sortOrder = SortDesc
	}
	return v.sortOrder
}

// SetFilter replaces the role filter ("all" or a role name).
func (v *View) SetFilter(role string) {
	v.filterRole = strings.ToLower(role)
}

// Sort returns the current sort direction.
func (v *View) Sort() SortOrder { return v.sortOrder }

// Filter returns the current role filter.
func (v *View) Filter() string { return v.filterRole }

// Projected returns the display-ready projection of the loaded entries.
func (v *View) Projected() []models.LogEntry {
	return Project(v.entries, v.filterRole, v.sortOrder)
}

// Project filters entries by role, then sorts them by parsed timestamp.
// It is pure: the input slice is never modified. The sort is stable, so
// entries with equal timestamps keep their input order.
func Project(entries []models.LogEntry, filterRole string, order SortOrder) []models.LogEntry {
	out := make([]models.LogEntry, 0, len(entries))
	for _, e := range entries {
		if filterRole == FilterAll || strings.ToLower(e.Role) == filterRole {
			out = append(out, e)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		ti := parseTimestamp(out[i].Timestamp)
		tj := parseTimestamp(out[j].Timestamp)
		if order == SortAsc {
			return ti.Before(tj)
		}
		return tj.Before(ti)
	})
	return out
}

// timestampLayouts are tried in order when parsing server timestamps.
var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02",
}

// parseTimestamp parses a server timestamp. Unparseable values collapse
// to the zero time, which sorts as oldest.
func parseTimestamp(s string) time.Time {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// DeviceSummary condenses a raw device_info user-agent string into a
// short "Browser on OS" label for the table.
func DeviceSummary(e models.LogEntry) string {
	if e.DeviceInfo == "" {
		return "-"
	}
	ua := useragent.Parse(e.DeviceInfo)
	if ua.Name == "" {
		return e.DeviceInfo
	}
	if ua.OS == "" {
		return ua.Name
	}
	return ua.Name + " on " + ua.OS
}
