package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carelink/carelink/internal/models"
)

func seeded(t *testing.T, token, user string) Store {
	t.Helper()
	store := NewMemStore()
	if token != "" {
		require.NoError(t, store.Set(KeyToken, token))
	}
	if user != "" {
		require.NoError(t, store.Set(KeyUser, user))
	}
	return store
}

func TestResolveStartRoute(t *testing.T) {
	tests := []struct {
		name     string
		token    string
		user     string
		wantKind RouteKind
		wantRole models.Role
	}{
		{
			name:     "helper session routes to helper home",
			token:    "42",
			user:     `{"user_id":"42","name":"A","user_type":"helper"}`,
			wantKind: RouteHome,
			wantRole: models.RoleHelper,
		},
		{
			name:     "parent session routes to parent home",
			token:    "7",
			user:     `{"user_id":"7","name":"B","user_type":"parent"}`,
			wantKind: RouteHome,
			wantRole: models.RoleParent,
		},
		{
			name:     "admin session routes to admin dashboard",
			token:    "1",
			user:     `{"user_id":"1","name":"Root","user_type":"admin"}`,
			wantKind: RouteAdminDashboard,
			wantRole: models.RoleAdmin,
		},
		{
			name:     "empty store routes to welcome",
			wantKind: RouteWelcome,
		},
		{
			name:     "token without cached user routes to welcome",
			token:    "42",
			wantKind: RouteWelcome,
		},
		{
			name:     "cached user without token routes to welcome",
			user:     `{"user_id":"42","name":"A","user_type":"helper"}`,
			wantKind: RouteWelcome,
		},
		{
			name:     "corrupt cached user routes to welcome",
			token:    "42",
			user:     `{"user_id":`,
			wantKind: RouteWelcome,
		},
		{
			name:     "unknown role routes to welcome",
			token:    "42",
			user:     `{"user_id":"42","name":"A","user_type":"root"}`,
			wantKind: RouteWelcome,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			route := ResolveStartRoute(seeded(t, tt.token, tt.user))

			assert.Equal(t, tt.wantKind, route.Kind)
			if tt.wantKind == RouteWelcome {
				assert.Nil(t, route.User, "welcome route must never carry a user")
				return
			}
			assert.Equal(t, tt.wantRole, route.Role)
			require.NotNil(t, route.User)
		})
	}
}

// The gate is a single synchronous read; running it twice over the same
// store must give the same answer.
func TestResolveStartRoute_Idempotent(t *testing.T) {
	store := seeded(t, "42", `{"user_id":"42","name":"A","user_type":"helper"}`)

	first := ResolveStartRoute(store)
	second := ResolveStartRoute(store)

	assert.Equal(t, first.Kind, second.Kind)
	assert.Equal(t, first.Role, second.Role)
}
