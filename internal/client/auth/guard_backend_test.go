package auth_test

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carelink/carelink/internal/carelinktest"
	"github.com/carelink/carelink/internal/client/api"
	"github.com/carelink/carelink/internal/client/auth"
	"github.com/carelink/carelink/internal/models"
)

// End-to-end: guard + real API client + fake backend.
func TestGuard_AgainstFakeBackend(t *testing.T) {
	backend := carelinktest.New(carelinktest.Fixtures{
		Accounts: []carelinktest.Account{
			{
				ManagedUser: models.ManagedUser{UserID: "1", Name: "Root", Email: "root@carelink.test", UserType: models.RoleAdmin, Status: models.StatusApproved},
				Password:    "Adm1n!pass",
			},
			{
				ManagedUser: models.ManagedUser{UserID: "42", Name: "A", Email: "a@carelink.test", UserType: models.RoleHelper, Status: models.StatusApproved},
				Password:    "Help3r!pw",
			},
		},
	}, nil)
	srv := httptest.NewServer(backend.Handler())
	defer srv.Close()
	client := api.New(srv.URL, srv.Client(), nil)

	t.Run("admin surface rejects a helper login", func(t *testing.T) {
		g := auth.NewGuard(client, nil, auth.WithRoleCheck(func(r models.Role) bool { return r == models.RoleAdmin }))
		defer g.Close()

		_, err := g.Submit(context.Background(), "a@carelink.test", "Help3r!pw")
		var ce *auth.CredentialError
		require.ErrorAs(t, err, &ce)

		sess, err := g.Submit(context.Background(), "root@carelink.test", "Adm1n!pass")
		require.NoError(t, err)
		assert.Equal(t, models.RoleAdmin, sess.User.UserType)
		assert.Equal(t, 5, g.AttemptsLeft())
	})

	t.Run("locked guard stops calling the backend", func(t *testing.T) {
		g := auth.NewGuard(client, nil)
		defer g.Close()

		before := backend.Calls("/login.php")
		for i := 0; i < 5; i++ {
			_, err := g.Submit(context.Background(), "a@carelink.test", "wrong")
			require.Error(t, err)
		}
		require.True(t, g.Locked())
		assert.Equal(t, before+5, backend.Calls("/login.php"))

		var le *auth.LockedError
		_, err := g.Submit(context.Background(), "a@carelink.test", "Help3r!pw")
		require.ErrorAs(t, err, &le)
		assert.Equal(t, before+5, backend.Calls("/login.php"), "no call while locked")
	})
}
