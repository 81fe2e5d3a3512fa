package sessions_test

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/medilink/portal/sessions"
)

func tokenWithClaims(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func TestRolesFromToken(t *testing.T) {
	t.Run("single role claim", func(t *testing.T) {
		token := tokenWithClaims(t, jwt.MapClaims{"role": "User"})
		require.Equal(t, []string{"User"}, sessions.RolesFromToken(token))
	})

	t.Run("role array", func(t *testing.T) {
		token := tokenWithClaims(t, jwt.MapClaims{"roles": []string{"User", "Admin"}})
		require.Equal(t, []string{"User", "Admin"}, sessions.RolesFromToken(token))
	})

	t.Run("long-form identity claim", func(t *testing.T) {
		token := tokenWithClaims(t, jwt.MapClaims{
			"http://schemas.microsoft.com/ws/2008/06/identity/claims/role": "Clinician",
		})
		require.Equal(t, []string{"Clinician"}, sessions.RolesFromToken(token))
	})

	t.Run("no role claim", func(t *testing.T) {
		token := tokenWithClaims(t, jwt.MapClaims{"sub": "42"})
		require.Nil(t, sessions.RolesFromToken(token))
	})

	t.Run("not a JWT", func(t *testing.T) {
		require.Nil(t, sessions.RolesFromToken("opaque-token"))
		require.Nil(t, sessions.RolesFromToken(""))
	})
}

func TestSession_HasRole(t *testing.T) {
	session := &sessions.Session{Roles: []string{"User"}}
	require.True(t, session.HasRole("User"))
	require.False(t, session.HasRole("Admin"))

	var nilSession *sessions.Session
	require.False(t, nilSession.HasRole("User"))
}

func TestSession_Clone(t *testing.T) {
	var nilSession *sessions.Session
	require.Nil(t, nilSession.Clone())

	session := &sessions.Session{
		AppUserID: 42,
		Username:  "pat01",
		Roles:     []string{"User"},
	}
	clone := session.Clone()
	clone.Roles[0] = "Admin"
	clone.Username = "other"

	require.Equal(t, "pat01", session.Username)
	require.Equal(t, []string{"User"}, session.Roles)
}
