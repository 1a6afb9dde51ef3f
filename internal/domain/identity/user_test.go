package identity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zhima-Mochi/minishop-cart/internal/domain/identity"
)

func TestParseRole(t *testing.T) {
	cases := map[string]identity.Role{
		"":        identity.RoleUser,
		"user":    identity.RoleUser,
		" Admin ": identity.RoleAdmin,
	}
	for in, want := range cases {
		got, err := identity.ParseRole(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := identity.ParseRole("root")
	require.ErrorIs(t, err, identity.ErrInvalidRole)
}

func TestNewUserNormalizesEmail(t *testing.T) {
	u := identity.NewUser(" alice ", " Alice@Example.COM ", "hash", identity.RoleUser)
	assert.Equal(t, "alice", u.Username)
	assert.Equal(t, "alice@example.com", u.Email)
}
