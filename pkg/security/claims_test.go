package security_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/breeew/peer-api/pkg/security"
)

func TestWithRoleCopiesFields(t *testing.T) {
	claims := security.NewTokenClaims(42)
	claims.Fields["lang"] = "en"

	withRole := claims.WithRole("role-student")
	assert.Equal(t, "role-student", withRole.GetRole())
	assert.Equal(t, "en", withRole.Fields["lang"])
	assert.Equal(t, int64(42), withRole.GetUser())

	assert.Empty(t, claims.GetRole())
}

func TestGetRoleWithoutFields(t *testing.T) {
	assert.Empty(t, security.TokenClaims{User: 1}.GetRole())
	assert.Equal(t, "7", security.TokenClaims{User: 7}.UserIDStr())
}
