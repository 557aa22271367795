package myjwt

import (
	"testing"

	"SupportDesk/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	conf := config.Default()
	conf.JwtConfig.Key = "test-secret"
	config.SetConfig(conf)

	token, err := GenerateToken("user-1", "ADMIN")
	require.NoError(t, err)

	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "ADMIN", claims.Role)
	assert.Equal(t, "SupportDesk", claims.Issuer)

	_, err = ParseToken(token + "x")
	assert.Error(t, err)
}
