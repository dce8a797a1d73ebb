package security_test

import (
	"testing"

	"Liveboard/internal/pkg/security"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	token, err := security.GenerateToken(42, "管理员", []string{"USER", "ADMIN"})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := security.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), claims.UserID)
	assert.Equal(t, "管理员", claims.Name)
	assert.Equal(t, []string{"USER", "ADMIN"}, claims.Roles)
	assert.Equal(t, "Liveboard", claims.Issuer)
}

func TestValidateTokenRejectsTampered(t *testing.T) {
	token, err := security.GenerateToken(1, "user", []string{"USER"})
	require.NoError(t, err)

	tampered := token[:len(token)-2] + "xx"
	_, err = security.ValidateToken(tampered)
	assert.Error(t, err)
}

func TestExtractSignature(t *testing.T) {
	token, err := security.GenerateToken(1, "user", []string{"USER"})
	require.NoError(t, err)

	sig, err := security.ExtractSignature(token)
	require.NoError(t, err)
	assert.NotEmpty(t, sig)

	_, err = security.ExtractSignature("not-a-token")
	assert.Error(t, err)
}
