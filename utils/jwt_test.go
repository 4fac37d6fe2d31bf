package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndExtractPrincipal(t *testing.T) {
	token, err := GenerateToken("user-1", "client", time.Hour)
	require.NoError(t, err)

	subject, role, err := ExtractPrincipal(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", subject)
	assert.Equal(t, "client", role)
}

func TestExtractPrincipalRejectsExpiredToken(t *testing.T) {
	token, err := GenerateToken("user-1", "client", -time.Minute)
	require.NoError(t, err)

	_, _, err = ExtractPrincipal(token)
	assert.Error(t, err)
}

func TestExtractPrincipalRejectsGarbage(t *testing.T) {
	_, _, err := ExtractPrincipal("not.a.token")
	assert.Error(t, err)
}
