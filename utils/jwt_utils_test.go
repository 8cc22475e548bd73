package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = []byte("test-secret")

func TestGenerateAndValidateJWT(t *testing.T) {
	token, err := GenerateJWT(secret, "user_42", time.Hour)
	require.NoError(t, err)

	claims, err := ValidateJWT(secret, token)
	require.NoError(t, err)
	assert.Equal(t, "user_42", claims.UserID)
	assert.Equal(t, "user_42", claims.Subject)
}

func TestValidateJWT_Rejects(t *testing.T) {
	good, err := GenerateJWT(secret, "user_42", time.Hour)
	require.NoError(t, err)
	expired, err := GenerateJWT(secret, "user_42", -time.Minute)
	require.NoError(t, err)

	tests := []struct {
		name   string
		secret []byte
		token  string
	}{
		{"wrong secret", []byte("other"), good},
		{"expired", secret, expired},
		{"garbage", secret, "not.a.token"},
		{"empty", secret, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateJWT(tt.secret, tt.token)
			assert.Error(t, err)
		})
	}
}

func TestGenerateJWT_EmptyUser(t *testing.T) {
	_, err := GenerateJWT(secret, "", time.Hour)
	assert.Error(t, err)
}
