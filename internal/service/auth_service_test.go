package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginAndValidate(t *testing.T) {
	svc := NewAuthService("operator", "secret-pass", "jwt-secret")

	resp, err := svc.Login("operator", "secret-pass")
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.True(t, strings.HasPrefix(resp.OperatorID, "op_"))

	claims, err := svc.ValidateOperatorToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.OperatorID, claims.OperatorID)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := NewAuthService("operator", "secret-pass", "jwt-secret")

	_, err := svc.Login("operator", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login("intruder", "secret-pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestValidateRejectsForeignToken(t *testing.T) {
	issuer := NewAuthService("operator", "secret-pass", "jwt-secret")
	verifier := NewAuthService("operator", "secret-pass", "other-secret")

	resp, err := issuer.Login("operator", "secret-pass")
	require.NoError(t, err)

	_, err = verifier.ValidateOperatorToken(resp.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateRejectsGarbageToken(t *testing.T) {
	svc := NewAuthService("operator", "secret-pass", "jwt-secret")
	_, err := svc.ValidateOperatorToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
