package identity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestVerify_RoundTrip(t *testing.T) {
	verifier := NewVerifier("test-secret")

	token, err := verifier.Issue("buyer-42", "northwind", time.Hour)
	require.NoError(t, err)

	claims, err := verifier.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "buyer-42", claims.UserID)
	require.Equal(t, "northwind", claims.Tenant)
}

func TestVerify_EmptyToken(t *testing.T) {
	verifier := NewVerifier("test-secret")

	_, err := verifier.Verify("")
	require.ErrorIs(t, err, ErrEmptyToken)
}

func TestVerify_WrongSecret(t *testing.T) {
	issuer := NewVerifier("secret-a")
	verifier := NewVerifier("secret-b")

	token, err := issuer.Issue("buyer-42", "", time.Hour)
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_ExpiredToken(t *testing.T) {
	verifier := NewVerifier("test-secret")

	token, err := verifier.Issue("buyer-42", "", -time.Minute)
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_Garbage(t *testing.T) {
	verifier := NewVerifier("test-secret")

	_, err := verifier.Verify("not.a.jwt")
	require.ErrorIs(t, err, ErrInvalidToken)
}
