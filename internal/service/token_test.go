package service

import (
	"errors"
	"net/http"
	"testing"
	"time"

	apperrors "github.com/Payphone-Digital/contacts-api/internal/errors"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTokenServiceRejectsNonHMAC(t *testing.T) {
	_, err := NewTokenService(TokenConfig{Secret: "s", Algorithm: "RS256"})
	assert.Error(t, err)

	_, err = NewTokenService(TokenConfig{Secret: "", Algorithm: "HS256"})
	assert.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	s := newTestTokens(t)

	hashed, err := s.HashPassword("s3cret!")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret!", hashed)
	assert.True(t, s.VerifyPassword("s3cret!", hashed))
	assert.False(t, s.VerifyPassword("wrong", hashed))
}

func TestAccessTokenRoundTrip(t *testing.T) {
	s := newTestTokens(t)

	token, err := s.CreateAccessToken("ann@example.com", 0)
	require.NoError(t, err)

	email, err := s.DecodeAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", email)
}

func TestTokenClaimsCarryScopeAndExpiry(t *testing.T) {
	s := newTestTokens(t)
	issued := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return issued }

	token, err := s.CreateRefreshToken("ann@example.com", 0)
	require.NoError(t, err)

	claims := &TokenClaims{}
	_, _, err = jwt.NewParser().ParseUnverified(token, claims)
	require.NoError(t, err)

	assert.Equal(t, ScopeRefreshToken, claims.Scope)
	assert.True(t, claims.ExpiresAt.Time.Equal(issued.Add(7*24*time.Hour)))
	assert.True(t, claims.IssuedAt.Time.Equal(issued))
}

func TestScopeConfusionIsRejected(t *testing.T) {
	s := newTestTokens(t)

	access, err := s.CreateAccessToken("ann@example.com", 0)
	require.NoError(t, err)
	refresh, err := s.CreateRefreshToken("ann@example.com", 0)
	require.NoError(t, err)
	email, err := s.CreateEmailToken("ann@example.com")
	require.NoError(t, err)

	_, err = s.DecodeRefreshToken(access)
	assert.ErrorIs(t, err, apperrors.ErrInvalidScope)
	assert.Equal(t, "Invalid scope for token", apperrors.GetErrorMessage(err))

	_, err = s.DecodeAccessToken(refresh)
	assert.ErrorIs(t, err, apperrors.ErrCouldNotValidate)

	_, err = s.DecodeAccessToken(email)
	assert.ErrorIs(t, err, apperrors.ErrCouldNotValidate)

	_, err = s.GetEmailFromToken(access)
	assert.ErrorIs(t, err, apperrors.ErrInvalidEmailToken)
	assert.Equal(t, http.StatusUnprocessableEntity, apperrors.ToHTTPStatus(err))

	_, err = s.GetEmailFromToken(refresh)
	assert.ErrorIs(t, err, apperrors.ErrInvalidEmailToken)

	subject, err := s.GetEmailFromToken(email)
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", subject)

	subject, err = s.DecodeRefreshToken(refresh)
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", subject)
}

func TestExpiredTokenFails(t *testing.T) {
	s := newTestTokens(t)

	token, err := s.CreateAccessToken("ann@example.com", -time.Minute)
	require.NoError(t, err)

	_, err = s.DecodeAccessToken(token)
	assert.ErrorIs(t, err, apperrors.ErrCouldNotValidate)
	assert.True(t, errors.Is(err, jwt.ErrTokenExpired))

	refresh, err := s.CreateRefreshToken("ann@example.com", -time.Minute)
	require.NoError(t, err)
	_, err = s.DecodeRefreshToken(refresh)
	assert.ErrorIs(t, err, apperrors.ErrCouldNotValidate)
}

func TestForeignSignatureAndAlgorithmFail(t *testing.T) {
	s := newTestTokens(t)

	other, err := NewTokenService(TokenConfig{Secret: "another-secret", Algorithm: "HS256"})
	require.NoError(t, err)
	forged, err := other.CreateAccessToken("ann@example.com", 0)
	require.NoError(t, err)
	_, err = s.DecodeAccessToken(forged)
	assert.ErrorIs(t, err, apperrors.ErrCouldNotValidate)

	hs512, err := NewTokenService(TokenConfig{Secret: "test-secret", Algorithm: "HS512"})
	require.NoError(t, err)
	wrongAlg, err := hs512.CreateAccessToken("ann@example.com", 0)
	require.NoError(t, err)
	_, err = s.DecodeAccessToken(wrongAlg)
	assert.ErrorIs(t, err, apperrors.ErrCouldNotValidate)

	_, err = s.DecodeAccessToken("not-a-jwt")
	assert.ErrorIs(t, err, apperrors.ErrCouldNotValidate)
}

func TestTokenDigest(t *testing.T) {
	d := tokenDigest("abc")
	assert.Len(t, d, 64)
	assert.Equal(t, d, tokenDigest("abc"))
	assert.NotEqual(t, d, tokenDigest("abd"))
}
