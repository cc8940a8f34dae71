package service

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"learnhub/internal/model"
)

func newTestTokenService(t *testing.T) *TokenService {
	t.Helper()

	tokens, err := NewTokenService(
		"access-secret", "refresh-secret", "activation-secret",
		30*time.Minute, 7*24*time.Hour, 5*time.Minute,
	)
	require.NoError(t, err)
	return tokens
}

func TestTokenService(t *testing.T) {
	t.Parallel()

	t.Run("access token verifies under its own secret", func(t *testing.T) {
		tokens := newTestTokenService(t)

		minted, err := tokens.MintAccessToken("user-1")
		require.NoError(t, err)

		userID, err := tokens.Verify(minted, AccessToken)
		require.NoError(t, err)
		require.Equal(t, "user-1", userID)
	})

	t.Run("token of one kind never verifies as another", func(t *testing.T) {
		tokens := newTestTokenService(t)

		access, err := tokens.MintAccessToken("user-1")
		require.NoError(t, err)
		refresh, err := tokens.MintRefreshToken("user-1")
		require.NoError(t, err)

		_, err = tokens.Verify(access, RefreshToken)
		require.ErrorIs(t, err, model.ErrInvalidToken)

		_, err = tokens.Verify(refresh, AccessToken)
		require.ErrorIs(t, err, model.ErrInvalidToken)
	})

	t.Run("expired token is rejected", func(t *testing.T) {
		tokens, err := NewTokenService(
			"access-secret", "refresh-secret", "activation-secret",
			-time.Minute, 7*24*time.Hour, 5*time.Minute,
		)
		require.NoError(t, err)

		minted, err := tokens.MintAccessToken("user-1")
		require.NoError(t, err)

		_, err = tokens.Verify(minted, AccessToken)
		require.ErrorIs(t, err, model.ErrInvalidToken)
	})

	t.Run("garbage token is rejected", func(t *testing.T) {
		tokens := newTestTokenService(t)

		_, err := tokens.Verify("not-a-jwt", AccessToken)
		require.ErrorIs(t, err, model.ErrInvalidToken)
	})

	t.Run("empty secret fails at construction", func(t *testing.T) {
		_, err := NewTokenService("", "refresh", "activation", time.Minute, time.Minute, time.Minute)
		require.Error(t, err)
	})
}

func TestActivationToken(t *testing.T) {
	t.Parallel()

	pending := model.PendingUser{Name: "Ada", Email: "ada@example.com", Password: "hashed"}

	t.Run("round trip with the mailed code", func(t *testing.T) {
		tokens := newTestTokenService(t)

		minted, code, err := tokens.MintActivationToken(pending)
		require.NoError(t, err)

		got, err := tokens.VerifyActivation(minted, code)
		require.NoError(t, err)
		require.Equal(t, pending, *got)
	})

	t.Run("code is always four digits", func(t *testing.T) {
		tokens := newTestTokenService(t)

		for i := 0; i < 200; i++ {
			_, code, err := tokens.MintActivationToken(pending)
			require.NoError(t, err)

			n, err := strconv.Atoi(code)
			require.NoError(t, err)
			require.GreaterOrEqual(t, n, 1000)
			require.LessOrEqual(t, n, 9999)
		}
	})

	t.Run("wrong code is rejected", func(t *testing.T) {
		tokens := newTestTokenService(t)

		minted, code, err := tokens.MintActivationToken(pending)
		require.NoError(t, err)

		wrong := "1000"
		if code == wrong {
			wrong = "1001"
		}

		_, err = tokens.VerifyActivation(minted, wrong)
		require.ErrorIs(t, err, model.ErrInvalidToken)
	})

	t.Run("expired token is rejected even with the correct code", func(t *testing.T) {
		tokens, err := NewTokenService(
			"access-secret", "refresh-secret", "activation-secret",
			30*time.Minute, 7*24*time.Hour, -time.Minute,
		)
		require.NoError(t, err)

		minted, code, err := tokens.MintActivationToken(pending)
		require.NoError(t, err)

		_, err = tokens.VerifyActivation(minted, code)
		require.ErrorIs(t, err, model.ErrInvalidToken)
	})
}
