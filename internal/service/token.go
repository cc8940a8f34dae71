package service

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"learnhub/internal/model"
)

// TokenKind names one of the three token families. Each kind is signed
// with its own secret, so a token of one kind never verifies as
// another.
type TokenKind string

const (
	AccessToken     TokenKind = "access"
	RefreshToken    TokenKind = "refresh"
	ActivationToken TokenKind = "activation"
)

// Claims is the payload of access and refresh tokens. The user id
// rides in the registered sub claim.
type Claims struct {
	jwt.RegisteredClaims
}

type activationClaims struct {
	User model.PendingUser `json:"user"`
	Code string            `json:"code"`
	jwt.RegisteredClaims
}

// TokenService mints and verifies the three token kinds. TTLs are
// injected so callers control expiry policy.
type TokenService struct {
	secrets       map[TokenKind][]byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	activationTTL time.Duration
}

func NewTokenService(
	accessSecret, refreshSecret, activationSecret string,
	accessTTL, refreshTTL, activationTTL time.Duration,
) (*TokenService, error) {
	if accessSecret == "" || refreshSecret == "" || activationSecret == "" {
		return nil, errors.New("token secrets must not be empty")
	}

	return &TokenService{
		secrets: map[TokenKind][]byte{
			AccessToken:     []byte(accessSecret),
			RefreshToken:    []byte(refreshSecret),
			ActivationToken: []byte(activationSecret),
		},
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		activationTTL: activationTTL,
	}, nil
}

func (s *TokenService) AccessTTL() time.Duration  { return s.accessTTL }
func (s *TokenService) RefreshTTL() time.Duration { return s.refreshTTL }

func (s *TokenService) MintAccessToken(userID string) (string, error) {
	return s.mint(AccessToken, userID, s.accessTTL)
}

func (s *TokenService) MintRefreshToken(userID string) (string, error) {
	return s.mint(RefreshToken, userID, s.refreshTTL)
}

func (s *TokenService) mint(kind TokenKind, userID string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secrets[kind])
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", kind, err)
	}

	return signed, nil
}

// Verify parses the token against the secret for kind and returns the
// subject user id. Any parse, signature or expiry failure surfaces as
// ErrInvalidToken.
func (s *TokenService) Verify(tokenString string, kind TokenKind) (string, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(
		tokenString,
		&claims,
		func(*jwt.Token) (any, error) { return s.secrets[kind], nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil || !token.Valid {
		return "", model.ErrInvalidToken
	}
	if claims.Subject == "" {
		return "", model.ErrInvalidToken
	}

	return claims.Subject, nil
}

// MintActivationToken wraps the pending registration together with a
// fresh 4-digit code the user receives by mail. The account only
// becomes durable once the code presented back matches.
func (s *TokenService) MintActivationToken(user model.PendingUser) (token string, code string, err error) {
	code, err = activationCode()
	if err != nil {
		return "", "", err
	}

	now := time.Now()
	claims := activationClaims{
		User: user,
		Code: code,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.activationTTL)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
		SignedString(s.secrets[ActivationToken])
	if err != nil {
		return "", "", fmt.Errorf("sign activation token: %w", err)
	}

	return signed, code, nil
}

// VerifyActivation checks the token and compares the embedded code
// against the one the user typed.
func (s *TokenService) VerifyActivation(tokenString, code string) (*model.PendingUser, error) {
	var claims activationClaims
	token, err := jwt.ParseWithClaims(
		tokenString,
		&claims,
		func(*jwt.Token) (any, error) { return s.secrets[ActivationToken], nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil || !token.Valid {
		return nil, model.ErrInvalidToken
	}
	if claims.Code != code {
		return nil, model.ErrInvalidToken
	}

	return &claims.User, nil
}

// activationCode draws a uniform 4-digit code in [1000, 9999].
func activationCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(9000))
	if err != nil {
		return "", fmt.Errorf("generate activation code: %w", err)
	}
	return fmt.Sprintf("%d", n.Int64()+1000), nil
}
