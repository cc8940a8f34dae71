package middleware

import (
	"context"
	"net/http"
	"strings"

	"learnhub/internal/model"
	"learnhub/internal/service"
)

type tokenVerifier interface {
	Verify(tokenString string, kind service.TokenKind) (string, error)
}

type sessionReader interface {
	Get(ctx context.Context, userID string) (*model.User, error)
}

type contextKey string

const userContextKey contextKey = "auth_user"

// AccessTokenCookie carries the access token; the Authorization header
// is accepted as a fallback but the cookie wins.
const AccessTokenCookie = "access_token"

type AuthMiddleware struct {
	tokens   tokenVerifier
	sessions sessionReader
}

func NewAuthMiddleware(tokens tokenVerifier, sessions sessionReader) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, sessions: sessions}
}

// RequireAuth gates the request on a valid access token AND a live
// session. A cryptographically valid token whose session is gone (for
// example after logout) does not pass.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractToken(r)
		if token == "" {
			writeAuthError(w, http.StatusUnauthorized, "please login to access this resource")
			return
		}

		userID, err := m.tokens.Verify(token, service.AccessToken)
		if err != nil {
			writeAuthError(w, http.StatusUnauthorized, "access token is not valid")
			return
		}

		user, err := m.sessions.Get(r.Context(), userID)
		if err != nil {
			writeAuthError(w, http.StatusInternalServerError, "session lookup failed")
			return
		}
		if user == nil {
			writeAuthError(w, http.StatusBadRequest, "user not found")
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *AuthMiddleware) RequireRoles(allowedRoles ...model.Role) func(http.Handler) http.Handler {
	roleSet := map[model.Role]struct{}{}
	for _, role := range allowedRoles {
		roleSet[role] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFromContext(r.Context())
			if !ok {
				writeAuthError(w, http.StatusUnauthorized, "please login to access this resource")
				return
			}

			if _, allowed := roleSet[user.Role]; !allowed {
				writeAuthError(w, http.StatusForbidden, "role "+string(user.Role)+" is not allowed to access this resource")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func UserFromContext(ctx context.Context) (*model.User, bool) {
	user, ok := ctx.Value(userContextKey).(*model.User)
	return user, ok
}

func extractToken(r *http.Request) string {
	if cookie, err := r.Cookie(AccessTokenCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header != "" && strings.HasPrefix(strings.ToLower(header), "bearer ") {
		return strings.TrimSpace(header[7:])
	}

	return ""
}

func writeAuthError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = jsonEncode(w, model.APIResponse{Success: false, Message: message})
}
