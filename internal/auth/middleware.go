package auth

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/signgroup/workshop-api/internal/domain"
)

// UserSource loads user records for authenticated requests
type UserSource interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

// Middleware handles authentication for HTTP requests
type Middleware struct {
	tokens *TokenManager
	users  UserSource
	logger *zap.Logger
}

// NewMiddleware creates a new authentication middleware
func NewMiddleware(tokens *TokenManager, users UserSource, logger *zap.Logger) *Middleware {
	return &Middleware{
		tokens: tokens,
		users:  users,
		logger: logger,
	}
}

// Authenticate validates the Bearer token and loads the user record
// into the request context. Deactivated accounts are rejected even
// with a valid token.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "Unauthorized: missing authorization header", http.StatusUnauthorized)
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			http.Error(w, "Unauthorized: invalid authorization header format", http.StatusUnauthorized)
			return
		}

		userID, err := m.tokens.Validate(parts[1])
		if err != nil {
			m.logger.Warn("token validation failed",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("remote_addr", r.RemoteAddr),
				zap.Error(err),
			)
			http.Error(w, "Unauthorized: "+err.Error(), http.StatusUnauthorized)
			return
		}

		user, err := m.users.GetByID(r.Context(), userID)
		if err != nil {
			m.logger.Warn("token user lookup failed",
				zap.String("user_id", userID.String()),
				zap.Error(err),
			)
			http.Error(w, "Unauthorized: unknown user", http.StatusUnauthorized)
			return
		}
		if !user.IsActive {
			http.Error(w, "Unauthorized: account disabled", http.StatusUnauthorized)
			return
		}

		userCtx := NewUserContext(user)

		m.logger.Debug("request authenticated",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("user_id", userCtx.UserID.String()),
			zap.String("user_email", userCtx.Email),
			zap.Duration("auth_duration", time.Since(start)),
		)

		ctx := WithUserContext(r.Context(), userCtx)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
