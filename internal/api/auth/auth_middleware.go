package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/carelink/carelink/app/observability/metrics"
	"github.com/carelink/carelink/config"
	"github.com/carelink/carelink/internal/api"
	"github.com/carelink/carelink/internal/types"
)

// Typed context key for the resolved session.
type contextKey string

const sessionKey contextKey = "session"

// GetSessionFromContext returns the session stored by Authenticate.
func GetSessionFromContext(ctx context.Context) (*types.Session, bool) {
	session, ok := ctx.Value(sessionKey).(*types.Session)
	return session, ok
}

// VerifyToken parses and validates an HS256 access token. Only the HMAC
// family is accepted, so a token re-signed with "none" or an asymmetric
// algorithm fails before any claim is read. Failures map onto the sentinel
// taxonomy in types so callers can distinguish them with errors.Is.
func VerifyToken(tokenString string, jwtCfg config.JWTConfig) (*types.Claims, error) {
	if tokenString == "" {
		return nil, types.ErrMissingToken
	}

	claims := &types.Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(jwtCfg.SecretKey), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, types.ErrMalformedToken
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, types.ErrTokenExpired
		default:
			// Signature mismatches and rejected algorithms land here.
			return nil, types.ErrInvalidSignature
		}
	}

	if jwtCfg.Issuer != "" && claims.Issuer != jwtCfg.Issuer {
		return nil, types.ErrInvalidSignature
	}
	return claims, nil
}

// Authenticate validates the bearer token and resolves the live account
// behind it. The token is only proof of identity; role and status are read
// fresh from the database on every request, so disabling an account or
// changing a role takes effect immediately without waiting for expiry.
func Authenticate(logger *slog.Logger, repo Repository, jwtCfg config.JWTConfig) func(next http.Handler) http.Handler {
	if jwtCfg.SecretKey == "" {
		logger.Error("FATAL: JWT Secret Key is not configured!")
		panic("JWT Secret Key cannot be empty")
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			l := logger.With(slog.String("middleware", "Authenticate"))

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				l.WarnContext(ctx, "Missing Authorization header")
				api.ErrorResponse(w, r, http.StatusUnauthorized, "Authorization header required")
				return
			}

			headerParts := strings.Split(authHeader, " ")
			if len(headerParts) != 2 || strings.ToLower(headerParts[0]) != "bearer" {
				l.WarnContext(ctx, "Invalid Authorization header format")
				api.ErrorResponse(w, r, http.StatusUnauthorized, "Authorization header format must be Bearer {token}")
				return
			}

			claims, err := VerifyToken(headerParts[1], jwtCfg)
			if err != nil {
				l.WarnContext(ctx, "Token validation failed", slog.Any("error", err))
				api.ErrorResponse(w, r, http.StatusUnauthorized, tokenErrorMessage(err))
				return
			}

			user, err := repo.GetUserForAuth(ctx, claims.Email)
			if err != nil {
				if errors.Is(err, types.ErrNotFound) {
					l.WarnContext(ctx, "Token subject no longer exists", slog.String("email", claims.Email))
					metrics.Get().SessionResolutionDenied.Add(ctx, 1,
						metric.WithAttributes(attribute.String("reason", "user_not_found")))
					api.ErrorResponse(w, r, http.StatusUnauthorized, "User not found")
					return
				}
				l.ErrorContext(ctx, "Session resolution query failed", slog.Any("error", err))
				api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to resolve session")
				return
			}

			if user.IsDisabled || user.IsDeleted {
				l.WarnContext(ctx, "Unavailable account presented a valid token",
					slog.String("userID", user.ID.String()),
					slog.Bool("disabled", user.IsDisabled),
					slog.Bool("deleted", user.IsDeleted))
				metrics.Get().SessionResolutionDenied.Add(ctx, 1,
					metric.WithAttributes(attribute.String("reason", "account_unavailable")))
				api.ErrorResponse(w, r, http.StatusUnauthorized, "Account is disabled or deleted")
				return
			}

			session := &types.Session{
				UserID:          user.ID,
				Email:           user.Email,
				FirstName:       user.FirstName,
				LastName:        user.LastName,
				Role:            user.Role,
				IsEmailVerified: user.IsEmailVerified,
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(ctx, sessionKey, session)))
		})
	}
}

// RequireRole gates a route on the live role of the resolved session.
func RequireRole(logger *slog.Logger, role string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			l := logger.With(slog.String("middleware", "RequireRole"))

			session, ok := GetSessionFromContext(ctx)
			if !ok {
				l.ErrorContext(ctx, "Session missing from context, Authenticate must run first")
				api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
				return
			}

			if session.Role != role {
				l.WarnContext(ctx, "Insufficient role",
					slog.String("userID", session.UserID.String()),
					slog.String("have", session.Role),
					slog.String("want", role))
				api.ErrorResponse(w, r, http.StatusForbidden, "Admin privileges required")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func tokenErrorMessage(err error) string {
	switch {
	case errors.Is(err, types.ErrMissingToken):
		return "Authorization token required"
	case errors.Is(err, types.ErrTokenExpired):
		return "Token has expired"
	case errors.Is(err, types.ErrMalformedToken):
		return "Malformed token"
	case errors.Is(err, types.ErrInvalidSignature):
		return "Invalid token signature"
	default:
		return "Invalid or expired token"
	}
}
