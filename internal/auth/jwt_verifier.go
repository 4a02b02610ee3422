package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"

	"later/internal/domain"
)

// allowedAlgorithms prevents algorithm confusion attacks
var allowedAlgorithms = []string{"RS256", "ES256"}

// SupabaseJWTVerifier implements JWTVerifier using JWKS from Supabase.
type SupabaseJWTVerifier struct {
	keyfunc jwt.Keyfunc
	logger  *slog.Logger
}

// NewJWTVerifier creates a verifier that fetches public keys from Supabase's
// JWKS endpoint. keyfunc caches the keys and refreshes them in the background
// until ctx is cancelled.
func NewJWTVerifier(ctx context.Context, jwksURL string, logger *slog.Logger) (JWTVerifier, error) {
	if jwksURL == "" {
		return nil, errors.New("JWKS URL cannot be empty")
	}

	jwks, err := keyfunc.NewDefaultCtx(ctx, []string{jwksURL})
	if err != nil {
		return nil, fmt.Errorf("failed to create JWKS client: %w", err)
	}

	logger.Info("JWT verifier initialized", "jwks_url", jwksURL)
	return newVerifier(jwks.Keyfunc, logger), nil
}

func newVerifier(kf jwt.Keyfunc, logger *slog.Logger) *SupabaseJWTVerifier {
	return &SupabaseJWTVerifier{keyfunc: kf, logger: logger}
}

// VerifyToken validates a JWT token and extracts Supabase claims.
func (v *SupabaseJWTVerifier) VerifyToken(tokenString string) (*SupabaseClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SupabaseClaims{}, v.keyfunc,
		jwt.WithValidMethods(allowedAlgorithms),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		v.logger.Debug("token parse failed", "error", err)
		return nil, domain.ErrUnauthorized
	}

	claims, ok := token.Claims.(*SupabaseClaims)
	if !ok || !token.Valid {
		v.logger.Warn("token claims could not be extracted")
		return nil, domain.ErrUnauthorized
	}

	if claims.Subject == "" {
		v.logger.Debug("token missing subject claim")
		return nil, domain.ErrUnauthorized
	}

	// Reject anonymous sessions; workspaces need a stable owner
	if claims.Role != "authenticated" || claims.IsAnonymous {
		v.logger.Info("token rejected",
			"role", claims.Role,
			"is_anonymous", claims.IsAnonymous,
			"user_id", claims.Subject,
		)
		return nil, domain.ErrUnauthorized
	}

	return claims, nil
}

// Close is a no-op: the JWKS refresh goroutine stops with the context
// passed to NewJWTVerifier.
func (v *SupabaseJWTVerifier) Close() error {
	v.logger.Info("JWT verifier closed")
	return nil
}
