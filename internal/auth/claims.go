package auth

import "github.com/golang-jwt/jwt/v5"

// SupabaseClaims represents the JWT claims structure from Supabase Auth.
// See: https://supabase.com/docs/guides/auth/jwts
type SupabaseClaims struct {
	jwt.RegisteredClaims
	Email       string                 `json:"email"`
	Role        string                 `json:"role"` // "authenticated" or "anon"
	AAL         string                 `json:"aal"`  // "aal1" or "aal2"
	SessionID   string                 `json:"session_id"`
	IsAnonymous bool                   `json:"is_anonymous"`
	AppMetadata map[string]interface{} `json:"app_metadata,omitempty"`
}

// GetUserID returns the user ID from the JWT subject claim.
// Workspaces are owned by this id.
func (c *SupabaseClaims) GetUserID() string {
	return c.Subject
}
