package middleware

// identity.go holds the helper the rate limiter uses to key buckets per
// authenticated user.  JWTAuth stores the subject claim under "user_id";
// unauthenticated requests fall back to "anon" so guests share an
// IP-scoped bucket.

import (
	"fmt"

	"github.com/labstack/echo/v4"
)

// currentUserID returns a string form of the authenticated user ID, or
// "anon" when the request carries no valid token.  The subject claim is
// numeric when minted by this service but may arrive as a string, so
// both are accepted.
func currentUserID(c echo.Context) string {
	switch v := c.Get("user_id").(type) {
	case string:
		if v != "" {
			return v
		}
	case float64:
		return fmt.Sprintf("%.0f", v)
	case uint64:
		return fmt.Sprintf("%d", v)
	}
	return "anon"
}
