package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const userIDKey = "userID"

// Claims carries the authenticated user id in the token subject.
type Claims struct {
	jwt.RegisteredClaims
}

// RequireUser verifies the Bearer token and stores the user id on the gin
// context. Requests without a valid token are rejected.
func RequireUser(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, ok := userFromHeader(c, jwtSecret)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid token"})
			return
		}
		c.Set(userIDKey, uid)
		c.Next()
	}
}

// OptionalUser resolves the user id when a valid token is present and lets
// the request through either way. Handlers treat "no current user" as a
// valid state producing empty output.
func OptionalUser(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if uid, ok := userFromHeader(c, jwtSecret); ok {
			c.Set(userIDKey, uid)
		}
		c.Next()
	}
}

// UserID returns the authenticated user id, or "" when the request carried
// no valid token.
func UserID(c *gin.Context) string {
	v, ok := c.Get(userIDKey)
	if !ok {
		return ""
	}
	uid, _ := v.(string)
	return uid
}

func userFromHeader(c *gin.Context, jwtSecret string) (string, bool) {
	h := c.GetHeader("Authorization")
	if h == "" || !strings.HasPrefix(h, "Bearer ") {
		return "", false
	}
	tokenStr := strings.TrimPrefix(h, "Bearer ")
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return "", false
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || claims.Subject == "" {
		return "", false
	}
	return claims.Subject, true
}
