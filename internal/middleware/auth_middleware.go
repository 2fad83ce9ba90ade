package middleware

import (
	"errors"
	"strings"
	"time"

	apperrors "github.com/avlawson/candyshop-backend/internal/errors"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// AuthMiddleware guards the admin console routes. The shop runs with a
// single operator account, so claims carry only a subject and expiry.
type AuthMiddleware struct {
	jwtSecret string
}

func NewAuthMiddleware(jwtSecret string) *AuthMiddleware {
	return &AuthMiddleware{jwtSecret: jwtSecret}
}

// AdminClaims are the JWT claims issued on admin login.
type AdminClaims struct {
	jwt.RegisteredClaims
}

// IssueAdminToken creates a signed admin session token.
func IssueAdminToken(jwtSecret string, expiry time.Duration) (string, error) {
	claims := AdminClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "admin",
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiry)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(jwtSecret))
}

// Authenticate validates the bearer token on admin routes.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			log.Warn("Missing or malformed Authorization header", nil)
			apperrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(header, "Bearer ")

		claims := &AdminClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return []byte(m.jwtSecret), nil
		})

		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				log.Warn("Admin token expired", nil)
				apperrors.RespondWithError(c, 401, apperrors.AuthTokenExpired, "Session expired, please log in again")
			} else {
				log.Warn("Invalid admin token", map[string]interface{}{
					"error": err.Error(),
				})
				apperrors.RespondWithError(c, 401, apperrors.AuthTokenInvalid, "Invalid session token")
			}
			c.Abort()
			return
		}

		if !token.Valid || claims.Subject != "admin" {
			log.Warn("Admin token validation failed", nil)
			apperrors.RespondWithError(c, 401, apperrors.AuthTokenInvalid, "Invalid session token")
			c.Abort()
			return
		}

		c.Set("is_admin", true)
		c.Next()
	}
}

// IsAdmin reports whether the request passed admin authentication.
func IsAdmin(c *gin.Context) bool {
	v, exists := c.Get("is_admin")
	if !exists {
		return false
	}
	b, ok := v.(bool)
	return ok && b
}
