package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/flicky/gourmethub-api/internal/dto"
	"github.com/flicky/gourmethub-api/internal/model"
)

const (
	userIDKey    = "userID"
	userRoleKey  = "userRole"
	userEmailKey = "userEmail"
	userNameKey  = "userName"
)

var errNoToken = errors.New("missing bearer token")

type identity struct {
	id    uuid.UUID
	role  model.Role
	email string
	name  string
}

func parseToken(header, secret string) (*identity, error) {
	if !strings.HasPrefix(header, "Bearer ") {
		return nil, errNoToken
	}

	token, err := jwt.Parse(header[7:], func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, jwt.ErrTokenInvalidClaims
	}

	sub, _ := claims["sub"].(string)
	userID, err := uuid.Parse(sub)
	if err != nil {
		return nil, jwt.ErrTokenInvalidSubject
	}

	role, _ := claims["role"].(string)
	email, _ := claims["email"].(string)
	name, _ := claims["name"].(string)
	return &identity{id: userID, role: model.Role(role), email: email, name: name}, nil
}

func (id *identity) set(c *gin.Context) {
	c.Set(userIDKey, id.id)
	c.Set(userRoleKey, id.role)
	c.Set(userEmailKey, id.email)
	c.Set(userNameKey, id.name)
}

func abort(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, dto.Envelope{Success: false, Error: msg})
}

// AuthMiddleware rejects requests without a valid bearer token.
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := parseToken(c.GetHeader("Authorization"), secret)
		if err != nil {
			if errors.Is(err, errNoToken) {
				abort(c, http.StatusUnauthorized, "Not authorized, no token")
				return
			}
			abort(c, http.StatusUnauthorized, "Not authorized, token failed")
			return
		}
		id.set(c)
		c.Next()
	}
}

// OptionalAuth identifies the caller when a valid token is present and lets
// anonymous requests through otherwise.
func OptionalAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if id, err := parseToken(c.GetHeader("Authorization"), secret); err == nil {
			id.set(c)
		}
		c.Next()
	}
}

// RedirectAnonymous sends callers without an identity to loginPath with 303.
// It must run after OptionalAuth.
func RedirectAnonymous(loginPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetUserID(c) == uuid.Nil {
			c.Redirect(http.StatusSeeOther, loginPath)
			c.Abort()
			return
		}
		c.Next()
	}
}

func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetUserRole(c) != model.RoleAdmin {
			abort(c, http.StatusForbidden, "Not authorized as an admin")
			return
		}
		c.Next()
	}
}

func GetUserID(c *gin.Context) uuid.UUID {
	id, _ := c.Get(userIDKey)
	uid, _ := id.(uuid.UUID)
	return uid
}

func GetUserRole(c *gin.Context) model.Role {
	role, _ := c.Get(userRoleKey)
	r, _ := role.(model.Role)
	return r
}

func GetUserEmail(c *gin.Context) string {
	return c.GetString(userEmailKey)
}

func GetUserName(c *gin.Context) string {
	return c.GetString(userNameKey)
}
