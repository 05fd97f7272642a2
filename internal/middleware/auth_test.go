package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flicky/gourmethub-api/internal/dto"
	"github.com/flicky/gourmethub-api/internal/model"
)

const testSecret = "test-secret"

func init() { gin.SetMode(gin.TestMode) }

func signToken(t *testing.T, secret string, userID uuid.UUID, role model.Role, exp time.Time) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   userID.String(),
		"email": "jane@example.com",
		"name":  "Jane",
		"role":  string(role),
		"exp":   exp.Unix(),
		"iat":   time.Now().Unix(),
	}).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func newRouter(mw ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	handlers := append(mw, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"id":    GetUserID(c).String(),
			"role":  GetUserRole(c),
			"email": GetUserEmail(c),
			"name":  GetUserName(c),
		})
	})
	r.GET("/", handlers...)
	return r
}

func do(r http.Handler, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	r := newRouter(AuthMiddleware(testSecret))
	user := uuid.New()

	w := do(r, signToken(t, testSecret, user, model.RoleUser, time.Now().Add(time.Hour)))
	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, user.String(), body["id"])
	assert.Equal(t, "user", body["role"])
	assert.Equal(t, "jane@example.com", body["email"])
	assert.Equal(t, "Jane", body["name"])
}

func TestAuthMiddleware_Rejects(t *testing.T) {
	r := newRouter(AuthMiddleware(testSecret))
	user := uuid.New()

	tests := []struct {
		name  string
		token string
		msg   string
	}{
		{"missing", "", "Not authorized, no token"},
		{"wrong secret", signToken(t, "other", user, model.RoleUser, time.Now().Add(time.Hour)), "Not authorized, token failed"},
		{"expired", signToken(t, testSecret, user, model.RoleUser, time.Now().Add(-time.Hour)), "Not authorized, token failed"},
		{"garbage", "not-a-jwt", "Not authorized, token failed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(r, tt.token)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			var env dto.Envelope
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
			assert.False(t, env.Success)
			assert.Equal(t, tt.msg, env.Error)
		})
	}
}

func TestAdminOnly(t *testing.T) {
	r := newRouter(AuthMiddleware(testSecret), AdminOnly())

	w := do(r, signToken(t, testSecret, uuid.New(), model.RoleUser, time.Now().Add(time.Hour)))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = do(r, signToken(t, testSecret, uuid.New(), model.RoleAdmin, time.Now().Add(time.Hour)))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestOptionalAuthAndRedirect(t *testing.T) {
	r := newRouter(OptionalAuth(testSecret), RedirectAnonymous("/login?callbackUrl=/checkout"))

	w := do(r, "")
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login?callbackUrl=/checkout", w.Header().Get("Location"))

	w = do(r, "bogus")
	assert.Equal(t, http.StatusSeeOther, w.Code)

	w = do(r, signToken(t, testSecret, uuid.New(), model.RoleUser, time.Now().Add(time.Hour)))
	assert.Equal(t, http.StatusOK, w.Code)
}
