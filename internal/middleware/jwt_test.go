package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/garden-network-api/internal/models"
	"github.com/noah-isme/garden-network-api/internal/service"
)

func protectedRouter(authSvc *service.AuthService, extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handlers := append([]gin.HandlerFunc{JWT(authSvc)}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		claims, _ := CurrentClaims(c)
		c.JSON(http.StatusOK, gin.H{"classroom_id": claims.ClassroomID})
	})
	router.GET("/protected", handlers...)
	return router
}

func issueToken(t *testing.T, secret string, role models.UserRole) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, models.NetworkClaims{
		TeacherID:   "teacher-1",
		ClassroomID: "class-a",
		Role:        role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestJWTMiddleware(t *testing.T) {
	authSvc := service.NewAuthService(service.AuthConfig{AccessTokenSecret: "secret"}, nil)
	router := protectedRouter(authSvc)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, "secret", models.RoleTeacher))
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "class-a")
}

func TestJWTMiddlewareMissingHeader(t *testing.T) {
	authSvc := service.NewAuthService(service.AuthConfig{AccessTokenSecret: "secret"}, nil)
	router := protectedRouter(authSvc)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTMiddlewareMalformedHeader(t *testing.T) {
	authSvc := service.NewAuthService(service.AuthConfig{AccessTokenSecret: "secret"}, nil)
	router := protectedRouter(authSvc)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Token abc")
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireRole(t *testing.T) {
	authSvc := service.NewAuthService(service.AuthConfig{AccessTokenSecret: "secret"}, nil)
	router := protectedRouter(authSvc, RequireRole(models.RolePlatformAdmin))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, "secret", models.RoleTeacher))
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusForbidden, w.Code)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, "secret", models.RolePlatformAdmin))
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
}
