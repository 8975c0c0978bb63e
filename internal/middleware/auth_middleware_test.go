package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/demir/enrollpass/internal/app/models"
	"github.com/demir/enrollpass/internal/app/services"
	"github.com/demir/enrollpass/internal/pkg/auth"
)

func testJWTService() *auth.JWTService {
	return auth.NewJWTService(auth.JWTConfig{
		SecretKey:      "test-secret",
		AccessTokenExp: time.Hour,
		TokenIssuer:    "enrollpass.test",
	})
}

func authTestRouter(t *testing.T, jwtService *auth.JWTService) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	m := NewAuthMiddleware(jwtService)
	router := gin.New()
	router.GET("/me", m.JWTAuth(), func(c *gin.Context) {
		caller, ok := CurrentPrincipal(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"id": caller.ID, "role": string(caller.Role)})
	})
	router.GET("/admin", m.JWTAuth(), m.RoleRequired(models.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router
}

func TestJWTAuth(t *testing.T) {
	jwtService := testJWTService()
	router := authTestRouter(t, jwtService)

	token, _, err := jwtService.GenerateToken(&models.User{
		ID: 7, Email: "jane@example.com", RoleType: models.RoleStudent,
	})
	require.NoError(t, err)

	// Missing header.
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/me", nil))
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	// Garbage token.
	recorder = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer not.a.jwt")
	router.ServeHTTP(recorder, req)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	// Valid token.
	recorder = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(recorder, req)
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"id":7`)
}

func TestRoleRequired(t *testing.T) {
	jwtService := testJWTService()
	router := authTestRouter(t, jwtService)

	studentToken, _, err := jwtService.GenerateToken(&models.User{
		ID: 7, Email: "jane@example.com", RoleType: models.RoleStudent,
	})
	require.NoError(t, err)
	adminToken, _, err := jwtService.GenerateToken(&models.User{
		ID: 1, Email: "admin@workshop.com", RoleType: models.RoleAdmin,
	})
	require.NoError(t, err)

	recorder := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+studentToken)
	router.ServeHTTP(recorder, req)
	assert.Equal(t, http.StatusForbidden, recorder.Code)

	recorder = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	router.ServeHTTP(recorder, req)
	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestCurrentPrincipal_Unauthenticated(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	_, ok := CurrentPrincipal(c)
	assert.False(t, ok)

	var zero services.Principal
	caller, _ := CurrentPrincipal(c)
	assert.Equal(t, zero, caller)
}
