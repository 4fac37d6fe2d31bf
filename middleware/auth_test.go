package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"neatly/config"
	"neatly/models"
	"neatly/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthTestRouter(requiredRole models.Role) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", JWTAuthMiddleware(requiredRole), func(c *gin.Context) {
		actor, _ := ActorFromContext(c)
		c.JSON(http.StatusOK, gin.H{"id": actor.ID, "role": string(actor.Role)})
	})
	return r
}

func doRequest(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuthMiddlewareAcceptsValidToken(t *testing.T) {
	token, err := utils.GenerateToken("user-1", "client", time.Hour)
	require.NoError(t, err)

	w := doRequest(newAuthTestRouter(""), "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "user-1")
}

func TestJWTAuthMiddlewareRejectsMissingOrBadToken(t *testing.T) {
	r := newAuthTestRouter("")

	assert.Equal(t, http.StatusUnauthorized, doRequest(r, "").Code)
	assert.Equal(t, http.StatusUnauthorized, doRequest(r, "Bearer garbage").Code)
	assert.Equal(t, http.StatusUnauthorized, doRequest(r, "Basic abc").Code)
}

func TestJWTAuthMiddlewareEnforcesRole(t *testing.T) {
	r := newAuthTestRouter(models.RoleCleaner)

	clientToken, err := utils.GenerateToken("user-1", "client", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, doRequest(r, "Bearer "+clientToken).Code)

	cleanerToken, err := utils.GenerateToken("cleaner-1", "cleaner", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, doRequest(r, "Bearer "+cleanerToken).Code)
}

func TestAdminAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	config.AppConfig.AdminToken = "ops-secret"
	defer func() { config.AppConfig.AdminToken = "" }()

	r := gin.New()
	r.GET("/admin", AdminAuthMiddleware(), func(c *gin.Context) {
		actor, _ := ActorFromContext(c)
		c.JSON(http.StatusOK, gin.H{"id": actor.ID})
	})

	req := func(header string) *httptest.ResponseRecorder {
		rq := httptest.NewRequest(http.MethodGet, "/admin", nil)
		if header != "" {
			rq.Header.Set("Authorization", header)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, rq)
		return w
	}

	// Static ops token.
	w := req("Bearer ops-secret")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ops")

	// Admin-role JWT.
	adminToken, err := utils.GenerateToken("admin-1", "admin", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, req("Bearer "+adminToken).Code)

	// Non-admin JWT and junk are rejected.
	clientToken, err := utils.GenerateToken("user-1", "client", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, req("Bearer "+clientToken).Code)
	assert.Equal(t, http.StatusUnauthorized, req("").Code)
}
