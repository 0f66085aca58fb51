package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/resto-pos/models"
	"github.com/yeremiapane/resto-pos/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newEngine(issuer *utils.TokenIssuer, roles ...models.Role) *gin.Engine {
	r := gin.New()
	r.GET("/private", AuthMiddleware(issuer), RoleCheck(roles...), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"staff_id": c.GetUint(CtxStaffID),
			"role":     c.GetString(CtxRole),
		})
	})
	return r
}

func serve(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	issuer := utils.NewTokenIssuer("secret", time.Hour)
	r := newEngine(issuer, models.RoleCashier, models.RoleOwner)

	cashier, err := issuer.GenerateToken(7, "kasir", string(models.RoleCashier))
	require.NoError(t, err)
	cook, err := issuer.GenerateToken(8, "koki", string(models.RoleCook))
	require.NoError(t, err)
	foreign, err := utils.NewTokenIssuer("other", time.Hour).GenerateToken(7, "kasir", string(models.RoleCashier))
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		query  string
		want   int
	}{
		{"no token", "", "", http.StatusUnauthorized},
		{"not bearer", "Token " + cashier, "", http.StatusUnauthorized},
		{"foreign secret", "Bearer " + foreign, "", http.StatusUnauthorized},
		{"bearer ok", "Bearer " + cashier, "", http.StatusOK},
		{"query token ok", "", "?token=" + cashier, http.StatusOK},
		{"wrong role", "Bearer " + cook, "", http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/private"+tt.query, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := serve(r, req)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
		})
	}
}

func TestAuthMiddlewareRejectsRevokedToken(t *testing.T) {
	issuer := utils.NewTokenIssuer("secret", time.Hour)
	r := newEngine(issuer, models.RoleOwner)

	token, err := issuer.GenerateToken(1, "owner", string(models.RoleOwner))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	assert.Equal(t, http.StatusOK, serve(r, req).Code)

	issuer.Revoke(token)
	req = httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, serve(r, req).Code)
}

func TestRoleCheckWithoutAuth(t *testing.T) {
	r := gin.New()
	r.GET("/x", RoleCheck(models.RoleOwner), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(r, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRateLimiterPerIP(t *testing.T) {
	r := gin.New()
	r.Use(NewRateLimiter(0.001, 2).RateLimit())
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	hit := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.RemoteAddr = ip + ":1234"
		return serve(r, req).Code
	}

	assert.Equal(t, http.StatusOK, hit("10.0.0.1"))
	assert.Equal(t, http.StatusOK, hit("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, hit("10.0.0.1"))
	assert.Equal(t, http.StatusOK, hit("10.0.0.2"))
}

func TestRequestIDAndHeaders(t *testing.T) {
	r := gin.New()
	r.Use(LoggerMiddleware(), CORSMiddlewares("https://pos.example"), SecurityHeaders())
	r.GET("/x", NoStore(), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(r, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(HeaderRequestID))
	assert.Equal(t, "https://pos.example", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(HeaderRequestID, "abc-123")
	assert.Equal(t, "abc-123", serve(r, req).Header().Get(HeaderRequestID))

	w = serve(r, httptest.NewRequest(http.MethodOptions, "/x", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
}
