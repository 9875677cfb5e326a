package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/contexthub-dev/contexthub/internal/auth"
	"github.com/contexthub-dev/contexthub/internal/middleware"
	"github.com/contexthub-dev/contexthub/internal/session"
	"github.com/contexthub-dev/contexthub/internal/testutil"
	"github.com/contexthub-dev/contexthub/internal/types"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthTestRouter(t *testing.T) (*gin.Engine, *session.Store) {
	t.Helper()

	gin.SetMode(gin.TestMode)
	t.Setenv("JWT_SECRET", "test-secret")
	require.NoError(t, auth.InitJWTSecret())

	sessions := session.NewStore(testutil.NewDB(t))

	r := gin.New()
	r.GET("/protected", middleware.AuthMiddleware(sessions), func(ctx *gin.Context) {
		principal := ctx.MustGet(types.ContextUserKey).(middleware.Principal)
		ctx.JSON(http.StatusOK, gin.H{"user_id": principal.ID})
	})

	return r, sessions
}

func TestAuthMiddlewareRejectsMissingToken(t *testing.T) {
	r, _ := newAuthTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareRejectsBadToken(t *testing.T) {
	r, _ := newAuthTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareAcceptsCookieToken(t *testing.T) {
	r, sessions := newAuthTestRouter(t)

	token, err := sessions.Create(7)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: token})
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":7`)
}

func TestAuthMiddlewareAcceptsBearerToken(t *testing.T) {
	r, sessions := newAuthTestRouter(t)

	token, err := sessions.Create(9)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
