package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/contexthub-dev/contexthub/internal/auth"
	"github.com/contexthub-dev/contexthub/internal/handlers"
	"github.com/contexthub-dev/contexthub/internal/rag"
	"github.com/contexthub-dev/contexthub/internal/router"
	"github.com/contexthub-dev/contexthub/internal/session"
	"github.com/contexthub-dev/contexthub/internal/storage"
	"github.com/contexthub-dev/contexthub/internal/teardown"
	"github.com/contexthub-dev/contexthub/internal/testutil"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type stack struct {
	engine   *gin.Engine
	db       *gorm.DB
	sessions *session.Store
	avatars  *storage.AvatarStore
}

func newStack(t *testing.T) *stack {
	t.Helper()

	gin.SetMode(gin.TestMode)
	t.Setenv("JWT_SECRET", "test-secret")
	require.NoError(t, auth.InitJWTSecret())

	gdb := testutil.NewDB(t)
	sessions := session.NewStore(gdb)

	avatars, err := storage.NewAvatarStore(filepath.Join(t.TempDir(), "avatars"))
	require.NoError(t, err)

	// A permissive retrieval-service stub; tests that care about its
	// behavior use their own server.
	ragStub := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	t.Cleanup(ragStub.Close)

	logger := zap.NewNop()
	td := teardown.NewService(gdb, avatars, logger)
	h := handlers.New(gdb, sessions, avatars, rag.NewClient(ragStub.URL, ""), td, logger, "")

	return &stack{
		engine:   router.NewRouter(h, sessions),
		db:       gdb,
		sessions: sessions,
		avatars:  avatars,
	}
}

func (s *stack) do(t *testing.T, method, path string, body interface{}, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader = bytes.NewReader(nil)

	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	if cookie != nil {
		req.AddCookie(cookie)
	}

	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

// register creates an account over HTTP and returns its session cookie.
func (s *stack) register(t *testing.T, name, email, password string) *http.Cookie {
	t.Helper()

	w := s.do(t, http.MethodPost, "/api/auth/register", map[string]string{
		"name":     name,
		"email":    email,
		"password": password,
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	for _, c := range w.Result().Cookies() {
		if c.Name == session.CookieName && c.Value != "" {
			return c
		}
	}

	t.Fatal("register response did not set a session cookie")
	return nil
}
