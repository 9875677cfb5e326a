package session

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetCookiesReadsDomainAtCallTime(t *testing.T) {
	t.Setenv("DOMAIN", "contexthub.dev")

	w := httptest.NewRecorder()
	SetCookies(w, "tok")

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 2)

	for _, c := range cookies {
		assert.Equal(t, "contexthub.dev", c.Domain)
		assert.Equal(t, "tok", c.Value)
	}
}

func TestClearCookiesExpiresBothNames(t *testing.T) {
	w := httptest.NewRecorder()
	ClearCookies(w)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 2)

	names := map[string]bool{}

	for _, c := range cookies {
		assert.Empty(t, c.Value)
		assert.Negative(t, c.MaxAge)
		names[c.Name] = true
	}

	assert.True(t, names[CookieName])
	assert.True(t, names[SecureCookieName])
}
