package Controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/restaurant-site/middlewares"
)

func login(t *testing.T, env *testEnv, email, password string) *httptest.ResponseRecorder {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"email": email, "password": password})
	req, _ := http.NewRequest(http.MethodPost, "/admin/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	env.Router.ServeHTTP(w, req)
	return w
}

func TestLoginAndLogout(t *testing.T) {
	env := setupTestEnv(t)

	w := login(t, env, "ADMIN@example.com ", testAdminPassword)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var data struct {
		Token string `json:"token"`
		Role  string `json:"role"`
	}
	decode(t, w, &data)
	require.NotEmpty(t, data.Token)
	assert.Equal(t, "admin", data.Role)

	var session *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == middlewares.SessionCookie {
			session = c
		}
	}
	require.NotNil(t, session)
	assert.True(t, session.HttpOnly)

	env.Token = data.Token
	w = env.do(t, http.MethodGet, "/admin/api/dashboard", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodPost, "/admin/logout", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, "/admin/api/dashboard", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code, "logged out tokens are revoked")
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	env := setupTestEnv(t)

	w := login(t, env, testAdminEmail, "wrong")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w = login(t, env, "nobody@example.com", testAdminPassword)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w = login(t, env, "", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFormLoginRedirectsToDashboard(t *testing.T) {
	env := setupTestEnv(t)

	form := url.Values{"email": {testAdminEmail}, "password": {testAdminPassword}}
	req, _ := http.NewRequest(http.MethodPost, "/admin/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	env.Router.ServeHTTP(w, req)
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/admin/dashboard", w.Header().Get("Location"))

	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)

	seeded := seedCategories(t, env.DB, "Soups", "Grill")
	req, _ = http.NewRequest(http.MethodGet, "/admin/dashboard", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w = httptest.NewRecorder()
	env.Router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	page := w.Body.String()
	assert.Contains(t, page, "Subscribers")
	assert.Contains(t, page, fmt.Sprintf(`data-id="%d"`, seeded[1].ID))
	assert.Less(t, strings.Index(page, "Soups"), strings.Index(page, "Grill"))
}

func TestDashboardPageRedirectsWithoutSession(t *testing.T) {
	env := setupTestEnv(t)

	req, _ := http.NewRequest(http.MethodGet, "/admin/dashboard", nil)
	w := httptest.NewRecorder()
	env.Router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, middlewares.LoginPath, w.Header().Get("Location"))

	req, _ = http.NewRequest(http.MethodGet, "/admin/login", nil)
	w = httptest.NewRecorder()
	env.Router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `name="password"`)
}
