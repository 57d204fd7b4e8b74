// Copyright (c) 2026 Kertas. All rights reserved.
// Author: ad.kurnia.ws@gmail.com

package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kertasdev/kertas/internal/platform/ctxutil"
	"github.com/kertasdev/kertas/internal/platform/sec"
)

// guardHarness runs one request through the guard and reports what happened.
type guardHarness struct {
	guard *Guard

	// identity observed by the downstream handler, nil when not reached.
	seen    *sec.Identity
	reached bool
}

func newGuardHarness(t *testing.T) *guardHarness {
	t.Helper()
	registry := testRegistry(t)
	return &guardHarness{
		guard: NewGuard(registry, NewCookieManager(registry, false), DefaultPathPolicy()),
	}
}

func (harness *guardHarness) request(t *testing.T, path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	harness.reached = false
	harness.seen = nil

	next := http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		harness.reached = true
		harness.seen = ctxutil.GetAuthUser(request.Context())
		writer.WriteHeader(http.StatusOK)
	})

	request := httptest.NewRequest(http.MethodGet, path, nil)
	for _, cookie := range cookies {
		request.AddCookie(cookie)
	}

	recorder := httptest.NewRecorder()
	harness.guard.Middleware(next).ServeHTTP(recorder, request)
	return recorder
}

func (harness *guardHarness) refreshCookie(t *testing.T, role sec.Role) *http.Cookie {
	t.Helper()
	token, err := harness.guard.registry.IssueRefresh(sec.Identity{ID: 1, Role: role})
	require.NoError(t, err)
	return &http.Cookie{Name: harness.guard.registry.CookieNameFor(role), Value: token}
}

func TestGuard_AnonymousOnPrivatePath(t *testing.T) {
	harness := newGuardHarness(t)

	recorder := harness.request(t, "/admin")

	assert.False(t, harness.reached)
	assert.Equal(t, http.StatusFound, recorder.Code)
	assert.Equal(t, "/account", recorder.Header().Get("Location"))
}

func TestGuard_AnonymousOnPublicPath(t *testing.T) {
	harness := newGuardHarness(t)

	tests := []struct {
		name string
		path string
	}{
		{"login_page", "/account"},
		{"reset_landing", "/account/reset-password"},
		{"public_prefix", "/surat/undangan-rapat"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := harness.request(t, tt.path)
			assert.True(t, harness.reached)
			assert.Equal(t, http.StatusOK, recorder.Code)
			assert.Nil(t, harness.seen)
		})
	}
}

func TestGuard_InsufficientRoleRedirectsHome(t *testing.T) {
	harness := newGuardHarness(t)

	recorder := harness.request(t, "/admin", harness.refreshCookie(t, sec.RoleUser))

	assert.False(t, harness.reached)
	assert.Equal(t, http.StatusFound, recorder.Code)
	assert.Equal(t, "/", recorder.Header().Get("Location"))
}

func TestGuard_AuthenticatedOnLoginPathGoesHome(t *testing.T) {
	harness := newGuardHarness(t)

	tests := []struct {
		name string
		role sec.Role
		home string
	}{
		{"super_admin", sec.RoleSuperAdmin, "/superadmin"},
		{"admin", sec.RoleAdmin, "/admin"},
		{"user", sec.RoleUser, "/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := harness.request(t, "/account", harness.refreshCookie(t, tt.role))
			assert.Equal(t, http.StatusFound, recorder.Code)
			assert.Equal(t, tt.home, recorder.Header().Get("Location"))
		})
	}
}

func TestGuard_AllowedRequestCarriesIdentity(t *testing.T) {
	harness := newGuardHarness(t)

	recorder := harness.request(t, "/admin", harness.refreshCookie(t, sec.RoleAdmin))

	assert.Equal(t, http.StatusOK, recorder.Code)
	require.True(t, harness.reached)
	require.NotNil(t, harness.seen)
	assert.Equal(t, sec.RoleAdmin, harness.seen.Role)
}

func TestGuard_SuperAdminReachesLowerTiers(t *testing.T) {
	harness := newGuardHarness(t)
	cookie := harness.refreshCookie(t, sec.RoleSuperAdmin)

	for _, path := range []string{"/superadmin", "/admin", "/notes"} {
		recorder := harness.request(t, path, cookie)
		assert.Equal(t, http.StatusOK, recorder.Code, "path %s", path)
		assert.True(t, harness.reached)
	}
}

func TestGuard_InvalidCookieClearedAndRedirected(t *testing.T) {
	harness := newGuardHarness(t)

	recorder := harness.request(t, "/notes", &http.Cookie{Name: CookieNameUser, Value: "tampered"})

	assert.Equal(t, http.StatusFound, recorder.Code)
	assert.Equal(t, "/account", recorder.Header().Get("Location"))

	cookies := recorder.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, CookieNameUser, cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
	assert.Negative(t, cookies[0].MaxAge)
}

func TestGuard_StaleTierClearedWhenStrongerTierValid(t *testing.T) {
	harness := newGuardHarness(t)

	// An expired-looking admin cookie next to a valid user cookie: the user
	// session wins and the admin cookie is cleared.
	recorder := harness.request(t, "/notes",
		&http.Cookie{Name: CookieNameAdmin, Value: "stale"},
		harness.refreshCookie(t, sec.RoleUser),
	)

	assert.Equal(t, http.StatusOK, recorder.Code)
	require.NotNil(t, harness.seen)
	assert.Equal(t, sec.RoleUser, harness.seen.Role)

	cookies := recorder.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, CookieNameAdmin, cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
}

func TestGuard_SkipsAPIAndAssets(t *testing.T) {
	harness := newGuardHarness(t)

	// No cookie at all: these must pass straight through, no redirect.
	for _, path := range []string{"/api/v1/notes", "/static/app.css", "/favicon.ico", "/img/logo.png"} {
		recorder := harness.request(t, path)
		assert.True(t, harness.reached, "path %s", path)
		assert.Equal(t, http.StatusOK, recorder.Code, "path %s", path)
	}
}

func TestGuard_PrivateCarveOutInsidePublicPrefix(t *testing.T) {
	harness := newGuardHarness(t)

	recorder := harness.request(t, "/surat-generator")

	assert.False(t, harness.reached)
	assert.Equal(t, http.StatusFound, recorder.Code)
	assert.Equal(t, "/account", recorder.Header().Get("Location"))
}
