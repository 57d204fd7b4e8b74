// Copyright (c) 2026 Kertas. All rights reserved.
// Author: ad.kurnia.ws@gmail.com

package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kertasdev/kertas/internal/platform/sec"
)

func TestCookieManager_SetRefreshCookie(t *testing.T) {
	manager := NewCookieManager(testRegistry(t), true)

	tests := []struct {
		name       string
		role       sec.Role
		cookieName string
		maxAge     int
	}{
		{"super_admin_six_hours", sec.RoleSuperAdmin, CookieNameSuperAdmin, int(PrivilegedRefreshTTL / time.Second)},
		{"admin_six_hours", sec.RoleAdmin, CookieNameAdmin, int(PrivilegedRefreshTTL / time.Second)},
		{"user_180_days", sec.RoleUser, CookieNameUser, int(StandardRefreshTTL / time.Second)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			manager.SetRefreshCookie(recorder, tt.role, "token-value")

			cookies := recorder.Result().Cookies()
			require.Len(t, cookies, 1)

			cookie := cookies[0]
			assert.Equal(t, tt.cookieName, cookie.Name)
			assert.Equal(t, "token-value", cookie.Value)
			assert.Equal(t, "/", cookie.Path)
			assert.Equal(t, tt.maxAge, cookie.MaxAge)
			assert.True(t, cookie.HttpOnly)
			assert.True(t, cookie.Secure)
			assert.Equal(t, http.SameSiteStrictMode, cookie.SameSite)
		})
	}
}

func TestCookieManager_SecureDisabledInDevelopment(t *testing.T) {
	manager := NewCookieManager(testRegistry(t), false)

	recorder := httptest.NewRecorder()
	manager.SetRefreshCookie(recorder, sec.RoleUser, "token-value")

	cookies := recorder.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.False(t, cookies[0].Secure)
}

func TestCookieManager_ClearRefreshCookie(t *testing.T) {
	manager := NewCookieManager(testRegistry(t), true)

	recorder := httptest.NewRecorder()
	manager.ClearRefreshCookie(recorder, sec.RoleAdmin)

	cookies := recorder.Result().Cookies()
	require.Len(t, cookies, 1)

	cookie := cookies[0]
	assert.Equal(t, CookieNameAdmin, cookie.Name)
	assert.Empty(t, cookie.Value)
	assert.Negative(t, cookie.MaxAge)
	assert.True(t, cookie.Expires.Before(time.Now()))
}

func TestCookieManager_ClearAllRefreshCookies(t *testing.T) {
	manager := NewCookieManager(testRegistry(t), true)

	recorder := httptest.NewRecorder()
	manager.ClearAllRefreshCookies(recorder)

	// All three tiers are cleared regardless of what the client held.
	cookies := recorder.Result().Cookies()
	require.Len(t, cookies, 3)

	names := make([]string, 0, len(cookies))
	for _, cookie := range cookies {
		names = append(names, cookie.Name)
		assert.Empty(t, cookie.Value)
		assert.Negative(t, cookie.MaxAge)
	}
	assert.Equal(t, []string{CookieNameSuperAdmin, CookieNameAdmin, CookieNameUser}, names)
}

func TestCookieManager_RefreshCookies(t *testing.T) {
	manager := NewCookieManager(testRegistry(t), true)

	request := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", nil)
	request.AddCookie(&http.Cookie{Name: CookieNameAdmin, Value: "admin-token"})
	request.AddCookie(&http.Cookie{Name: CookieNameUser, Value: "user-token"})
	request.AddCookie(&http.Cookie{Name: "unrelated", Value: "noise"})

	cookies := manager.RefreshCookies(request)
	assert.Equal(t, map[sec.Role]string{
		sec.RoleAdmin: "admin-token",
		sec.RoleUser:  "user-token",
	}, cookies)
}
