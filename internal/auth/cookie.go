// Copyright (c) 2026 Kertas. All rights reserved.
// Author: ad.kurnia.ws@gmail.com

package auth

import (
	"net/http"
	"time"

	"github.com/kertasdev/kertas/internal/platform/sec"
)

// CookieManager owns the refresh-token cookie lifecycle: one HTTP-only,
// strict-same-site cookie per role tier, named by the [Registry].
type CookieManager struct {
	registry *Registry

	// secure marks cookies Secure; enabled outside development so local
	// plain-HTTP testing still works.
	secure bool
}

// NewCookieManager constructs a manager bound to the role registry.
func NewCookieManager(registry *Registry, secure bool) *CookieManager {
	return &CookieManager{registry: registry, secure: secure}
}

// SetRefreshCookie attaches the refresh token under the role's cookie name
// with max-age equal to the role's refresh window.
func (manager *CookieManager) SetRefreshCookie(writer http.ResponseWriter, role sec.Role, token string) {
	http.SetCookie(writer, &http.Cookie{
		Name:     manager.registry.CookieNameFor(role),
		Value:    token,
		Path:     "/",
		MaxAge:   int(manager.registry.RefreshTTLFor(role) / time.Second),
		Secure:   manager.secure,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

// ClearRefreshCookie overwrites the role's cookie with an empty value and an
// already-past expiration, guaranteeing browser deletion regardless of the
// prior max-age.
func (manager *CookieManager) ClearRefreshCookie(writer http.ResponseWriter, role sec.Role) {
	http.SetCookie(writer, &http.Cookie{
		Name:     manager.registry.CookieNameFor(role),
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		Secure:   manager.secure,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

// ClearAllRefreshCookies clears every tier's cookie unconditionally. A
// browser profile can hold stale cookies from a prior session under a
// different role; logout must not leave any of them behind.
func (manager *CookieManager) ClearAllRefreshCookies(writer http.ResponseWriter) {
	for _, role := range sec.RefreshOrder {
		manager.ClearRefreshCookie(writer, role)
	}
}

// RefreshCookie reads the role's refresh cookie from the request.
func (manager *CookieManager) RefreshCookie(request *http.Request, role sec.Role) (string, bool) {
	cookie, err := request.Cookie(manager.registry.CookieNameFor(role))
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}

// RefreshCookies collects all present refresh cookies keyed by role tier,
// the input shape consumed by [Service.Refresh].
func (manager *CookieManager) RefreshCookies(request *http.Request) map[sec.Role]string {
	cookies := make(map[sec.Role]string, len(sec.RefreshOrder))
	for _, role := range sec.RefreshOrder {
		if token, ok := manager.RefreshCookie(request, role); ok {
			cookies[role] = token
		}
	}
	return cookies
}
