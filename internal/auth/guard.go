// Copyright (c) 2026 Kertas. All rights reserved.
// Author: ad.kurnia.ws@gmail.com

package auth

import (
	"net/http"
	"path"
	"strings"

	"github.com/kertasdev/kertas/internal/platform/ctxutil"
	"github.com/kertasdev/kertas/internal/platform/sec"
)

// # Path Policy

// PathPolicy is the replaceable routing table the [Guard] consults.
//
// It is configuration, not logic: the guard's state machine never changes
// when pages are added, only this table does.
type PathPolicy struct {
	// LoginPaths are entry pages an authenticated user is bounced away
	// from, toward their role home.
	LoginPaths []string

	// PublicPaths are exact paths reachable without a session.
	PublicPaths []string

	// PublicPrefixes open whole subtrees, minus any PrivatePaths carve-outs.
	PublicPrefixes []string

	// PrivatePaths carve exact paths back out of a public prefix.
	PrivatePaths []string

	// RolePrefixes maps a path prefix to the minimum role it requires.
	RolePrefixes map[string]sec.Role
}

// DefaultPathPolicy returns the routing table for the Kertas page surface.
func DefaultPathPolicy() PathPolicy {
	return PathPolicy{
		LoginPaths:  []string{"/account"},
		PublicPaths: []string{"/account/reset-password"},
		PublicPrefixes: []string{
			"/surat/",
		},
		PrivatePaths: []string{"/surat-generator"},
		RolePrefixes: map[string]sec.Role{
			"/superadmin": sec.RoleSuperAdmin,
			"/admin":      sec.RoleAdmin,
		},
	}
}

func (policy PathPolicy) isLogin(requestPath string) bool {
	for _, candidate := range policy.LoginPaths {
		if requestPath == candidate {
			return true
		}
	}
	return false
}

func (policy PathPolicy) isPublic(requestPath string) bool {
	for _, candidate := range policy.PrivatePaths {
		if requestPath == candidate {
			return false
		}
	}
	for _, candidate := range policy.PublicPaths {
		if requestPath == candidate {
			return true
		}
	}
	for _, prefix := range policy.PublicPrefixes {
		if strings.HasPrefix(requestPath, prefix) {
			return true
		}
	}
	return false
}

// requiredRole returns the minimum role for requestPath, or RoleUser when no
// prefix rule matches (any authenticated session suffices).
func (policy PathPolicy) requiredRole(requestPath string) sec.Role {
	for prefix, role := range policy.RolePrefixes {
		if requestPath == prefix || strings.HasPrefix(requestPath, prefix+"/") {
			return role
		}
	}
	return sec.RoleUser
}

// # Guard

// Guard is the page-surface interceptor: it inspects the refresh cookies on
// every navigable request and allows, redirects, or clears based on the
// decode result and the [PathPolicy].
//
// The guard scans all three cookie tiers in the same priority order as the
// refresh endpoint, so a browser holding both a privileged and a stale
// lower-tier cookie is classified by its strongest valid session.
type Guard struct {
	registry *Registry
	cookies  *CookieManager
	policy   PathPolicy
}

// NewGuard constructs a [Guard].
func NewGuard(registry *Registry, cookies *CookieManager, policy PathPolicy) *Guard {
	return &Guard{registry: registry, cookies: cookies, policy: policy}
}

// staticExtensions lists asset suffixes the guard never evaluates.
var staticExtensions = map[string]struct{}{
	".css": {}, ".js": {}, ".map": {}, ".ico": {},
	".png": {}, ".jpg": {}, ".jpeg": {}, ".gif": {}, ".svg": {}, ".webp": {},
	".woff": {}, ".woff2": {}, ".ttf": {},
}

// skips reports whether the guard ignores requestPath entirely: API routes
// answer with statuses, not redirects, and assets carry no session meaning.
func skips(requestPath string) bool {
	if strings.HasPrefix(requestPath, "/api/") {
		return true
	}
	_, static := staticExtensions[path.Ext(requestPath)]
	return static
}

// roleHome maps a role tier to its landing page.
func roleHome(role sec.Role) string {
	switch role {
	case sec.RoleSuperAdmin:
		return "/superadmin"
	case sec.RoleAdmin:
		return "/admin"
	default:
		return "/"
	}
}

// identify scans the refresh cookies in privilege order and returns the
// strongest valid identity, plus the tiers whose cookies failed to decode.
func (guard *Guard) identify(request *http.Request) (*sec.Identity, []sec.Role) {
	var stale []sec.Role

	for _, role := range sec.RefreshOrder {
		token, present := guard.cookies.RefreshCookie(request, role)
		if !present {
			continue
		}
		identity, ok := guard.registry.VerifyRefresh(role, token)
		if !ok {
			stale = append(stale, role)
			continue
		}
		return identity, stale
	}

	return nil, stale
}

// Middleware returns the guard as standard net/http middleware.
//
// # Transitions
//   - No valid cookie, private path  : redirect to the login page.
//   - No valid cookie, public path   : allow.
//   - Valid cookie, login path       : redirect to the role's home.
//   - Valid cookie, role too low     : redirect to the root page.
//   - Valid cookie otherwise         : allow, identity injected in context.
//
// Cookies that fail to decode are cleared on every transition.
func (guard *Guard) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		requestPath := request.URL.Path
		if skips(requestPath) {
			next.ServeHTTP(writer, request)
			return
		}

		identity, stale := guard.identify(request)
		for _, role := range stale {
			guard.cookies.ClearRefreshCookie(writer, role)
		}

		if identity == nil {
			if guard.policy.isPublic(requestPath) || guard.policy.isLogin(requestPath) {
				next.ServeHTTP(writer, request)
				return
			}
			http.Redirect(writer, request, "/account", http.StatusFound)
			return
		}

		if guard.policy.isLogin(requestPath) {
			http.Redirect(writer, request, roleHome(identity.Role), http.StatusFound)
			return
		}

		if !identity.Role.AtLeast(guard.policy.requiredRole(requestPath)) {
			http.Redirect(writer, request, "/", http.StatusFound)
			return
		}

		next.ServeHTTP(writer, request.WithContext(ctxutil.WithAuthUser(request.Context(), identity)))
	})
}
