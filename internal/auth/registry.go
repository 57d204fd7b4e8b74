// Copyright (c) 2026 Kertas. All rights reserved.
// Author: ad.kurnia.ws@gmail.com

package auth

import (
	"log/slog"
	"time"

	"github.com/kertasdev/kertas/internal/platform/sec"
)

// insecureDefaultSecret is the fallback when a refresh secret is not
// configured. Keeping the process bootable on a fresh checkout outweighs
// failing closed here, but running production on this value defeats the
// role partition entirely, hence the startup warning.
const insecureDefaultSecret = "kertas-unconfigured-refresh-secret"

// Secrets carries the configured signing material for the registry.
type Secrets struct {
	Access            string
	SuperAdminRefresh string
	AdminRefresh      string
	UserRefresh       string
}

// roleEntry is one row of the role lookup table: everything the auth core
// needs to know about a tier lives here, nowhere else.
type roleEntry struct {
	secret     []byte
	ttl        time.Duration
	cookieName string
}

// Registry maps each role tier to its refresh-token signing secret,
// validity window, and cookie name, and owns the shared access secret.
//
// # Design
//
// A single closed table replaces the scattered role switches of earlier
// revisions: adding a tier means adding one entry, and no call site can
// disagree about a tier's secret, TTL, or cookie name.
type Registry struct {
	codec   *sec.Codec
	access  []byte
	entries map[sec.Role]roleEntry
}

// NewRegistry builds the role table from configured secrets. Any missing
// refresh secret falls back to the fixed insecure default and is logged.
func NewRegistry(secrets Secrets, codec *sec.Codec, logger *slog.Logger) *Registry {
	resolve := func(tier string, value string) []byte {
		if value != "" {
			return []byte(value)
		}
		logger.Warn("auth_refresh_secret_missing",
			slog.String("tier", tier),
			slog.String("consequence", "falling back to built-in default; do not run production like this"),
		)
		return []byte(insecureDefaultSecret)
	}

	return &Registry{
		codec:  codec,
		access: []byte(secrets.Access),
		entries: map[sec.Role]roleEntry{
			sec.RoleSuperAdmin: {
				secret:     resolve("super_admin", secrets.SuperAdminRefresh),
				ttl:        PrivilegedRefreshTTL,
				cookieName: CookieNameSuperAdmin,
			},
			sec.RoleAdmin: {
				secret:     resolve("admin", secrets.AdminRefresh),
				ttl:        PrivilegedRefreshTTL,
				cookieName: CookieNameAdmin,
			},
			sec.RoleUser: {
				secret:     resolve("user", secrets.UserRefresh),
				ttl:        StandardRefreshTTL,
				cookieName: CookieNameUser,
			},
		},
	}
}

// entryFor resolves a tier's table row. Unknown tiers collapse to the user
// tier, the least privileged.
func (registry *Registry) entryFor(role sec.Role) roleEntry {
	if entry, ok := registry.entries[role]; ok {
		return entry
	}
	return registry.entries[sec.RoleUser]
}

// SecretFor returns the refresh signing secret for a role tier.
func (registry *Registry) SecretFor(role sec.Role) []byte {
	return registry.entryFor(role).secret
}

// CookieNameFor returns the deterministic cookie name for a role tier.
func (registry *Registry) CookieNameFor(role sec.Role) string {
	return registry.entryFor(role).cookieName
}

// RefreshTTLFor returns the refresh validity window for a role tier.
func (registry *Registry) RefreshTTLFor(role sec.Role) time.Duration {
	return registry.entryFor(role).ttl
}

// # Access Tokens (shared secret)

// IssueAccess signs an access token carrying identity.
func (registry *Registry) IssueAccess(identity sec.Identity) (string, error) {
	return registry.codec.Issue(identity, registry.access, AccessTokenTTL)
}

// VerifyAccess implements [middleware.AccessVerifier].
func (registry *Registry) VerifyAccess(tokenString string) (*sec.Identity, bool) {
	return registry.codec.Verify(tokenString, registry.access)
}

// # Refresh Tokens (role-partitioned secret)

// IssueRefresh signs a refresh token for identity under its role's secret
// and validity window.
func (registry *Registry) IssueRefresh(identity sec.Identity) (string, error) {
	entry := registry.entryFor(identity.Role)
	return registry.codec.Issue(identity, entry.secret, entry.ttl)
}

// VerifyRefresh checks tokenString against the given tier's secret. A token
// minted under any other tier's secret fails here: the partition is the
// security boundary between dashboards.
func (registry *Registry) VerifyRefresh(role sec.Role, tokenString string) (*sec.Identity, bool) {
	return registry.codec.Verify(tokenString, registry.SecretFor(role))
}
