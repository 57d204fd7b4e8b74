// Copyright (c) 2026 Kertas. All rights reserved.
// Author: ad.kurnia.ws@gmail.com

package web

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kertasdev/kertas/internal/auth"
	"github.com/kertasdev/kertas/internal/platform/sec"
)

func newTestHandler(t *testing.T) *Handler {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	registry := auth.NewRegistry(auth.Secrets{
		Access:            "access-secret",
		SuperAdminRefresh: "super-secret",
		AdminRefresh:      "admin-secret",
		UserRefresh:       "user-secret",
	}, &sec.Codec{Issuer: "kertas-test"}, logger)

	guard := auth.NewGuard(registry, auth.NewCookieManager(registry, false), auth.DefaultPathPolicy())
	return NewHandler(guard)
}

func TestSuratPage_RedirectsToCanonicalSlug(t *testing.T) {
	router := newTestHandler(t).Routes()

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/surat/Undangan-Rapat", nil))

	require.Equal(t, http.StatusMovedPermanently, recorder.Code)
	assert.Equal(t, "/surat/undangan-rapat", recorder.Header().Get("Location"))
}

func TestSuratPage_CanonicalSlugRenders(t *testing.T) {
	router := newTestHandler(t).Routes()

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/surat/undangan-rapat", nil))

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "Undangan Rapat")
}

func TestSuratPage_EmptySlugIsNotFound(t *testing.T) {
	router := newTestHandler(t).Routes()

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/surat/---", nil))

	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestDashboardRequiresSession(t *testing.T) {
	router := newTestHandler(t).Routes()

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusFound, recorder.Code)
	assert.Equal(t, "/account", recorder.Header().Get("Location"))
}
