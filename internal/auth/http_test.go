// Copyright (c) 2026 Kertas. All rights reserved.
// Author: ad.kurnia.ws@gmail.com

package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kertasdev/kertas/internal/platform/sec"
)

// newTestHandler wires a full handler stack over in-memory fakes. The nil
// limiter disables throttling, as in local development.
func newTestHandler(t *testing.T, users *fakeUserRepo) (*Handler, *Service) {
	t.Helper()
	service := newTestService(t, users, nil, nil)
	cookies := NewCookieManager(service.registry, false)
	return NewHandler(service, cookies, nil), service
}

func TestHandler_Login(t *testing.T) {
	fields := testFieldCodec(t)
	user := seededUser(t, fields, 7, sec.RoleUser)
	handler, _ := newTestHandler(t, newFakeUserRepo(user))
	router := handler.Routes()

	t.Run("success_sets_cookie_and_body", func(t *testing.T) {
		body := `{"email":"andi@example.com","password":"correct horse battery"}`
		request := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(body))
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, request)

		require.Equal(t, http.StatusOK, recorder.Code)

		var payload sessionResponse
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&payload))
		assert.True(t, payload.Success)
		assert.NotEmpty(t, payload.AccessToken)
		assert.Equal(t, int64(7), payload.User.ID)

		cookies := recorder.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, CookieNameUser, cookies[0].Name)
		assert.NotEmpty(t, cookies[0].Value)
		assert.True(t, cookies[0].HttpOnly)
	})

	t.Run("bad_credentials_401_no_cookie", func(t *testing.T) {
		body := `{"email":"andi@example.com","password":"wrong"}`
		request := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(body))
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, request)

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
		assert.Empty(t, recorder.Result().Cookies())
	})

	t.Run("missing_fields_400", func(t *testing.T) {
		request := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{}`))
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, request)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})
}

func TestHandler_Refresh(t *testing.T) {
	fields := testFieldCodec(t)
	admin := seededUser(t, fields, 1, sec.RoleAdmin)
	handler, service := newTestHandler(t, newFakeUserRepo(admin))
	router := handler.Routes()

	adminIdentity, err := admin.Identity(fields)
	require.NoError(t, err)
	adminToken, err := service.registry.IssueRefresh(adminIdentity)
	require.NoError(t, err)

	t.Run("valid_cookie_rotates", func(t *testing.T) {
		request := httptest.NewRequest(http.MethodPost, "/refresh", nil)
		request.AddCookie(&http.Cookie{Name: CookieNameAdmin, Value: adminToken})
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, request)

		require.Equal(t, http.StatusOK, recorder.Code)

		var payload sessionResponse
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&payload))
		assert.True(t, payload.Success)
		assert.NotEmpty(t, payload.AccessToken)
		assert.Equal(t, sec.RoleAdmin, payload.User.Role)

		cookies := recorder.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, CookieNameAdmin, cookies[0].Name)
	})

	t.Run("no_cookies_401", func(t *testing.T) {
		request := httptest.NewRequest(http.MethodPost, "/refresh", nil)
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, request)

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
		assert.Empty(t, recorder.Result().Cookies())
	})

	t.Run("tampered_cookie_cleared_and_401", func(t *testing.T) {
		request := httptest.NewRequest(http.MethodPost, "/refresh", nil)
		request.AddCookie(&http.Cookie{Name: CookieNameUser, Value: "tampered"})
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, request)

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)

		cookies := recorder.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, CookieNameUser, cookies[0].Name)
		assert.Empty(t, cookies[0].Value)
	})
}

func TestHandler_Logout(t *testing.T) {
	handler, _ := newTestHandler(t, newFakeUserRepo())
	router := handler.Routes()

	// Logout succeeds with any body and any cookie state.
	for _, body := range []string{"", `{"role":2}`, "not json"} {
		request := httptest.NewRequest(http.MethodPost, "/logout", strings.NewReader(body))
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, request)

		require.Equal(t, http.StatusOK, recorder.Code)

		var payload statusResponse
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&payload))
		assert.True(t, payload.Success)

		cookies := recorder.Result().Cookies()
		require.Len(t, cookies, 3)
		for _, cookie := range cookies {
			assert.Empty(t, cookie.Value)
			assert.Negative(t, cookie.MaxAge)
		}
	}
}

func TestHandler_ForgotPassword_NeverLeaksExistence(t *testing.T) {
	fields := testFieldCodec(t)
	user := seededUser(t, fields, 7, sec.RoleUser)
	handler, _ := newTestHandler(t, newFakeUserRepo(user))
	router := handler.Routes()

	send := func(email string) (*httptest.ResponseRecorder, statusResponse) {
		body := `{"email":"` + email + `"}`
		request := httptest.NewRequest(http.MethodPost, "/forgot-password", strings.NewReader(body))
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, request)

		var payload statusResponse
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&payload))
		return recorder, payload
	}

	knownRecorder, knownPayload := send("andi@example.com")
	unknownRecorder, unknownPayload := send("ghost@example.com")

	assert.Equal(t, http.StatusOK, knownRecorder.Code)
	assert.Equal(t, knownRecorder.Code, unknownRecorder.Code)
	assert.Equal(t, knownPayload, unknownPayload)
}

func TestHandler_ResetPassword_BadToken(t *testing.T) {
	handler, _ := newTestHandler(t, newFakeUserRepo())
	router := handler.Routes()

	body := `{"token":"no-such-token","password":"a strong password"}`
	request := httptest.NewRequest(http.MethodPost, "/reset-password", strings.NewReader(body))
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestHandler_Register(t *testing.T) {
	handler, _ := newTestHandler(t, newFakeUserRepo())
	router := handler.Routes()

	body := `{"name":"Budi","email":"budi@example.com","password":"a strong password","phone":"0812"}`
	request := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(body))
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)

	require.Equal(t, http.StatusCreated, recorder.Code)

	// Sensitive columns never serialize.
	assert.NotContains(t, recorder.Body.String(), "password_hash")
	assert.NotContains(t, recorder.Body.String(), "a strong password")
}
