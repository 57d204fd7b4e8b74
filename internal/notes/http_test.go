// Copyright (c) 2026 Kertas. All rights reserved.
// Author: ad.kurnia.ws@gmail.com

package notes

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kertasdev/kertas/internal/platform/ctxutil"
	"github.com/kertasdev/kertas/internal/platform/sec"
)

func authedRequest(t *testing.T, method, target string, userID int64) *http.Request {
	t.Helper()
	request := httptest.NewRequest(method, target, nil)
	return request.WithContext(ctxutil.WithAuthUser(request.Context(), &sec.Identity{
		ID:   userID,
		Name: "Ayu",
		Role: sec.RoleUser,
	}))
}

func TestListNotes_PaginatedEnvelope(t *testing.T) {
	repo := newFakeRepo()
	service := NewService(repo, slog.New(slog.NewTextHandler(io.Discard, nil)))
	router := NewHandler(service).Routes()

	require.NoError(t, service.CreateNote(context.Background(), &Note{ID: uuidA, UserID: 1, Title: "First"}))
	require.NoError(t, service.CreateNote(context.Background(), &Note{ID: uuidB, UserID: 1, Title: "Second"}))
	require.NoError(t, service.CreateNote(context.Background(), &Note{ID: uuidC, UserID: 1, Title: "Third"}))

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, authedRequest(t, http.MethodGet, "/?page=2&limit=2", 1))

	require.Equal(t, http.StatusOK, recorder.Code)

	var body struct {
		Data []*Note `json:"data"`
		Meta struct {
			Page       int `json:"page"`
			Limit      int `json:"limit"`
			Total      int `json:"total"`
			TotalPages int `json:"total_pages"`
		} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))

	assert.Len(t, body.Data, 1)
	assert.Equal(t, 2, body.Meta.Page)
	assert.Equal(t, 2, body.Meta.Limit)
	assert.Equal(t, 3, body.Meta.Total)
	assert.Equal(t, 2, body.Meta.TotalPages)
}

func TestListNotes_RequiresSession(t *testing.T) {
	repo := newFakeRepo()
	service := NewService(repo, slog.New(slog.NewTextHandler(io.Discard, nil)))
	router := NewHandler(service).Routes()

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}
