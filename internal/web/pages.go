// Copyright (c) 2026 Kertas. All rights reserved.
// Author: ad.kurnia.ws@gmail.com

/*
Package web serves the navigable HTML surface.

Pages are deliberately minimal server-rendered shells: the real UI is a
client bundle outside this repository. What matters here is that every
page passes through the route guard, so the login redirects, role homes,
and public letter pages are exercised end to end.
*/
package web

import (
	"html/template"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/kertasdev/kertas/internal/auth"
	"github.com/kertasdev/kertas/internal/platform/ctxutil"
	"github.com/kertasdev/kertas/pkg/slug"
)

// suratTitleCaser turns a letter slug back into a display heading.
var suratTitleCaser = cases.Title(language.Indonesian)

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="id">
<head>
<meta charset="utf-8">
<title>{{.Title}} · Kertas</title>
</head>
<body>
<h1>{{.Title}}</h1>
{{if .UserName}}<p>Masuk sebagai {{.UserName}}</p>{{end}}
</body>
</html>
`))

type pageData struct {
	Title    string
	UserName string
}

// Handler renders the guarded page shells.
type Handler struct {
	guard *auth.Guard
}

// NewHandler constructs a web [Handler] bound to the route guard.
func NewHandler(guard *auth.Guard) *Handler {
	return &Handler{guard: guard}
}

// Routes returns the page router with the guard applied to every route.
//
// # Pages
//   - /            : User dashboard (any session).
//   - /account     : Login entry; authenticated users bounce to their home.
//   - /admin       : Admin dashboard (role 2+).
//   - /superadmin  : Super-admin dashboard (role 1).
//   - /surat/*     : Public letter pages, no session required.
//   - /surat-generator : Letter generator, session required.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(handler.guard.Middleware)

	router.Get("/", handler.page("Beranda"))
	router.Get("/account", handler.page("Masuk"))
	router.Get("/account/reset-password", handler.page("Atur Ulang Kata Sandi"))
	router.Get("/admin", handler.page("Dasbor Admin"))
	router.Get("/superadmin", handler.page("Dasbor Super Admin"))
	router.Get("/surat-generator", handler.page("Generator Surat"))
	router.Get("/surat/*", handler.suratPage)
	router.Get("/notes", handler.page("Catatan"))
	router.Get("/wallet", handler.page("Dompet"))

	return router
}

// suratPage serves a shared letter under its canonical slug.
//
// Letter URLs circulate over chat apps, so anything pasteable must resolve:
// a request whose path segment is not already in slug form is redirected
// permanently to the canonical address.
func (handler *Handler) suratPage(writer http.ResponseWriter, request *http.Request) {
	raw := chi.URLParam(request, "*")
	canonical := slug.From(raw)

	if canonical == "" {
		http.NotFound(writer, request)
		return
	}
	if raw != canonical {
		http.Redirect(writer, request, "/surat/"+canonical, http.StatusMovedPermanently)
		return
	}

	title := suratTitleCaser.String(strings.ReplaceAll(canonical, "-", " "))
	handler.page(title)(writer, request)
}

// page renders the shared shell with the guard-injected identity, if any.
func (handler *Handler) page(title string) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		data := pageData{Title: title}
		if identity := ctxutil.GetAuthUser(request.Context()); identity != nil {
			data.UserName = identity.Name
		}

		writer.Header().Set("Content-Type", "text/html; charset=utf-8")
		_ = pageTemplate.Execute(writer, data)
	}
}
