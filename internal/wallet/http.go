// Copyright (c) 2026 Kertas. All rights reserved.
// Author: ad.kurnia.ws@gmail.com

package wallet

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/kertasdev/kertas/internal/platform/apperr"
	"github.com/kertasdev/kertas/internal/platform/middleware"
	requestutil "github.com/kertasdev/kertas/internal/platform/request"
	"github.com/kertasdev/kertas/internal/platform/respond"
	"github.com/kertasdev/kertas/internal/platform/validate"
)

// Handler implements the wallet HTTP endpoints.
type Handler struct {
	walletService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{walletService: service}
}

// Routes returns a [chi.Router] with the wallet endpoints. Every route
// requires an authenticated session.
//
// # Endpoints
//   - GET    /categories              : Lists the caller's categories.
//   - POST   /categories              : Creates a category.
//   - PUT    /categories/{categoryID} : Renames a category.
//   - DELETE /categories/{categoryID} : Deletes a category and its budgets.
//   - GET    /budgets                 : Lists one month's allocation (?month=).
//   - PUT    /budgets                 : Replaces one month's allocation.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireAuth)

	router.Get("/categories", handler.listCategories)
	router.Post("/categories", handler.createCategory)
	router.Put("/categories/{categoryID}", handler.updateCategory)
	router.Delete("/categories/{categoryID}", handler.deleteCategory)

	router.Get("/budgets", handler.listBudgets)
	router.Put("/budgets", handler.replaceBudgets)

	return router
}

// # Request Payloads

type categoryPayload struct {
	Name string  `json:"name"`
	Icon *string `json:"icon"`
}

func categoryID(request *http.Request) (int64, error) {
	id, err := strconv.ParseInt(requestutil.Param(request, "categoryID"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.ValidationError("Invalid category identifier")
	}
	return id, nil
}

func (handler *Handler) listCategories(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	categories, err := handler.walletService.ListCategories(request.Context(), claims.ID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, categories)
}

func (handler *Handler) createCategory(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input categoryPayload
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	category := &Category{UserID: claims.ID, Name: input.Name, Icon: input.Icon}
	if err := handler.walletService.CreateCategory(request.Context(), category); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, category)
}

func (handler *Handler) updateCategory(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	id, err := categoryID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input categoryPayload
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	category := &Category{ID: id, UserID: claims.ID, Name: input.Name, Icon: input.Icon}
	if err := handler.walletService.UpdateCategory(request.Context(), category); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, category)
}

func (handler *Handler) deleteCategory(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	id, err := categoryID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.walletService.DeleteCategory(request.Context(), claims.ID, id); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

func (handler *Handler) listBudgets(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	budgets, err := handler.walletService.ListBudgets(request.Context(), claims.ID, request.URL.Query().Get("month"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, budgets)
}

/*
ReplaceBudgets swaps the caller's complete allocation for one month.

PUT /api/v1/wallet/budgets

Description: The body carries the whole month; existing rows for that month
are deleted and the new set inserted in one transaction.

Request:
  - Body: BudgetAllocation (Month, Items)

Response:
  - 200: Budget list as persisted
  - 400: ErrInvalidJSON: Bad month key, negative amount, or foreign category
*/
func (handler *Handler) replaceBudgets(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input BudgetAllocation
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	if err := handler.walletService.ReplaceBudgets(request.Context(), claims.ID, input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	for _, item := range input.Items {
		item.Month = input.Month
	}
	respond.OK(writer, input.Items)
}
