package api

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/hadfield/catalog/pkg/httputil"
	"github.com/hadfield/catalog/pkg/middleware"
	"github.com/hadfield/catalog/pkg/observability"
	"github.com/hadfield/catalog/pkg/storage"
)

// ProductHandlers handles catalog CRUD.
type ProductHandlers struct {
	products storage.ProductStore
	logger   *observability.Logger
}

// NewProductHandlers creates a new product handlers instance
func NewProductHandlers(products storage.ProductStore, logger *observability.Logger) *ProductHandlers {
	return &ProductHandlers{
		products: products,
		logger:   logger,
	}
}

// RegisterRoutes registers catalog routes. Reads are public; mutations
// run behind the auth gate and the admin check.
func (h *ProductHandlers) RegisterRoutes(router *mux.Router, authmw *middleware.AuthMiddleware) {
	router.HandleFunc("/api/products", h.listProducts).Methods("GET")
	router.HandleFunc("/api/products/{id}", h.getProduct).Methods("GET")

	adminOnly := func(fn http.HandlerFunc) http.Handler {
		return authmw.Handler(authmw.RequireAdmin(fn))
	}
	router.Handle("/api/products", adminOnly(h.createProduct)).Methods("POST")
	router.Handle("/api/products/{id}", adminOnly(h.updateProduct)).Methods("PUT")
	router.Handle("/api/products/{id}", adminOnly(h.deleteProduct)).Methods("DELETE")
}

// listProducts handles GET /api/products
func (h *ProductHandlers) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.ListProducts(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("failed to list products")
		httputil.WriteInternalError(w)
		return
	}
	httputil.WriteSuccess(w, products)
}

// getProduct handles GET /api/products/{id}
func (h *ProductHandlers) getProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathStringOrError(w, r, "id")
	if !ok {
		return
	}

	product, err := h.products.GetProduct(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			httputil.WriteNotFound(w, "product not found")
			return
		}
		h.logger.WithError(err).Error("failed to get product")
		httputil.WriteInternalError(w)
		return
	}
	httputil.WriteSuccess(w, product)
}

// createProduct handles POST /api/products
func (h *ProductHandlers) createProduct(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}
	if !httputil.RequireNonEmpty(w, req.Name, "name") {
		return
	}
	if req.Price < 0 {
		httputil.WriteBadRequest(w, "price must be non-negative")
		return
	}

	product, err := h.products.CreateProduct(r.Context(), &storage.Product{
		Name:        req.Name,
		Price:       req.Price,
		Description: req.Description,
		Image:       req.Image,
		Category:    req.Category,
	})
	if err != nil {
		h.logger.WithError(err).Error("failed to create product")
		httputil.WriteInternalError(w)
		return
	}
	httputil.WriteCreated(w, product)
}

// updateProduct handles PUT /api/products/{id} with partial-update
// semantics: absent fields retain their stored values.
func (h *ProductHandlers) updateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathStringOrError(w, r, "id")
	if !ok {
		return
	}

	var update storage.ProductUpdate
	if !httputil.ParseJSONOrError(w, r, &update) {
		return
	}
	if update.Price != nil && *update.Price < 0 {
		httputil.WriteBadRequest(w, "price must be non-negative")
		return
	}

	product, err := h.products.UpdateProduct(r.Context(), id, &update)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			httputil.WriteNotFound(w, "product not found")
			return
		}
		h.logger.WithError(err).Error("failed to update product")
		httputil.WriteInternalError(w)
		return
	}
	httputil.WriteSuccess(w, product)
}

// deleteProduct handles DELETE /api/products/{id}
func (h *ProductHandlers) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathStringOrError(w, r, "id")
	if !ok {
		return
	}

	if err := h.products.DeleteProduct(r.Context(), id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			httputil.WriteNotFound(w, "product not found")
			return
		}
		h.logger.WithError(err).Error("failed to delete product")
		httputil.WriteInternalError(w)
		return
	}
	httputil.WriteMessage(w, http.StatusOK, "product deleted successfully")
}
