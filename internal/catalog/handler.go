package catalog

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/shopgrove/marketplace/internal/domain"
	"github.com/shopgrove/marketplace/internal/pkg/httputil"
)

// Handler handles HTTP requests for the catalog module.
type Handler struct {
	service   *Service
	validator *validator.Validate
}

// NewHandler creates a new catalog handler.
func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(),
	}
}

// RegisterPublicRoutes registers storefront routes. They run behind optional
// authentication so product views can be attributed to logged-in users.
func (h *Handler) RegisterPublicRoutes(r chi.Router) {
	r.Get("/home", h.HomeCategories)
	r.Get("/suggestions", h.Suggestions)
	r.Get("/products", h.ListProducts)
	r.Get("/products/{asin}", h.ViewProduct)
}

// RegisterSellerRoutes registers product management routes (seller/admin only).
func (h *Handler) RegisterSellerRoutes(r chi.Router) {
	r.Post("/products", h.CreateProduct)
	r.Put("/products/{asin}", h.UpdateProduct)
	r.Delete("/products/{asin}", h.DeleteProduct)
}

// HomeCategories handles GET /home.
func (h *Handler) HomeCategories(w http.ResponseWriter, r *http.Request) {
	previews, err := h.service.HomeCategories(r.Context())
	if err != nil {
		h.handleServiceError(r, w, err)
		return
	}
	httputil.Success(w, http.StatusOK, previews)
}

// Suggestions handles GET /suggestions.
func (h *Handler) Suggestions(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.Suggestions(r.Context())
	if err != nil {
		h.handleServiceError(r, w, err)
		return
	}
	httputil.Success(w, http.StatusOK, products)
}

// ListProducts handles GET /products with optional category and seller_id
// filters.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	filter := ProductFilter{}
	if category := r.URL.Query().Get("category"); category != "" {
		filter.Category = &category
	}
	if sellerID := r.URL.Query().Get("seller_id"); sellerID != "" {
		filter.SellerID = &sellerID
	}

	products, err := h.service.ListProducts(r.Context(), filter)
	if err != nil {
		h.handleServiceError(r, w, err)
		return
	}
	httputil.Success(w, http.StatusOK, products)
}

// ViewProduct handles GET /products/{asin}.
func (h *Handler) ViewProduct(w http.ResponseWriter, r *http.Request) {
	asin := chi.URLParam(r, "asin")

	product, err := h.service.ViewProduct(r.Context(), asin, httputil.AuditUserID(r.Context()))
	if err != nil {
		h.handleServiceError(r, w, err)
		return
	}
	httputil.Success(w, http.StatusOK, product)
}

// ProductRequest represents the request body for creating or updating a
// product.
type ProductRequest struct {
	ASIN        string  `json:"asin" validate:"required,min=1,max=32"`
	Title       string  `json:"title" validate:"required,min=1,max=512"`
	Description string  `json:"description"`
	Category    string  `json:"category" validate:"required,min=1,max=255"`
	Price       float64 `json:"price" validate:"gte=0"`
	ImageURL    string  `json:"image_url"`
	SellerID    *string `json:"seller_id"`
	InStock     *bool   `json:"in_stock"`
}

// ToDomain converts the request to a domain model.
func (p *ProductRequest) ToDomain() *domain.Product {
	inStock := true
	if p.InStock != nil {
		inStock = *p.InStock
	}

	return &domain.Product{
		ASIN:        p.ASIN,
		Title:       p.Title,
		Description: p.Description,
		Category:    p.Category,
		Price:       p.Price,
		ImageURL:    p.ImageURL,
		SellerID:    p.SellerID,
		InStock:     inStock,
	}
}

// CreateProduct handles POST /products.
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	product := req.ToDomain()
	err := h.service.CreateProduct(r.Context(), product, httputil.GetUserID(r.Context()), httputil.GetRole(r.Context()))
	if err != nil {
		h.handleServiceError(r, w, err)
		return
	}

	httputil.Success(w, http.StatusCreated, product)
}

// UpdateProduct handles PUT /products/{asin}.
func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	asin := chi.URLParam(r, "asin")

	var req ProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	// The path parameter wins over any asin in the body.
	req.ASIN = asin
	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	product := req.ToDomain()
	err := h.service.UpdateProduct(r.Context(), product, httputil.GetUserID(r.Context()), httputil.GetRole(r.Context()))
	if err != nil {
		h.handleServiceError(r, w, err)
		return
	}

	httputil.Success(w, http.StatusOK, product)
}

// DeleteProduct handles DELETE /products/{asin}.
func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	asin := chi.URLParam(r, "asin")

	err := h.service.DeleteProduct(r.Context(), asin, httputil.GetUserID(r.Context()), httputil.GetRole(r.Context()))
	if err != nil {
		h.handleServiceError(r, w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleServiceError(r *http.Request, w http.ResponseWriter, err error) {
	httputil.HandleError(r.Context(), w, err, []httputil.ErrorMapping{
		{Error: ErrProductNotFound, Status: http.StatusNotFound},
		{Error: ErrProductExists, Status: http.StatusConflict},
		{Error: ErrNotProductOwner, Status: http.StatusForbidden},
	})
}
