// Package portal provides the role-scoped dashboard endpoints.
package portal

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopgrove/marketplace/internal/catalog"
	"github.com/shopgrove/marketplace/internal/domain"
	"github.com/shopgrove/marketplace/internal/identity"
	"github.com/shopgrove/marketplace/internal/pkg/httputil"
)

// UserReader reads user records for the customer and admin dashboards.
type UserReader interface {
	GetUserByID(ctx context.Context, id string) (*domain.User, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
}

// ProductReader reads a seller's products for the seller dashboard.
type ProductReader interface {
	ListProducts(ctx context.Context, filter catalog.ProductFilter) ([]domain.Product, error)
}

// Handler handles HTTP requests for the portal module.
type Handler struct {
	users    UserReader
	products ProductReader
}

// NewHandler creates a new portal handler.
func NewHandler(users UserReader, products ProductReader) *Handler {
	return &Handler{
		users:    users,
		products: products,
	}
}

// RegisterCustomerRoutes registers customer-only routes.
func (h *Handler) RegisterCustomerRoutes(r chi.Router) {
	r.Get("/portal/customer", h.CustomerDashboard)
}

// RegisterSellerRoutes registers seller-only routes.
func (h *Handler) RegisterSellerRoutes(r chi.Router) {
	r.Get("/portal/seller", h.SellerDashboard)
}

// RegisterAdminRoutes registers admin-only routes.
func (h *Handler) RegisterAdminRoutes(r chi.Router) {
	r.Get("/portal/admin", h.AdminDashboard)
}

// CustomerDashboardResponse represents the customer dashboard payload.
type CustomerDashboardResponse struct {
	Message string       `json:"message"`
	User    *domain.User `json:"user"`
}

// CustomerDashboard handles GET /portal/customer.
func (h *Handler) CustomerDashboard(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.GetUserByID(r.Context(), httputil.GetUserID(r.Context()))
	if err != nil {
		h.handleServiceError(r, w, err)
		return
	}

	httputil.Success(w, http.StatusOK, CustomerDashboardResponse{
		Message: "customer dashboard",
		User:    user,
	})
}

// SellerDashboardResponse represents the seller dashboard payload.
type SellerDashboardResponse struct {
	Message  string           `json:"message"`
	Products []domain.Product `json:"products"`
}

// SellerDashboard handles GET /portal/seller.
func (h *Handler) SellerDashboard(w http.ResponseWriter, r *http.Request) {
	sellerID := httputil.GetUserID(r.Context())
	products, err := h.products.ListProducts(r.Context(), catalog.ProductFilter{SellerID: &sellerID})
	if err != nil {
		h.handleServiceError(r, w, err)
		return
	}

	httputil.Success(w, http.StatusOK, SellerDashboardResponse{
		Message:  "seller dashboard",
		Products: products,
	})
}

// AdminDashboardResponse represents the admin dashboard payload.
type AdminDashboardResponse struct {
	Message string        `json:"message"`
	Users   []domain.User `json:"users"`
}

// AdminDashboard handles GET /portal/admin.
func (h *Handler) AdminDashboard(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.ListUsers(r.Context())
	if err != nil {
		h.handleServiceError(r, w, err)
		return
	}

	httputil.Success(w, http.StatusOK, AdminDashboardResponse{
		Message: "admin dashboard",
		Users:   users,
	})
}

func (h *Handler) handleServiceError(r *http.Request, w http.ResponseWriter, err error) {
	httputil.HandleError(r.Context(), w, err, []httputil.ErrorMapping{
		{Error: identity.ErrUserNotFound, Status: http.StatusNotFound},
	})
}
