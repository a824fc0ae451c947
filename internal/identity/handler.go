package identity

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/shopgrove/marketplace/internal/domain"
	"github.com/shopgrove/marketplace/internal/pkg/httputil"
)

// Handler handles HTTP requests for the identity module.
type Handler struct {
	service   *Service
	validator *validator.Validate
}

// NewHandler creates a new identity handler.
func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(),
	}
}

// RegisterRoutes registers public identity routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
		r.Post("/quick-login", h.QuickLogin)
	})
}

// RegisterProtectedRoutes registers routes that require authentication.
func (h *Handler) RegisterProtectedRoutes(r chi.Router) {
	r.Get("/me", h.Me)
}

// RegisterAdminRoutes registers admin-only routes.
func (h *Handler) RegisterAdminRoutes(r chi.Router) {
	r.Get("/users", h.ListUsers)
}

// QuickLoginRequest represents the visitor login request body.
type QuickLoginRequest struct {
	Email string `json:"email" validate:"required"`
	Role  string `json:"role"`
}

// QuickLoginResponse represents the visitor login response.
type QuickLoginResponse struct {
	Message string      `json:"message"`
	UserID  string      `json:"userId"`
	Role    domain.Role `json:"role"`
	Counter int         `json:"counter"`
}

// QuickLogin handles POST /auth/quick-login. Responds 200 for an existing
// user and 201 when the email was seen for the first time.
func (h *Handler) QuickLogin(w http.ResponseWriter, r *http.Request) {
	var req QuickLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	result, err := h.service.QuickLogin(r.Context(), QuickLoginInput(req))
	if err != nil {
		httputil.HandleError(r.Context(), w, err, []httputil.ErrorMapping{
			{Error: ErrEmailRequired, Status: http.StatusBadRequest},
		})
		return
	}

	httputil.Success(w, result.Status, QuickLoginResponse{
		Message: result.Message,
		UserID:  result.UserID,
		Role:    result.Role,
		Counter: result.Counter,
	})
}

// RegisterRequest represents the credentialed registration request body.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"required"`
}

// Register handles POST /auth/register.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	user, err := h.service.Register(r.Context(), RegisterInput(req))
	if err != nil {
		httputil.HandleError(r.Context(), w, err, []httputil.ErrorMapping{
			{Error: ErrInvalidRole, Status: http.StatusBadRequest},
			{Error: ErrEmailExists, Status: http.StatusConflict},
		})
		return
	}

	httputil.Success(w, http.StatusCreated, user)
}

// LoginRequest represents the credentialed login request body.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse represents the credentialed login response.
type LoginResponse struct {
	Token   string      `json:"token"`
	Role    domain.Role `json:"role"`
	Message string      `json:"message"`
}

// Login handles POST /auth/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	result, err := h.service.Login(r.Context(), LoginInput(req))
	if err != nil {
		httputil.HandleError(r.Context(), w, err, []httputil.ErrorMapping{
			{Error: ErrUserNotFound, Status: http.StatusBadRequest},
			{Error: ErrInvalidCredentials, Status: http.StatusBadRequest},
		})
		return
	}

	httputil.Success(w, http.StatusOK, LoginResponse{
		Token:   result.Token,
		Role:    result.User.Role,
		Message: "login successful",
	})
}

// Me handles GET /me.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	userID := httputil.GetUserID(r.Context())
	if userID == "" {
		httputil.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	user, err := h.service.GetUserByID(r.Context(), userID)
	if err != nil {
		httputil.HandleError(r.Context(), w, err, []httputil.ErrorMapping{
			{Error: ErrUserNotFound, Status: http.StatusNotFound},
		})
		return
	}

	httputil.Success(w, http.StatusOK, user)
}

// ListUsers handles GET /users.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		httputil.HandleError(r.Context(), w, err, nil)
		return
	}

	httputil.Success(w, http.StatusOK, users)
}
