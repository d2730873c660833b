package api

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/hadfield/catalog/pkg/auth"
	"github.com/hadfield/catalog/pkg/httputil"
	"github.com/hadfield/catalog/pkg/observability"
	"github.com/hadfield/catalog/pkg/storage"
)

// AuthHandlers handles registration and login.
type AuthHandlers struct {
	users  storage.UserStore
	tokens *auth.TokenService
	hasher *auth.PasswordHasher
	logger *observability.Logger
}

// NewAuthHandlers creates a new auth handlers instance
func NewAuthHandlers(users storage.UserStore, tokens *auth.TokenService, hasher *auth.PasswordHasher, logger *observability.Logger) *AuthHandlers {
	return &AuthHandlers{
		users:  users,
		tokens: tokens,
		hasher: hasher,
		logger: logger,
	}
}

// RegisterRoutes registers identity routes
func (h *AuthHandlers) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/users/register", h.register).Methods("POST")
	router.HandleFunc("/api/users/login", h.login).Methods("POST")
}

// register handles POST /api/users/register. On success a token
// scoped to the new non-admin user is issued immediately.
func (h *AuthHandlers) register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}
	if !httputil.RequireNonEmpty(w, req.Name, "name") {
		return
	}
	if !httputil.RequireNonEmpty(w, req.Email, "email") {
		return
	}
	if !httputil.RequireNonEmpty(w, req.Password, "password") {
		return
	}

	hashed, err := h.hasher.Hash(req.Password)
	if err != nil {
		h.logger.WithError(err).Error("password hashing failed")
		httputil.WriteInternalError(w)
		return
	}

	user := &storage.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hashed,
		IsAdmin:      false,
	}
	if err := h.users.CreateUser(r.Context(), user); err != nil {
		if errors.Is(err, storage.ErrDuplicateEmail) {
			httputil.WriteBadRequest(w, "user already exists")
			return
		}
		h.logger.WithError(err).Error("failed to create user")
		httputil.WriteInternalError(w)
		return
	}

	token, err := h.tokens.Issue(user.ID, user.IsAdmin)
	if err != nil {
		h.logger.WithError(err).Error("failed to issue token")
		httputil.WriteInternalError(w)
		return
	}

	httputil.WriteCreated(w, TokenResponse{Token: token})
}

// login handles POST /api/users/login. Unknown email and wrong
// password collapse into one response to prevent account enumeration.
func (h *AuthHandlers) login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}

	user, err := h.users.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			httputil.WriteBadRequest(w, "invalid credentials")
			return
		}
		h.logger.WithError(err).Error("failed to look up user")
		httputil.WriteInternalError(w)
		return
	}

	if !h.hasher.Verify(req.Password, user.PasswordHash) {
		httputil.WriteBadRequest(w, "invalid credentials")
		return
	}

	token, err := h.tokens.Issue(user.ID, user.IsAdmin)
	if err != nil {
		h.logger.WithError(err).Error("failed to issue token")
		httputil.WriteInternalError(w)
		return
	}

	httputil.WriteSuccess(w, LoginResponse{Token: token, User: user})
}
