package http

import (
	"fmt"
	"net/http"

	"github.com/tuanvumaihuynh/storefront-catalog/internal/apperr"
	"github.com/tuanvumaihuynh/storefront-catalog/internal/auth"
	"github.com/tuanvumaihuynh/storefront-catalog/pkg/validator"
)

type adminHandler struct {
	credStore auth.CredentialStore
	validator validator.Validator
}

func newAdminHandler(credStore auth.CredentialStore, validator validator.Validator) *adminHandler {
	return &adminHandler{
		credStore: credStore,
		validator: validator,
	}
}

func (h *adminHandler) Login(w http.ResponseWriter, r *http.Request) error {
	var req AdminLoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return err
	}
	if err := h.validator.Validate(req); err != nil {
		return fmt.Errorf("validate admin login request: %w", err)
	}

	if !h.credStore.Verify(r.Context(), auth.Credentials{
		Email:    req.Email,
		Password: req.Password,
	}) {
		return apperr.InvalidCredentialsErr
	}

	return writeJSON(w, http.StatusOK, AdminLoginResponse{Authenticated: true})
}
