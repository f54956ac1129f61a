package services

import (
	"errors"

	"github.com/talentbridge/backend/internal/models"
)

// Error taxonomy for the payment and access core. Handlers map these to
// HTTP statuses; collaborator failures (mail, gateway) are wrapped in
// ErrUpstream or swallowed at the dispatch boundary.
var (
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict")
	ErrForbidden          = errors.New("forbidden")
	ErrValidation         = errors.New("validation failed")
	ErrVerificationFailed = errors.New("signature verification failed")
	ErrUpstream           = errors.New("upstream unavailable")
)

// requireAdmin is the single authorization guard for admin-only
// operations in this package.
func requireAdmin(user *models.User) error {
	if user == nil || !user.IsAdmin() {
		return ErrForbidden
	}
	return nil
}
