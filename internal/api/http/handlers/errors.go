package handlers

import (
	"errors"

	"github.com/spec-kit/ghostname-service/internal/domain"
	"github.com/spec-kit/ghostname-service/internal/service"
	apperrors "github.com/spec-kit/ghostname-service/pkg/util/errorutil"
)

// serviceError translates engine sentinels into client-facing errors.
func serviceError(err error, resource string, details map[string]any) error {
	var profileErr *service.ProfileError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &profileErr):
		fields := make(map[string]any, len(profileErr.Fields))
		for k, v := range profileErr.Fields {
			fields[k] = v
		}
		return apperrors.NewValidationError("first name and last name are required; only letters, spaces, apostrophes and hyphens are allowed", fields)
	case errors.Is(err, domain.ErrIdentityRequired):
		return apperrors.NewUnauthorized("identity required")
	case errors.Is(err, domain.ErrNotFound):
		return apperrors.NewNotFound(resource, details)
	case errors.Is(err, domain.ErrConflict):
		return apperrors.NewConflict("ghost name was claimed by someone else, please pick again", details)
	case errors.Is(err, domain.ErrStoreUnavailable):
		return apperrors.NewUnavailable(err)
	default:
		return apperrors.MapError(err)
	}
}
