package v1

import (
	"errors"

	"github.com/danielgtaylor/huma/v2"

	"github.com/plankhq/plank/internal/domain"
)

// mapDomainError translates store/service sentinels into HTTP problem
// responses. Anything unrecognized is a 500 with the entity named.
func mapDomainError(err error, entity string) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return huma.Error404NotFound(entity + " not found")
	case errors.Is(err, domain.ErrUnauthorized), errors.Is(err, domain.ErrForbidden):
		return huma.Error403Forbidden("no access to " + entity)
	case errors.Is(err, domain.ErrConflict):
		return huma.Error409Conflict(entity + " was modified concurrently")
	default:
		return huma.Error500InternalServerError("failed to process "+entity, err)
	}
}
