package services

import (
	"context"

	"github.com/fxdesk/tradebook/internal/core/domain"
)

// PrivilegeChecker is the externally supplied capability model. Authorize
// returns nil when the caller may perform the action, apperrors.ErrForbidden
// when not, and apperrors.ErrNotFound for an unknown caller. A denial
// short-circuits an operation before any validation or persistence.
type PrivilegeChecker interface {
	Authorize(ctx context.Context, userID string, action domain.PrivilegeAction) error
}
