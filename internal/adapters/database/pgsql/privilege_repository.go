package pgsql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fxdesk/tradebook/internal/apperrors"
	"github.com/fxdesk/tradebook/internal/core/domain"
	portssvc "github.com/fxdesk/tradebook/internal/core/ports/services"
)

// PgxPrivilegeStore answers per-action authorization checks from the
// user_privileges table. Grants are keyed on the caller's login id, which is
// what the identity middleware carries.
type PgxPrivilegeStore struct {
	pool *pgxpool.Pool
}

// NewPgxPrivilegeStore creates a new privilege store.
func NewPgxPrivilegeStore(pool *pgxpool.Pool) portssvc.PrivilegeChecker {
	return &PgxPrivilegeStore{pool: pool}
}

var _ portssvc.PrivilegeChecker = (*PgxPrivilegeStore)(nil)

// Authorize checks that the user holds the named action grant. A user with no
// grants at all is indistinguishable from an unknown user and both are refused.
func (s *PgxPrivilegeStore) Authorize(ctx context.Context, userID string, action domain.PrivilegeAction) error {
	var granted bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM user_privileges WHERE user_id = $1 AND action = $2)`,
		userID, string(action)).Scan(&granted)
	if err != nil {
		return fmt.Errorf("failed to check privileges of user %s: %w", userID, err)
	}
	if !granted {
		return fmt.Errorf("%w: user %s is not authorized to %s trades", apperrors.ErrForbidden, userID, action)
	}
	return nil
}
