package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"

	"github.com/lib/pq"

	"github.com/jsamuelsen11/tabletodo-service/internal/domain"
)

// PostgreSQL error codes and classes the store reacts to.
const (
	codeUniqueViolation     = pq.ErrorCode("23505")
	classConnection         = pq.ErrorClass("08")
	classInsufficientRes    = pq.ErrorClass("53")
	classOperatorIntervened = pq.ErrorClass("57")
	classInvalidAuth        = pq.ErrorClass("28")
)

// translateError maps database errors to domain sentinels, keeping the
// original error in the chain.
func translateError(op string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", op, err)
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch {
		case pqErr.Code == codeUniqueViolation:
			return fmt.Errorf("%s: %w: %w", op, domain.ErrConflict, err)
		case pqErr.Code.Class() == classConnection,
			pqErr.Code.Class() == classInsufficientRes,
			pqErr.Code.Class() == classOperatorIntervened,
			pqErr.Code.Class() == classInvalidAuth:
			return fmt.Errorf("%s: %w: %w", op, domain.ErrUnavailable, err)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	var netErr net.Error
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) || errors.As(err, &netErr) {
		return fmt.Errorf("%s: %w: %w", op, domain.ErrUnavailable, err)
	}

	return fmt.Errorf("%s: %w", op, err)
}
