package aztable

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/data/aztables"

	"github.com/jsamuelsen11/tabletodo-service/internal/domain"
)

// translateError maps a Table service error to a domain sentinel. Errors
// without a service response (breaker open, network failure) are reported
// as domain.ErrUnavailable.
func translateError(op string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", op, err)
	}

	var respErr *azcore.ResponseError
	if !errors.As(err, &respErr) {
		return fmt.Errorf("%s: %w: %w", op, domain.ErrUnavailable, err)
	}

	switch {
	case respErr.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	case respErr.StatusCode == http.StatusConflict,
		respErr.StatusCode == http.StatusPreconditionFailed:
		return fmt.Errorf("%s: %s: %w", op, respErr.ErrorCode, domain.ErrConflict)
	case respErr.StatusCode == http.StatusUnauthorized,
		respErr.StatusCode == http.StatusForbidden,
		respErr.StatusCode == http.StatusTooManyRequests,
		respErr.StatusCode >= http.StatusInternalServerError:
		return fmt.Errorf("%s: %w: %w", op, domain.ErrUnavailable, err)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

func isErrorCode(err error, code aztables.TableErrorCode) bool {
	var respErr *azcore.ResponseError
	return errors.As(err, &respErr) && respErr.ErrorCode == string(code)
}
