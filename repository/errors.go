package repository

import (
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/mongo"

	"storefront/apperror"
)

// storeError maps driver failures onto the service error taxonomy
func storeError(op string, err error) error {
	if err == nil {
		return nil
	}
	if mongo.IsTimeout(err) || mongo.IsNetworkError(err) {
		return apperror.ServiceUnavailable("Database unavailable", errors.Wrap(err, op))
	}
	return apperror.Internal("Database error", errors.Wrap(err, op))
}
