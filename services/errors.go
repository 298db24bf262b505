// services/errors.go
package services

import (
	"errors"

	"github.com/google/uuid"
)

var (
	ErrInvalidID         = errors.New("invalid id format")
	ErrInvalidStatus     = errors.New("unknown status")
	ErrInvalidTransition = errors.New("status transition not allowed")
)

func parseUUID(s string) (uuid.UUID, error) {
	return uuid.Parse(s)
}
