package validation

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/ndewijer/Tax-Loss-Harvesting-Backend/internal/apperrors"
)

// ErrInvalidUUID is returned for ids that do not parse as a UUID.
var ErrInvalidUUID = apperrors.ErrInvalidUUID

// ValidateUUID checks if a string is a valid UUID
func ValidateUUID(id string) error {
	if id == "" {
		return apperrors.ErrEmptyID
	}
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidUUID, id)
	}
	return nil
}
