package content

import (
	"fmt"

	"later/internal/domain"
	"later/internal/repository/postgres"
)

// lookupErr maps missing rows and malformed ids to domain.ErrNotFound
func lookupErr(err error, resource, id string) error {
	if postgres.IsPgNoRowsError(err) || postgres.IsPgInvalidTextError(err) {
		return fmt.Errorf("%s %s: %w", resource, id, domain.ErrNotFound)
	}
	return fmt.Errorf("get %s: %w", resource, err)
}
