package repositories

import (
	"fmt"

	"github.com/desertthunder/backlog/internal/shared"
)

// scanner is satisfied by both [sql.Row] and [sql.Rows].
type scanner interface {
	Scan(dest ...any) error
}

// storageError marks a driver failure as [shared.ErrStorageUnavailable], keeping the cause in the message.
func storageError(msg string, err error) error {
	return fmt.Errorf("%w: %s: %v", shared.ErrStorageUnavailable, msg, err)
}
