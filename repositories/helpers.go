package repositories

import (
	"errors"
	"fmt"

	"github.com/Dosada05/tournament-admin/apiclient"
)

// mapAPIError translates a not-found or conflict answer of the competition API into the
// repository's own sentinel, keeping the original error in the chain for its message.
// A nil sentinel leaves that case untouched.
func mapAPIError(err error, notFoundError, conflictError error) error {
	switch {
	case err == nil:
		return nil
	case notFoundError != nil && errors.Is(err, apiclient.ErrNotFound):
		return fmt.Errorf("%w: %w", notFoundError, err)
	case conflictError != nil && errors.Is(err, apiclient.ErrConflict):
		return fmt.Errorf("%w: %w", conflictError, err)
	}
	return err
}
