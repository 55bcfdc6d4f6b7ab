package users

import (
	"strings"

	"github.com/stevemurr/simple-user-server/store"
)

// CheckUniqueEmail fails with ErrEmailConflict if a record other than
// excludeID already uses email. Comparison ignores case.
func CheckUniqueEmail(existing []store.User, email string, excludeID int) error {
	for _, u := range existing {
		if u.ID != excludeID && strings.EqualFold(u.Email, email) {
			return ErrEmailConflict
		}
	}
	return nil
}
