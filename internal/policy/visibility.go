// Package policy decides who may see or act on participant-owned records.
// Rules are deliberately coarse: a record belongs to its owner ref, staff see
// everything, and team-owned records are handled by staff because the
// platform carries no team rosters.
package policy

import (
	"github.com/deltaarena/backend/internal/models"
)

// Field names a gated piece of data, so call sites state what they are
// protecting and per-field loosening has one place to happen.
type Field string

const (
	FieldRegistration Field = "registration"
	FieldCustomData   Field = "custom_data"
	FieldPayment      Field = "payment"
	FieldWallet       Field = "wallet"
)

// CanView reports whether the actor may read the given field of a record
// owned by ownerRef.
func CanView(actor models.Actor, ownerRef string, _ Field) bool {
	if actor.Staff {
		return true
	}
	return ownerRef == actor.OwnerRef()
}

// CanManage reports whether the actor may mutate a record owned by ownerRef.
// Owners manage their own records; everything else is staff.
func CanManage(actor models.Actor, ownerRef string) bool {
	if actor.Staff {
		return true
	}
	return ownerRef == actor.OwnerRef()
}
