package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// Common domain errors
	ErrNotFound          = errors.New("entity not found")
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrRoleMissing       = errors.New("custom role no longer exists")
	ErrNoColorPacks      = errors.New("no color packs owned")
	ErrUserBusy          = errors.New("user record is locked by another operation")
	ErrAlreadyMuted      = errors.New("member is already muted")
	ErrNotMuted          = errors.New("member is not muted")
	ErrInvalidExecContext = errors.New("invalid query executor context")
)

// PurchaseDenied aggregates every eligibility condition a purchase failed.
// Validation never short-circuits: callers get the full list in one response.
type PurchaseDenied struct {
	Conditions []string
}

func (e *PurchaseDenied) Error() string {
	return fmt.Sprintf("purchase denied: %s", strings.Join(e.Conditions, "; "))
}

// Denied builds a PurchaseDenied when any condition text was collected,
// or nil when the purchase is eligible.
func Denied(conditions []string) error {
	if len(conditions) == 0 {
		return nil
	}
	return &PurchaseDenied{Conditions: conditions}
}
