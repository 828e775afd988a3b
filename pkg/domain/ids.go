// Package domain holds the shared value types of the clinic platform: typed
// identifiers and the data categories the retention engine keys on.
//
// Typed IDs prevent cross-type assignment at compile time; construct them via
// the Parse functions at trust boundaries so validation is not bypassed.
package domain

import (
	"github.com/google/uuid"

	dErrors "clinicore/pkg/domain-errors"
)

// TenantID identifies one clinic. Tenant data must never be visible to other
// tenants, so handlers resolve the tenant once and services carry it through.
type TenantID uuid.UUID

// UserID identifies a staff member or patient account.
type UserID uuid.UUID

// ParseTenantID constructs a TenantID from external input.
func ParseTenantID(s string) (TenantID, error) {
	u, err := parseUUID(s)
	if err != nil {
		return TenantID{}, err
	}
	return TenantID(u), nil
}

// ParseUserID constructs a UserID from external input.
func ParseUserID(s string) (UserID, error) {
	u, err := parseUUID(s)
	if err != nil {
		return UserID{}, err
	}
	return UserID(u), nil
}

func parseUUID(s string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id cannot be empty")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id must be a valid UUID")
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id cannot be the nil UUID")
	}
	return u, nil
}

// IsNil reports whether the tenant ID is the zero UUID.
func (t TenantID) IsNil() bool { return uuid.UUID(t) == uuid.Nil }

// String returns the canonical UUID form.
func (t TenantID) String() string { return uuid.UUID(t).String() }

// IsNil reports whether the user ID is the zero UUID.
func (u UserID) IsNil() bool { return uuid.UUID(u) == uuid.Nil }

// String returns the canonical UUID form.
func (u UserID) String() string { return uuid.UUID(u).String() }
