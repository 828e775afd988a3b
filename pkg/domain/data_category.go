package domain

import dErrors "clinicore/pkg/domain-errors"

// DataCategory classifies stored records for retention purposes. Every audit
// entry carries the category of the entity it describes, and the retention
// policy table is keyed on these values.
//
// Usage: construct via ParseDataCategory at trust boundaries; services that
// record audit entries use the constants directly.
type DataCategory string

// Categories covered by the seeded retention policy set.
const (
	CategoryCallRecord  DataCategory = "call_record"
	CategoryAppointment DataCategory = "appointment"
	CategoryAuditLog    DataCategory = "audit_log"
	CategoryAccount     DataCategory = "account"
	CategoryConsent     DataCategory = "consent"
)

// validDataCategories is the single source of truth for known categories.
var validDataCategories = map[DataCategory]bool{
	CategoryCallRecord:  true,
	CategoryAppointment: true,
	CategoryAuditLog:    true,
	CategoryAccount:     true,
	CategoryConsent:     true,
}

// ParseDataCategory constructs a DataCategory from external input.
//
// Errors: returns CodeInvalidInput when the value is empty or unknown.
func ParseDataCategory(s string) (DataCategory, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "data category cannot be empty")
	}
	c := DataCategory(s)
	if !c.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "unknown data category")
	}
	return c, nil
}

// IsValid checks if the category is one of the known enum values.
func (c DataCategory) IsValid() bool {
	return validDataCategories[c]
}

// String returns the string representation of the category.
func (c DataCategory) String() string {
	return string(c)
}
