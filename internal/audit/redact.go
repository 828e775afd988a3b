package audit

import (
	"regexp"
	"strings"
)

// RedactedLiteral replaces field values that carry no safe-to-show prefix.
const RedactedLiteral = "***REDACTED***"

// mask replaces the obscured portion of partially-preserved values.
const mask = "***"

// DefaultPIIFields are redacted when the caller does not name fields
// explicitly.
var DefaultPIIFields = []string{"name", "phone", "email", "address", "date_of_birth"}

// PhonePrefixPattern is the block preserved from phone numbers: country code
// plus area code. The default keeps a one-or-two digit country code so UK
// numbers surface as "+44770***"; deployments with longer country codes can
// swap the pattern.
var PhonePrefixPattern = regexp.MustCompile(`^\+\d{1,2}\d{3}`)

// Redact returns a copy of record with the named PII fields obscured. It is
// a view-time transform for compliance exports; the stored entry keeps full
// detail so it can be produced under lawful request.
//
// The input is never mutated. Non-map and nil inputs are returned unchanged,
// and named fields absent from the record are silently skipped. The field
// name picks the rule: phone-like fields keep their dialing prefix,
// email-like fields keep the first character and domain, everything else
// becomes RedactedLiteral.
func Redact(record any, fields ...string) any {
	m, ok := record.(map[string]any)
	if !ok || m == nil {
		return record
	}
	if len(fields) == 0 {
		fields = DefaultPIIFields
	}

	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	for _, field := range fields {
		if _, present := out[field]; !present {
			continue
		}
		out[field] = redactValue(field, out[field])
	}
	return out
}

func redactValue(field string, v any) any {
	name := strings.ToLower(field)
	switch {
	case strings.Contains(name, "phone"):
		return redactPhone(v)
	case strings.Contains(name, "email"):
		return redactEmail(v)
	default:
		return RedactedLiteral
	}
}

// redactPhone keeps the country-and-area-code prefix; anything that doesn't
// look like a phone number is fully masked.
func redactPhone(v any) string {
	s, ok := v.(string)
	if !ok {
		return mask
	}
	if prefix := PhonePrefixPattern.FindString(s); prefix != "" {
		return prefix + mask
	}
	return mask
}

// redactEmail keeps the first character of the local part and the full
// domain: "jane@x.com" becomes "j***@x.com".
func redactEmail(v any) string {
	s, ok := v.(string)
	if ok {
		if at := strings.Index(s, "@"); at >= 1 {
			return s[:1] + mask + s[at:]
		}
	}
	return RedactedLiteral
}
