package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "clinicore/pkg/domain-errors"
)

func TestParseTenantID(t *testing.T) {
	t.Run("accepts a valid UUID", func(t *testing.T) {
		raw := uuid.New().String()
		id, err := ParseTenantID(raw)
		require.NoError(t, err)
		assert.Equal(t, raw, id.String())
		assert.False(t, id.IsNil())
	})

	t.Run("rejects empty, malformed, and nil input", func(t *testing.T) {
		for _, raw := range []string{"", "not-a-uuid", uuid.Nil.String()} {
			_, err := ParseTenantID(raw)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput), "input %q", raw)
		}
	})
}

func TestParseDataCategory(t *testing.T) {
	t.Run("accepts every known category", func(t *testing.T) {
		for _, raw := range []string{"call_record", "appointment", "audit_log", "account", "consent"} {
			c, err := ParseDataCategory(raw)
			require.NoError(t, err, "category %q", raw)
			assert.Equal(t, raw, c.String())
			assert.True(t, c.IsValid())
		}
	})

	t.Run("rejects unknown categories", func(t *testing.T) {
		for _, raw := range []string{"", "patient", "CALL_RECORD"} {
			_, err := ParseDataCategory(raw)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput), "input %q", raw)
		}
	})
}
