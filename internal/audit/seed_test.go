package audit

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clinicore/pkg/domain"
	"clinicore/pkg/platform/sentinel"
)

func TestSeedDefaultPolicies(t *testing.T) {
	ctx := context.Background()

	t.Run("seeds an active policy for every category", func(t *testing.T) {
		store := newStubPolicyStore()
		require.NoError(t, SeedDefaultPolicies(ctx, store, nil))

		for _, category := range []domain.DataCategory{
			domain.CategoryCallRecord,
			domain.CategoryAppointment,
			domain.CategoryAuditLog,
			domain.CategoryAccount,
			domain.CategoryConsent,
		} {
			policy, err := store.FindActive(ctx, category)
			require.NoError(t, err, "category %s", category)
			assert.True(t, policy.Active)
			assert.Positive(t, policy.Days)
			assert.NotEmpty(t, policy.LegalBasis)
		}
	})

	t.Run("re-running never overwrites existing policies", func(t *testing.T) {
		store := newStubPolicyStore()
		require.NoError(t, SeedDefaultPolicies(ctx, store, nil))

		first, err := store.FindActive(ctx, domain.CategoryCallRecord)
		require.NoError(t, err)

		require.NoError(t, SeedDefaultPolicies(ctx, store, nil))

		second, err := store.FindActive(ctx, domain.CategoryCallRecord)
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)
	})

	t.Run("tolerates a concurrent seeder winning the insert", func(t *testing.T) {
		store := newStubPolicyStore()
		store.insertErr = sentinel.ErrConflict

		assert.NoError(t, SeedDefaultPolicies(ctx, store, nil))
	})

	t.Run("propagates real store failures", func(t *testing.T) {
		store := newStubPolicyStore()
		store.existsErr = errors.New("connection refused")

		assert.Error(t, SeedDefaultPolicies(ctx, store, nil))
	})
}
