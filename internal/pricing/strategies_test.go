package pricing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluateScheduled(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	starts := now.Add(24 * time.Hour)
	ends := now.Add(72 * time.Hour)

	t.Run("explicit window", func(t *testing.T) {
		draft, err := evaluateScheduled(RuleParams{
			"price_minor": float64(4000),
			"starts_at":   starts.Format(time.RFC3339),
			"ends_at":     ends.Format(time.RFC3339),
		}, now)
		require.NoError(t, err)
		require.NotNil(t, draft)
		assert.Equal(t, int64(4000), draft.PriceCents)
		assert.True(t, draft.EffectiveFrom.Equal(starts))
		require.NotNil(t, draft.EffectiveTo)
		assert.True(t, draft.EffectiveTo.Equal(ends))
	})

	t.Run("defaults to open window from now", func(t *testing.T) {
		draft, err := evaluateScheduled(RuleParams{"price_minor": float64(4000)}, now)
		require.NoError(t, err)
		require.NotNil(t, draft)
		assert.True(t, draft.EffectiveFrom.Equal(now))
		assert.Nil(t, draft.EffectiveTo)
	})

	t.Run("empty window rejected", func(t *testing.T) {
		_, err := evaluateScheduled(RuleParams{
			"price_minor": float64(4000),
			"starts_at":   ends.Format(time.RFC3339),
			"ends_at":     starts.Format(time.RFC3339),
		}, now)
		assert.Error(t, err)
	})

	t.Run("missing price rejected", func(t *testing.T) {
		_, err := evaluateScheduled(RuleParams{}, now)
		assert.Error(t, err)
	})
}

func TestEvaluatePercentDiscount(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("computes discounted price", func(t *testing.T) {
		draft, err := evaluatePercentDiscount(RuleParams{
			"percent":          float64(25),
			"base_price_minor": float64(10000),
		}, now)
		require.NoError(t, err)
		require.NotNil(t, draft)
		assert.Equal(t, int64(7500), draft.PriceCents)
	})

	t.Run("percent bounds enforced", func(t *testing.T) {
		for _, percent := range []float64{0, 100, -5, 250} {
			_, err := evaluatePercentDiscount(RuleParams{
				"percent":          percent,
				"base_price_minor": float64(10000),
			}, now)
			assert.Error(t, err)
		}
	})

	t.Run("missing base price rejected", func(t *testing.T) {
		_, err := evaluatePercentDiscount(RuleParams{"percent": float64(10)}, now)
		assert.Error(t, err)
	})
}

func TestEvaluateEarlyBird(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	until := now.Add(7 * 24 * time.Hour)

	t.Run("before cutoff", func(t *testing.T) {
		draft, err := evaluateEarlyBird(RuleParams{
			"price_minor": float64(2500),
			"until":       until.Format(time.RFC3339),
		}, now)
		require.NoError(t, err)
		require.NotNil(t, draft)
		assert.Equal(t, int64(2500), draft.PriceCents)
		require.NotNil(t, draft.EffectiveTo)
		assert.True(t, draft.EffectiveTo.Equal(until))
	})

	t.Run("after cutoff produces nothing", func(t *testing.T) {
		draft, err := evaluateEarlyBird(RuleParams{
			"price_minor": float64(2500),
			"until":       until.Format(time.RFC3339),
		}, until.Add(time.Second))
		require.NoError(t, err)
		assert.Nil(t, draft)
	})

	t.Run("cutoff is required", func(t *testing.T) {
		_, err := evaluateEarlyBird(RuleParams{"price_minor": float64(2500)}, now)
		assert.Error(t, err)
	})
}

func TestEvaluateStrategyDispatch(t *testing.T) {
	now := time.Now().UTC()

	assert.True(t, IsKnownStrategy(StrategyScheduled))
	assert.True(t, IsKnownStrategy(StrategyPercentDiscount))
	assert.True(t, IsKnownStrategy(StrategyEarlyBird))
	assert.False(t, IsKnownStrategy("surge"))

	_, err := evaluateStrategy("surge", RuleParams{}, now)
	assert.ErrorIs(t, err, ErrUnknownStrategy)

	draft, err := evaluateStrategy(StrategyScheduled, RuleParams{"price_minor": float64(4000)}, now)
	require.NoError(t, err)
	assert.Equal(t, int64(4000), draft.PriceCents)
}

func TestParamParsing(t *testing.T) {
	t.Run("int64 accepts json numbers", func(t *testing.T) {
		v, err := paramInt64(RuleParams{"price_minor": float64(4000)}, "price_minor")
		require.NoError(t, err)
		assert.Equal(t, int64(4000), v)

		_, err = paramInt64(RuleParams{"price_minor": "4000"}, "price_minor")
		assert.Error(t, err)
	})

	t.Run("time accepts RFC3339 only", func(t *testing.T) {
		parsed, ok, err := paramTime(RuleParams{"until": "2026-06-01T12:00:00Z"}, "until")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, 2026, parsed.Year())

		_, ok, err = paramTime(RuleParams{}, "until")
		require.NoError(t, err)
		assert.False(t, ok)

		_, _, err = paramTime(RuleParams{"until": "tomorrow"}, "until")
		assert.Error(t, err)
	})
}
