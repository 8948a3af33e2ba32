package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig_CoversEveryTier(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, ProviderGemini, cfg.Provider)
	for _, tier := range []ModelTier{TierLite, TierStandard, TierAdvanced} {
		assert.NotEmpty(t, cfg.GetModel(tier), tier)
	}
	assert.Greater(t, cfg.MaxRetries, 0)
}

func TestGetModel_FallbackChain(t *testing.T) {
	cfg := &Config{Models: map[ModelTier]string{TierLite: "only-model"}}

	// Unknown tiers fall back through standard to lite.
	assert.Equal(t, "only-model", cfg.GetModel(TierAdvanced))
	assert.Equal(t, "only-model", cfg.GetModel("unknown"))

	assert.Empty(t, (&Config{Models: map[ModelTier]string{}}).GetModel(TierAdvanced))
}

func TestWithModel_DoesNotMutateOriginal(t *testing.T) {
	cfg := DefaultConfig()
	override := cfg.WithModel(TierAdvanced, "custom-model")

	assert.Equal(t, "custom-model", override.GetModel(TierAdvanced))
	assert.NotEqual(t, "custom-model", cfg.GetModel(TierAdvanced))
	assert.Equal(t, cfg.GetModel(TierLite), override.GetModel(TierLite))
	assert.Equal(t, cfg.MaxRetries, override.MaxRetries)
}
