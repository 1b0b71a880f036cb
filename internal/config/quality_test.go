package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultQualityConfigTolerances(t *testing.T) {
	cfg := DefaultQualityConfig()

	best, ok := cfg.Tolerance("best")
	require.True(t, ok)
	assert.Equal(t, 1.5, best)

	high, ok := cfg.Tolerance(" HIGH ")
	require.True(t, ok)
	assert.Equal(t, 2.0, high)

	_, ok = cfg.Tolerance("normal")
	assert.False(t, ok)
}

func TestReadQualityConfigRejectsInvalidValues(t *testing.T) {
	v := viper.New()
	v.Set("quality.tolerances", map[string]float64{"best": -1})
	v.Set("quality.maxSpotColors", 8)

	_, err := readQualityConfig(v)
	assert.Error(t, err)
}

func TestReadQualityConfigNormalizesGrades(t *testing.T) {
	v := viper.New()
	v.Set("quality.tolerances", map[string]float64{"Best": 1.2})
	v.Set("quality.maxSpotColors", 8)

	cfg, err := readQualityConfig(v)
	require.NoError(t, err)

	value, ok := cfg.Tolerance("best")
	require.True(t, ok)
	assert.Equal(t, 1.2, value)
	assert.Equal(t, 8, cfg.MaxSpotColors)
}

func TestStaticHolderReturnsStoredConfig(t *testing.T) {
	holder := NewStaticQualityConfigHolder(DefaultQualityConfig())
	assert.Equal(t, 12, holder.Get().MaxSpotColors)
}
