package usecase

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"product_tracker/internal/domain"
)

func TestTaxConfigDefaultsWhenUnset(t *testing.T) {
	uc := NewSettingsUseCase(&fakeSettingsRepo{values: map[string]string{}}, quietLogger())

	cfg, err := uc.TaxConfig(context.Background())
	require.NoError(t, err)
	assert.True(t, cfg.TaxRatePercent.Equal(decimal.NewFromInt(19)))
	assert.Equal(t, "COP", cfg.CurrencyCode)
	assert.Equal(t, int32(0), cfg.FractionDigits)
}

func TestTaxConfigReadsStoredValues(t *testing.T) {
	repo := &fakeSettingsRepo{values: map[string]string{
		domain.SettingTaxRatePercent:        "8.5",
		domain.SettingCurrencyCode:          "USD",
		domain.SettingCurrencyFractionDigit: "2",
	}}
	uc := NewSettingsUseCase(repo, quietLogger())

	cfg, err := uc.TaxConfig(context.Background())
	require.NoError(t, err)
	assert.True(t, cfg.TaxRatePercent.Equal(decimal.RequireFromString("8.5")))
	assert.Equal(t, "USD", cfg.CurrencyCode)
	assert.Equal(t, int32(2), cfg.FractionDigits)
}

func TestTaxConfigIgnoresMalformedStoredRate(t *testing.T) {
	repo := &fakeSettingsRepo{values: map[string]string{
		domain.SettingTaxRatePercent: "diecinueve",
	}}
	uc := NewSettingsUseCase(repo, quietLogger())

	cfg, err := uc.TaxConfig(context.Background())
	require.NoError(t, err)
	assert.True(t, cfg.TaxRatePercent.Equal(decimal.NewFromInt(19)))
}

func TestLowStockThresholdDefault(t *testing.T) {
	uc := NewSettingsUseCase(&fakeSettingsRepo{values: map[string]string{}}, quietLogger())

	threshold, err := uc.LowStockThreshold(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, threshold)
}

func TestSetSettingValidatesValues(t *testing.T) {
	repo := &fakeSettingsRepo{values: map[string]string{}}
	uc := NewSettingsUseCase(repo, quietLogger())
	ctx := context.Background()

	require.Error(t, uc.SetSetting(ctx, "nonsense_key", "1"))
	require.Error(t, uc.SetSetting(ctx, domain.SettingTaxRatePercent, "-1"))
	require.Error(t, uc.SetSetting(ctx, domain.SettingTaxRatePercent, "120"))
	require.Error(t, uc.SetSetting(ctx, domain.SettingLowStockThreshold, "-3"))
	require.Error(t, uc.SetSetting(ctx, domain.SettingCurrencyCode, "PESO"))
	require.Error(t, uc.SetSetting(ctx, domain.SettingCurrencyFractionDigit, "9"))

	require.NoError(t, uc.SetSetting(ctx, domain.SettingTaxRatePercent, "16"))
	require.NoError(t, uc.SetSetting(ctx, domain.SettingLowStockThreshold, "10"))
	assert.Equal(t, "16", repo.values[domain.SettingTaxRatePercent])
}

func TestListSettingsMergesDefaults(t *testing.T) {
	repo := &fakeSettingsRepo{values: map[string]string{
		domain.SettingTaxRatePercent: "16",
	}}
	uc := NewSettingsUseCase(repo, quietLogger())

	settings, err := uc.ListSettings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "16", settings[domain.SettingTaxRatePercent])
	assert.Equal(t, "5", settings[domain.SettingLowStockThreshold])
	assert.Equal(t, "COP", settings[domain.SettingCurrencyCode])
}
