package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"product_tracker/internal/domain"
	"product_tracker/internal/pos"
)

// Defaults applied when a setting has never been stored.
var (
	defaultTaxRatePercent = decimal.NewFromInt(19)

	defaultSettings = map[string]string{
		domain.SettingTaxRatePercent:        "19",
		domain.SettingLowStockThreshold:     "5",
		domain.SettingCurrencyCode:          "COP",
		domain.SettingCurrencyFractionDigit: "0",
	}
)

const defaultLowStockThreshold = 5

type SettingsUseCase interface {
	TaxConfig(ctx context.Context) (pos.TaxConfig, error)
	LowStockThreshold(ctx context.Context) (int, error)
	ListSettings(ctx context.Context) (map[string]string, error)
	SetSetting(ctx context.Context, key, value string) error
}

type settingsUseCase struct {
	settingsRepo domain.SettingsRepository
	log          *logrus.Logger
}

func NewSettingsUseCase(settingsRepo domain.SettingsRepository, logger *logrus.Logger) SettingsUseCase {
	return &settingsUseCase{
		settingsRepo: settingsRepo,
		log:          logger,
	}
}

func (uc *settingsUseCase) getOrDefault(ctx context.Context, key string) (string, error) {
	value, err := uc.settingsRepo.GetSetting(ctx, key)
	if err != nil {
		if def, ok := defaultSettings[key]; ok && errors.Is(err, domain.ErrSettingNotFound) {
			return def, nil
		}
		return "", err
	}
	return value, nil
}

// TaxConfig assembles the pricing configuration from the stored settings,
// falling back to the defaults for anything missing or malformed.
func (uc *settingsUseCase) TaxConfig(ctx context.Context) (pos.TaxConfig, error) {
	cfg := pos.TaxConfig{
		TaxRatePercent: defaultTaxRatePercent,
		CurrencyCode:   defaultSettings[domain.SettingCurrencyCode],
		FractionDigits: 0,
	}

	rateRaw, err := uc.getOrDefault(ctx, domain.SettingTaxRatePercent)
	if err != nil {
		uc.log.Errorf("Use Case: Failed to load tax rate setting: %v", err)
		return cfg, err
	}
	rate, err := decimal.NewFromString(rateRaw)
	if err != nil || rate.IsNegative() {
		uc.log.Warnf("Use Case: Stored tax rate %q is invalid, using default", rateRaw)
	} else {
		cfg.TaxRatePercent = rate
	}

	if code, err := uc.getOrDefault(ctx, domain.SettingCurrencyCode); err == nil && code != "" {
		cfg.CurrencyCode = code
	}

	digitsRaw, err := uc.getOrDefault(ctx, domain.SettingCurrencyFractionDigit)
	if err == nil {
		if digits, convErr := strconv.Atoi(digitsRaw); convErr == nil && digits >= 0 && digits <= 4 {
			cfg.FractionDigits = int32(digits)
		} else {
			uc.log.Warnf("Use Case: Stored currency fraction digits %q is invalid, using default", digitsRaw)
		}
	}

	return cfg, nil
}

func (uc *settingsUseCase) LowStockThreshold(ctx context.Context) (int, error) {
	raw, err := uc.getOrDefault(ctx, domain.SettingLowStockThreshold)
	if err != nil {
		uc.log.Errorf("Use Case: Failed to load low stock threshold setting: %v", err)
		return defaultLowStockThreshold, err
	}
	threshold, err := strconv.Atoi(raw)
	if err != nil || threshold < 0 {
		uc.log.Warnf("Use Case: Stored low stock threshold %q is invalid, using default", raw)
		return defaultLowStockThreshold, nil
	}
	return threshold, nil
}

func (uc *settingsUseCase) ListSettings(ctx context.Context) (map[string]string, error) {
	stored, err := uc.settingsRepo.ListSettings(ctx)
	if err != nil {
		uc.log.Errorf("Use Case: Failed to list settings: %v", err)
		return nil, err
	}
	// Surface defaults for keys that were never written.
	for key, def := range defaultSettings {
		if _, ok := stored[key]; !ok {
			stored[key] = def
		}
	}
	return stored, nil
}

func (uc *settingsUseCase) SetSetting(ctx context.Context, key, value string) error {
	if _, known := defaultSettings[key]; !known {
		uc.log.Warnf("Use Case: Attempted to set unknown setting key %q", key)
		return fmt.Errorf("unknown setting key: %s", key)
	}

	switch key {
	case domain.SettingTaxRatePercent:
		rate, err := decimal.NewFromString(value)
		if err != nil || rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(100)) {
			return errors.New("tax rate must be a percentage between 0 and 100")
		}
	case domain.SettingLowStockThreshold:
		threshold, err := strconv.Atoi(value)
		if err != nil || threshold < 0 {
			return errors.New("low stock threshold must be a non-negative integer")
		}
	case domain.SettingCurrencyFractionDigit:
		digits, err := strconv.Atoi(value)
		if err != nil || digits < 0 || digits > 4 {
			return errors.New("currency fraction digits must be between 0 and 4")
		}
	case domain.SettingCurrencyCode:
		if len(value) != 3 {
			return errors.New("currency code must be a 3-letter ISO code")
		}
	}

	uc.log.Infof("Use Case: Updating setting %s", key)
	return uc.settingsRepo.SetSetting(ctx, key, value)
}
