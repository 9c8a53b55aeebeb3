package domain

import (
	"context"
	"errors"
)

var ErrSettingNotFound = errors.New("setting not found")

// Well-known setting keys. Values are stored as strings and parsed by the
// settings use case.
const (
	SettingTaxRatePercent        = "tax_rate_percent"
	SettingLowStockThreshold     = "low_stock_threshold"
	SettingCurrencyCode          = "currency_code"
	SettingCurrencyFractionDigit = "currency_fraction_digits"
)

type SettingsRepository interface {
	GetSetting(ctx context.Context, key string) (string, error)
	SetSetting(ctx context.Context, key, value string) error
	ListSettings(ctx context.Context) (map[string]string, error)
}
