package pos

import (
	"sort"
	"time"

	"product_tracker/internal/domain"
)

const (
	SeverityWarning  = "warning"
	SeverityCritical = "critical"

	// ExpirationWindowDays is how far ahead the evaluator looks for
	// expiring products, inclusive on both ends.
	ExpirationWindowDays = 30

	criticalExpiryDays = 7
)

type LowStockAlert struct {
	ProductID    int    `json:"id"`
	Name         string `json:"name"`
	SKU          string `json:"sku"`
	CurrentStock int    `json:"current_stock"`
	MinStock     int    `json:"min_stock"`
	Shortage     int    `json:"shortage"`
	Severity     string `json:"severity"`
}

type ExpirationAlert struct {
	ProductID       int       `json:"id"`
	Name            string    `json:"name"`
	SKU             string    `json:"sku"`
	ExpirationDate  time.Time `json:"expiration_date"`
	DaysUntilExpiry int       `json:"days_until_expiry"`
	Stock           int       `json:"stock"`
	Severity        string    `json:"severity"`
}

// AlertSet is a derived view, recomputed in full from the catalog and never
// stored.
type AlertSet struct {
	LowStock     []LowStockAlert   `json:"low_stock"`
	ExpiringSoon []ExpirationAlert `json:"expiring"`
}

// dateOnly maps a timestamp to midnight UTC of its calendar day, so window
// arithmetic is exact regardless of the input's time zone.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// EvaluateAlerts derives the low-stock and expiring-soon subsets. A product
// is low on stock when it sits at or below its own minimum OR at or below the
// global threshold (inclusive-OR of both floors, kept as configured). The
// result is deterministic for identical inputs.
func EvaluateAlerts(products []domain.Product, globalLowStockThreshold int, referenceDate time.Time) AlertSet {
	set := AlertSet{
		LowStock:     []LowStockAlert{},
		ExpiringSoon: []ExpirationAlert{},
	}

	refDay := dateOnly(referenceDate)
	cutoff := refDay.AddDate(0, 0, ExpirationWindowDays)

	for _, p := range products {
		if p.Archived {
			continue
		}

		if p.Stock <= p.MinStock || p.Stock <= globalLowStockThreshold {
			severity := SeverityWarning
			if p.Stock == 0 {
				severity = SeverityCritical
			}
			set.LowStock = append(set.LowStock, LowStockAlert{
				ProductID:    p.ID,
				Name:         p.Name,
				SKU:          p.SKU,
				CurrentStock: p.Stock,
				MinStock:     p.MinStock,
				Shortage:     p.MinStock - p.Stock,
				Severity:     severity,
			})
		}

		if p.ExpirationDate == nil {
			continue
		}
		expDay := dateOnly(*p.ExpirationDate)
		if expDay.Before(refDay) || expDay.After(cutoff) {
			continue
		}
		days := int(expDay.Sub(refDay).Hours() / 24)
		severity := SeverityWarning
		if days <= criticalExpiryDays {
			severity = SeverityCritical
		}
		set.ExpiringSoon = append(set.ExpiringSoon, ExpirationAlert{
			ProductID:       p.ID,
			Name:            p.Name,
			SKU:             p.SKU,
			ExpirationDate:  expDay,
			DaysUntilExpiry: days,
			Stock:           p.Stock,
			Severity:        severity,
		})
	}

	sort.SliceStable(set.ExpiringSoon, func(i, j int) bool {
		return set.ExpiringSoon[i].DaysUntilExpiry < set.ExpiringSoon[j].DaysUntilExpiry
	})

	return set
}
