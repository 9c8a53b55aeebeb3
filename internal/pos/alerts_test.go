package pos

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"product_tracker/internal/domain"
)

func datePtr(t time.Time) *time.Time { return &t }

func TestEvaluateAlertsLowStockThresholds(t *testing.T) {
	ref := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	products := []domain.Product{
		{ID: 1, Name: "Leche", Stock: 3, MinStock: 5},  // below own minimum
		{ID: 2, Name: "Queso", Stock: 6, MinStock: 5},  // above both floors
		{ID: 3, Name: "Pan", Stock: 4, MinStock: 2},    // above own min, at/below global
		{ID: 4, Name: "Sal", Stock: 0, MinStock: 5},    // zero stock is critical
		{ID: 5, Name: "Viejo", Stock: 1, MinStock: 5, Archived: true},
	}

	set := EvaluateAlerts(products, 5, ref)

	ids := make([]int, 0, len(set.LowStock))
	for _, a := range set.LowStock {
		ids = append(ids, a.ProductID)
	}
	assert.Equal(t, []int{1, 3, 4}, ids)

	require.Len(t, set.LowStock, 3)
	assert.Equal(t, SeverityWarning, set.LowStock[0].Severity)
	assert.Equal(t, 2, set.LowStock[0].Shortage)
	assert.Equal(t, SeverityCritical, set.LowStock[2].Severity)
}

func TestEvaluateAlertsExpirationWindowInclusive(t *testing.T) {
	ref := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	products := []domain.Product{
		{ID: 1, Name: "Hoy", Stock: 10, ExpirationDate: datePtr(ref)},
		{ID: 2, Name: "Día 30", Stock: 10, ExpirationDate: datePtr(ref.AddDate(0, 0, 30))},
		{ID: 3, Name: "Día 31", Stock: 10, ExpirationDate: datePtr(ref.AddDate(0, 0, 31))},
		{ID: 4, Name: "Ayer", Stock: 10, ExpirationDate: datePtr(ref.AddDate(0, 0, -1))},
		{ID: 5, Name: "Sin fecha", Stock: 10},
		{ID: 6, Name: "Archivado", Stock: 10, Archived: true, ExpirationDate: datePtr(ref.AddDate(0, 0, 5))},
		{ID: 7, Name: "Pronto", Stock: 10, ExpirationDate: datePtr(ref.AddDate(0, 0, 7))},
	}

	set := EvaluateAlerts(products, 0, ref)

	ids := make([]int, 0, len(set.ExpiringSoon))
	for _, a := range set.ExpiringSoon {
		ids = append(ids, a.ProductID)
	}
	// Both window ends included, sorted by days until expiry.
	assert.Equal(t, []int{1, 7, 2}, ids)

	assert.Equal(t, SeverityCritical, set.ExpiringSoon[0].Severity)
	assert.Equal(t, SeverityCritical, set.ExpiringSoon[1].Severity)
	assert.Equal(t, SeverityWarning, set.ExpiringSoon[2].Severity)
	assert.Equal(t, 30, set.ExpiringSoon[2].DaysUntilExpiry)
}

func TestEvaluateAlertsUsesCalendarDayInLocalZone(t *testing.T) {
	// Evening in Bogotá is already the next day in UTC; the window must
	// still open on the local calendar day.
	bogota := time.FixedZone("-05", -5*60*60)
	ref := time.Date(2026, 3, 1, 20, 0, 0, 0, bogota)
	today := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	products := []domain.Product{
		{ID: 1, Name: "Hoy", Stock: 10, ExpirationDate: datePtr(today)},
		{ID: 2, Name: "Día 30", Stock: 10, ExpirationDate: datePtr(today.AddDate(0, 0, 30))},
		{ID: 3, Name: "Día 31", Stock: 10, ExpirationDate: datePtr(today.AddDate(0, 0, 31))},
	}

	set := EvaluateAlerts(products, 0, ref)

	require.Len(t, set.ExpiringSoon, 2)
	assert.Equal(t, 1, set.ExpiringSoon[0].ProductID)
	assert.Equal(t, 0, set.ExpiringSoon[0].DaysUntilExpiry)
	assert.Equal(t, 2, set.ExpiringSoon[1].ProductID)
	assert.Equal(t, 30, set.ExpiringSoon[1].DaysUntilExpiry)
}

func TestEvaluateAlertsIdempotent(t *testing.T) {
	ref := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	products := []domain.Product{
		{ID: 1, Name: "Leche", Stock: 3, MinStock: 5, ExpirationDate: datePtr(ref.AddDate(0, 0, 3))},
		{ID: 2, Name: "Queso", Stock: 6, MinStock: 5},
		{ID: 3, Name: "Pan", Stock: 0, MinStock: 2, ExpirationDate: datePtr(ref.AddDate(0, 0, 20))},
	}

	first := EvaluateAlerts(products, 5, ref)
	second := EvaluateAlerts(products, 5, ref)

	assert.Equal(t, first, second)
}

func TestEvaluateAlertsEmptyCatalog(t *testing.T) {
	set := EvaluateAlerts(nil, 5, time.Now())

	assert.Empty(t, set.LowStock)
	assert.Empty(t, set.ExpiringSoon)
	assert.NotNil(t, set.LowStock)
	assert.NotNil(t, set.ExpiringSoon)
}
