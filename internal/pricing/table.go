package pricing

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/MrSnakeDoc/gmapscan/internal/domain"
)

// defaultCosts is the built-in Google Maps Platform pricing in USD per
// 1,000 requests (basic tier per service).
var defaultCosts = map[domain.ServiceID]float64{
	domain.ServiceMapsJavaScript: 7.00,
	domain.ServiceStaticMaps:     2.00,
	domain.ServiceDirections:     5.00,
	domain.ServicePlaces:         17.00,
	domain.ServiceGeocoding:      5.00,
	domain.ServiceDistanceMatrix: 5.00,
	domain.ServiceElevation:      5.00,
	domain.ServiceRoads:          10.00,
	domain.ServiceStreetView:     7.00,
}

// defaultFreeTier is the monthly request volume covered by Google's free
// credit, per service. Informational only; exposure math ignores it.
var defaultFreeTier = map[domain.ServiceID]int64{
	domain.ServiceMapsJavaScript: 28000,
	domain.ServiceStaticMaps:     100000,
	domain.ServiceDirections:     40000,
	domain.ServicePlaces:         11764,
	domain.ServiceGeocoding:      40000,
	domain.ServiceDistanceMatrix: 40000,
	domain.ServiceElevation:      40000,
	domain.ServiceRoads:          20000,
	domain.ServiceStreetView:     28571,
}

// Table maps service IDs to cost per 1,000 requests. Overrides shadow the
// built-in defaults at lookup time; the base table is never mutated, so
// clearing the overrides always restores the defaults.
//
// Safe for concurrent use: lookups happen on every finding while the pricing
// reloader may swap overrides in the background.
type Table struct {
	mu        sync.RWMutex
	overrides map[domain.ServiceID]float64
}

// NewTable returns a table with built-in defaults and no overrides.
func NewTable() *Table {
	return &Table{overrides: map[domain.ServiceID]float64{}}
}

// CostPer1K returns the price of one service: override first, then the
// built-in default. Unknown services cost zero: they never fail a
// computation and never count toward exposure.
func (t *Table) CostPer1K(id domain.ServiceID) float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if cost, ok := t.overrides[id]; ok {
		return cost
	}
	return defaultCosts[id]
}

// FreeTier returns the monthly free-tier quota for a service (0 if unknown).
func (t *Table) FreeTier(id domain.ServiceID) int64 {
	return defaultFreeTier[id]
}

// SetOverrides replaces the whole override set atomically. Entries with a
// negative price are rejected and skipped; valid entries still apply, so a
// single bad override degrades to the default price instead of failing the
// reload. The returned error lists every rejected entry.
func (t *Table) SetOverrides(overrides map[domain.ServiceID]float64) error {
	clean := make(map[domain.ServiceID]float64, len(overrides))
	var rejected []string

	for id, cost := range overrides {
		if cost < 0 {
			rejected = append(rejected, fmt.Sprintf("%s=%.2f", id, cost))
			continue
		}
		clean[id] = cost
	}

	t.mu.Lock()
	t.overrides = clean
	t.mu.Unlock()

	if len(rejected) > 0 {
		sort.Strings(rejected)
		return fmt.Errorf("rejected %d pricing override(s): %s",
			len(rejected), strings.Join(rejected, ", "))
	}
	return nil
}

// OverrideCount returns the number of active overrides.
func (t *Table) OverrideCount() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.overrides)
}
