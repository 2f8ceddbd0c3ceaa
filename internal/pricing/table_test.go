package pricing

import (
	"testing"

	"github.com/MrSnakeDoc/gmapscan/internal/domain"
)

func TestCostPer1KDefaults(t *testing.T) {
	table := NewTable()

	tests := []struct {
		service domain.ServiceID
		want    float64
	}{
		{domain.ServiceMapsJavaScript, 7.00},
		{domain.ServiceStaticMaps, 2.00},
		{domain.ServicePlaces, 17.00},
		{domain.ServiceRoads, 10.00},
		{domain.ServiceStreetView, 7.00},
	}

	for _, tt := range tests {
		if got := table.CostPer1K(tt.service); got != tt.want {
			t.Errorf("CostPer1K(%s) = %v, want %v", tt.service, got, tt.want)
		}
	}
}

func TestCostPer1KUnknownServiceIsZero(t *testing.T) {
	table := NewTable()
	if got := table.CostPer1K("no_such_service"); got != 0 {
		t.Errorf("CostPer1K(unknown) = %v, want 0", got)
	}
}

func TestOverridesShadowDefaults(t *testing.T) {
	table := NewTable()

	err := table.SetOverrides(map[domain.ServiceID]float64{
		domain.ServicePlaces: 8.00,
		"custom_service":     10.00,
	})
	if err != nil {
		t.Fatalf("SetOverrides() error = %v", err)
	}

	if got := table.CostPer1K(domain.ServicePlaces); got != 8.00 {
		t.Errorf("overridden CostPer1K(places) = %v, want 8.00", got)
	}
	if got := table.CostPer1K("custom_service"); got != 10.00 {
		t.Errorf("CostPer1K(custom_service) = %v, want 10.00", got)
	}
	// Untouched services keep their default.
	if got := table.CostPer1K(domain.ServiceGeocoding); got != 5.00 {
		t.Errorf("CostPer1K(geocoding) = %v, want default 5.00", got)
	}
}

func TestSetOverridesReplacesPreviousSet(t *testing.T) {
	table := NewTable()

	if err := table.SetOverrides(map[domain.ServiceID]float64{domain.ServicePlaces: 8.00}); err != nil {
		t.Fatalf("SetOverrides() error = %v", err)
	}
	if err := table.SetOverrides(map[domain.ServiceID]float64{domain.ServiceRoads: 1.00}); err != nil {
		t.Fatalf("SetOverrides() error = %v", err)
	}

	// The places override from the first set must be gone.
	if got := table.CostPer1K(domain.ServicePlaces); got != 17.00 {
		t.Errorf("CostPer1K(places) = %v, want default 17.00 after override replacement", got)
	}
	if got := table.CostPer1K(domain.ServiceRoads); got != 1.00 {
		t.Errorf("CostPer1K(roads) = %v, want 1.00", got)
	}
}

func TestSetOverridesRejectsNegativePrices(t *testing.T) {
	table := NewTable()

	err := table.SetOverrides(map[domain.ServiceID]float64{
		domain.ServicePlaces:    -1.00,
		domain.ServiceGeocoding: 3.00,
	})
	if err == nil {
		t.Fatal("SetOverrides() with a negative price should return an error")
	}

	// The bad entry falls back to the default, the good one applies.
	if got := table.CostPer1K(domain.ServicePlaces); got != 17.00 {
		t.Errorf("CostPer1K(places) = %v, want default 17.00 after rejected override", got)
	}
	if got := table.CostPer1K(domain.ServiceGeocoding); got != 3.00 {
		t.Errorf("CostPer1K(geocoding) = %v, want 3.00", got)
	}
	if got := table.OverrideCount(); got != 1 {
		t.Errorf("OverrideCount() = %v, want 1", got)
	}
}
