package scheduler

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/MrSnakeDoc/gmapscan/internal/domain"
	"github.com/MrSnakeDoc/gmapscan/internal/logger"
	"github.com/MrSnakeDoc/gmapscan/internal/pricing"
)

func overridesFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pricing.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write overrides file: %v", err)
	}
	return path
}

func TestReloadAppliesOverrides(t *testing.T) {
	path := overridesFile(t, "overrides:\n  places: 8.0\n")
	table := pricing.NewTable()

	pr := NewPricingReloader(path, table, logger.New("error", false), time.Hour, make(chan struct{}))
	if err := pr.Reload(context.Background()); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}

	if got := table.CostPer1K(domain.ServicePlaces); got != 8.0 {
		t.Errorf("places CostPer1K = %v after reload, want 8.0", got)
	}
	// Untouched services keep their defaults.
	if got := table.CostPer1K(domain.ServiceRoads); got != 10.0 {
		t.Errorf("roads CostPer1K = %v, want 10.0", got)
	}
}

func TestReloadRejectsNegativePricesButKeepsValidOnes(t *testing.T) {
	path := overridesFile(t, "overrides:\n  places: -3.0\n  geocoding: 4.0\n")
	table := pricing.NewTable()

	pr := NewPricingReloader(path, table, logger.New("error", false), time.Hour, make(chan struct{}))
	if err := pr.Reload(context.Background()); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}

	// Bad entry falls back to the default, good entry applies.
	if got := table.CostPer1K(domain.ServicePlaces); got != 17.0 {
		t.Errorf("places CostPer1K = %v, want the 17.0 default", got)
	}
	if got := table.CostPer1K(domain.ServiceGeocoding); got != 4.0 {
		t.Errorf("geocoding CostPer1K = %v, want 4.0", got)
	}
}

func TestStartSurvivesMissingFile(t *testing.T) {
	table := pricing.NewTable()

	pr := NewPricingReloader("/nonexistent/pricing.yaml", table, logger.New("error", false), time.Hour, make(chan struct{}))
	defer pr.Stop()

	// Startup must not fail: defaults stand until the file appears.
	if err := pr.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if got := table.CostPer1K(domain.ServicePlaces); got != 17.0 {
		t.Errorf("places CostPer1K = %v, want the 17.0 default", got)
	}
}

func TestManualTriggerReloads(t *testing.T) {
	path := overridesFile(t, "overrides: {}\n")
	table := pricing.NewTable()
	trigger := make(chan struct{})

	pr := NewPricingReloader(path, table, logger.New("error", false), time.Hour, trigger)
	if err := pr.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer pr.Stop()

	// Rewrite the file, then poke the trigger.
	if err := os.WriteFile(path, []byte("overrides:\n  places: 9.5\n"), 0o600); err != nil {
		t.Fatalf("failed to rewrite overrides file: %v", err)
	}
	trigger <- struct{}{}

	deadline := time.Now().Add(time.Second)
	for table.CostPer1K(domain.ServicePlaces) != 9.5 {
		if time.Now().After(deadline) {
			t.Fatalf("manual trigger never applied the new override, places = %v",
				table.CostPer1K(domain.ServicePlaces))
		}
		time.Sleep(5 * time.Millisecond)
	}
}
