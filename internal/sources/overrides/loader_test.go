package overrides

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/MrSnakeDoc/gmapscan/internal/domain"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pricing.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}
	return path
}

func TestLoadParsesOverrides(t *testing.T) {
	path := writeFile(t, `
overrides:
  places: 8.0
  geocoding: 4.25
  some_future_api: 3.0
`)

	got, err := NewLoader(path).Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if len(got) != 3 {
		t.Fatalf("Load() returned %d entries, want 3", len(got))
	}
	if got[domain.ServicePlaces] != 8.0 {
		t.Errorf("places = %v, want 8.0", got[domain.ServicePlaces])
	}
	if got[domain.ServiceGeocoding] != 4.25 {
		t.Errorf("geocoding = %v, want 4.25", got[domain.ServiceGeocoding])
	}
	// Unknown IDs pass through; the pricing table treats them as priced noise.
	if got[domain.ServiceID("some_future_api")] != 3.0 {
		t.Errorf("unknown service dropped: %v", got)
	}
}

func TestLoadEmptyOverridesSection(t *testing.T) {
	path := writeFile(t, "overrides: {}\n")

	got, err := NewLoader(path).Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Load() = %v, want empty map", got)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := NewLoader("/nonexistent/pricing.yaml").Load(); err == nil {
		t.Error("Load() on a missing file returned nil error")
	}
}

func TestLoadMalformedYAML(t *testing.T) {
	path := writeFile(t, "overrides: [not, a, map]\n")

	if _, err := NewLoader(path).Load(); err == nil {
		t.Error("Load() on malformed yaml returned nil error")
	}
}
