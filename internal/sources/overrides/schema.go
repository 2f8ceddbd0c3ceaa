package overrides

// File is the on-disk pricing overrides document.
//
//	overrides:
//	  places: 8.0
//	  geocoding: 4.25
//
// Keys are service IDs; values are USD per 1,000 requests. Unknown IDs are
// kept (they shadow nothing and cost zero), negative prices are rejected
// downstream by the pricing table.
type File struct {
	Overrides map[string]float64 `yaml:"overrides"`
}
