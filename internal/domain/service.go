package domain

// ServiceID identifies one of the monitored Google Maps Platform services.
//
// The set is closed: adding or removing a monitored service is an edit to
// the tables below (and the probe endpoint table), never new branching logic.
// Pricing overrides may reference unknown IDs; those affect cost lookups
// only, not this identity set.
type ServiceID string

const (
	ServiceMapsJavaScript ServiceID = "maps_javascript"
	ServiceStaticMaps     ServiceID = "static_maps"
	ServiceDirections     ServiceID = "directions"
	ServicePlaces         ServiceID = "places"
	ServiceGeocoding      ServiceID = "geocoding"
	ServiceDistanceMatrix ServiceID = "distance_matrix"
	ServiceElevation      ServiceID = "elevation"
	ServiceRoads          ServiceID = "roads"
	ServiceStreetView     ServiceID = "streetview"
)

// allServices is the canonical probe order. Probes run concurrently, so the
// order only matters for stable iteration and reporting.
var allServices = []ServiceID{
	ServiceMapsJavaScript,
	ServiceStaticMaps,
	ServiceDirections,
	ServicePlaces,
	ServiceGeocoding,
	ServiceDistanceMatrix,
	ServiceElevation,
	ServiceRoads,
	ServiceStreetView,
}

type serviceInfo struct {
	name     string
	category string
}

var serviceInfos = map[ServiceID]serviceInfo{
	ServiceMapsJavaScript: {name: "Maps JavaScript API", category: "maps"},
	ServiceStaticMaps:     {name: "Static Maps API", category: "maps"},
	ServiceDirections:     {name: "Directions API", category: "routes"},
	ServicePlaces:         {name: "Places API", category: "places"},
	ServiceGeocoding:      {name: "Geocoding API", category: "geocoding"},
	ServiceDistanceMatrix: {name: "Distance Matrix API", category: "routes"},
	ServiceElevation:      {name: "Elevation API", category: "elevation"},
	ServiceRoads:          {name: "Roads API", category: "roads"},
	ServiceStreetView:     {name: "Street View Static API", category: "streetview"},
}

// AllServices returns the monitored service set in canonical order.
// The returned slice is a copy; callers may reorder it freely.
func AllServices() []ServiceID {
	out := make([]ServiceID, len(allServices))
	copy(out, allServices)
	return out
}

// Known reports whether the ID belongs to the monitored set.
func (s ServiceID) Known() bool {
	_, ok := serviceInfos[s]
	return ok
}

// DisplayName returns the human-readable API name, or the raw ID for
// services outside the monitored set (e.g. pricing-override-only entries).
func (s ServiceID) DisplayName() string {
	if info, ok := serviceInfos[s]; ok {
		return info.name
	}
	return string(s)
}

// Category returns the Maps Platform product category for the service.
func (s ServiceID) Category() string {
	if info, ok := serviceInfos[s]; ok {
		return info.category
	}
	return "unknown"
}
