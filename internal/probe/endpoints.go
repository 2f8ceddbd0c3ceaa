package probe

import "github.com/MrSnakeDoc/gmapscan/internal/domain"

// defaultEndpoints maps each monitored service to a minimal, cheap request
// against its canonical endpoint. %s is the API key.
//
// The parameters are deliberately trivial (0,0 coordinates, 1x1 images) so a
// probe costs the minimum billable unit and answers fast.
var defaultEndpoints = map[domain.ServiceID]string{
	domain.ServiceMapsJavaScript: "https://maps.googleapis.com/maps/api/js?key=%s",
	domain.ServiceStaticMaps:     "https://maps.googleapis.com/maps/api/staticmap?center=0,0&zoom=1&size=1x1&key=%s",
	domain.ServiceDirections:     "https://maps.googleapis.com/maps/api/directions/json?origin=0,0&destination=1,1&key=%s",
	domain.ServicePlaces:         "https://maps.googleapis.com/maps/api/place/nearbysearch/json?location=0,0&radius=1&key=%s",
	domain.ServiceGeocoding:      "https://maps.googleapis.com/maps/api/geocode/json?address=test&key=%s",
	domain.ServiceDistanceMatrix: "https://maps.googleapis.com/maps/api/distancematrix/json?origins=0,0&destinations=1,1&key=%s",
	domain.ServiceElevation:      "https://maps.googleapis.com/maps/api/elevation/json?locations=0,0&key=%s",
	domain.ServiceRoads:          "https://roads.googleapis.com/v1/nearestRoads?points=0,0&key=%s",
	domain.ServiceStreetView:     "https://maps.googleapis.com/maps/api/streetview/metadata?location=0,0&key=%s",
}

// DefaultEndpoints returns a copy of the canonical endpoint table.
func DefaultEndpoints() map[domain.ServiceID]string {
	out := make(map[domain.ServiceID]string, len(defaultEndpoints))
	for id, url := range defaultEndpoints {
		out[id] = url
	}
	return out
}
