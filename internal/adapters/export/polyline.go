package export

import (
	"github.com/twpayne/go-polyline"

	"technician-dispatch-service/internal/domain"
)

// Encode the geocoded stops of a route, in visiting order, as a Google
// encoded polyline. Stops without coordinates are left out; fewer than two
// points yield an empty string.
func EncodeRoute(est domain.RouteEstimate) string {
	coords := routeCoords(est)
	if len(coords) < 2 {
		return ""
	}

	latLon := make([][]float64, 0, len(coords))
	for _, c := range coords {
		latLon = append(latLon, c.LatLon())
	}
	return string(polyline.EncodeCoords(latLon))
}

func routeCoords(est domain.RouteEstimate) []domain.Coordinates {
	out := make([]domain.Coordinates, 0, len(est.Stops))
	for _, s := range est.Stops {
		if s.Customer != nil {
			out = append(out, *s.Customer)
		}
	}
	return out
}
