package export

import (
	"fmt"
	"io"
	"time"

	"github.com/twpayne/go-kml"

	"technician-dispatch-service/internal/domain"
)

// Write the route as a KML document: one point placemark per geocoded stop
// and a line string through them in visiting order.
func WriteRouteKML(w io.Writer, title string, est domain.RouteEstimate, loc *time.Location) error {
	if loc == nil {
		loc = time.Local
	}

	children := []kml.Element{kml.Name(title)}
	children = append(children, kml.Description(fmt.Sprintf(
		"%.1f km, about %d min of driving, %d legs without coordinates",
		est.TotalDistanceKm, est.TotalDurationMinutes, est.SkippedLegs,
	)))

	line := make([]kml.Coordinate, 0, len(est.Stops))
	for _, s := range est.Stops {
		if s.Customer == nil {
			continue
		}
		c := kml.Coordinate{Lon: s.Customer.Lon, Lat: s.Customer.Lat}
		line = append(line, c)

		children = append(children, kml.Placemark(
			kml.Name(s.ID),
			kml.Description(fmt.Sprintf("%s, %d min, customer %s",
				s.ScheduledAt.In(loc).Format("15:04"), s.DurationMinutes, s.CustomerID)),
			kml.Point(kml.Coordinates(c)),
		))
	}

	if len(line) >= 2 {
		children = append(children, kml.Placemark(
			kml.Name("route"),
			kml.LineString(kml.Coordinates(line...)),
		))
	}

	doc := kml.KML(kml.Document(children...))
	if err := doc.WriteIndent(w, "", "  "); err != nil {
		return fmt.Errorf("write route kml: %w", err)
	}
	return nil
}
