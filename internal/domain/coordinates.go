package domain

import "fmt"

// Immutable geographic coordinates (longitude, latitude).
type Coordinates struct {
	Lon float64
	Lat float64
}

// Return coordinates as [lon, lat] for external API compatibility.
func (c Coordinates) CoordsToList() []float64 { return []float64{c.Lon, c.Lat} }

// Return coordinates as "lat,lng", the form Google-style APIs expect.
func (c Coordinates) LatLng() string { return fmt.Sprintf("%.6f,%.6f", c.Lat, c.Lon) }

// Key returns a stable cache key rounded to ~1m precision.
func (c Coordinates) Key() string { return fmt.Sprintf("%.5f,%.5f", c.Lon, c.Lat) }
