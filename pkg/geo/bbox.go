package geo

import (
	"math"

	"github.com/golang/geo/r1"
	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
)

// BoundingBox is a closed latitude/longitude rectangle.
type BoundingBox struct {
	north, east, south, west float64
	rect                     s2.Rect
}

func NewBoundingBox(north, east, south, west float64) BoundingBox {
	return BoundingBox{
		north: north,
		east:  east,
		south: south,
		west:  west,
		rect: s2.Rect{
			Lat: r1.Interval{
				Lo: (s1.Angle(south) * s1.Degree).Radians(),
				Hi: (s1.Angle(north) * s1.Degree).Radians(),
			},
			Lng: s1.IntervalFromEndpoints(
				(s1.Angle(west) * s1.Degree).Radians(),
				(s1.Angle(east) * s1.Degree).Radians(),
			),
		},
	}
}

// Contains reports whether lat/lon lies inside the box, edges included.
func (b BoundingBox) Contains(lat, lon float64) bool {
	return b.rect.ContainsLatLng(s2.LatLngFromDegrees(lat, lon))
}

// Union returns the smallest box covering b and other. Boxes crossing the antimeridian are not supported.
func (b BoundingBox) Union(other BoundingBox) BoundingBox {
	return NewBoundingBox(
		math.Max(b.north, other.north),
		math.Max(b.east, other.east),
		math.Min(b.south, other.south),
		math.Min(b.west, other.west),
	)
}

func (b BoundingBox) North() float64 { return b.north }
func (b BoundingBox) South() float64 { return b.south }
func (b BoundingBox) West() float64  { return b.west }
func (b BoundingBox) East() float64  { return b.east }
