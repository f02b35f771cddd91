package geo

import (
	"math"
)

// Num2Deg returns the north-west corner (lat, lon) of slippy map tile x/y at zoom.
func Num2Deg(x, y, zoom uint32) (float64, float64) {
	n := math.Exp2(float64(zoom))
	lon := float64(x)/n*360.0 - 180.0
	latRad := math.Atan(math.Sinh(math.Pi * (1 - 2*float64(y)/n)))
	return latRad * 180.0 / math.Pi, lon
}

// Deg2Num returns the tile x/y at zoom that contains lat/lon.
func Deg2Num(lat, lon float64, zoom uint32) (uint32, uint32) {
	n := math.Exp2(float64(zoom))
	latRad := degreeToRadians(lat)
	x := (lon + 180.0) / 360.0 * n
	y := (1.0 - math.Log(math.Tan(latRad)+1/math.Cos(latRad))/math.Pi) / 2.0 * n
	return clampTile(x, n), clampTile(y, n)
}

func clampTile(v, n float64) uint32 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	if v >= n {
		return uint32(n) - 1
	}
	return uint32(v)
}

// TileEdges returns [east, north, west, south] of tile x/y.
func TileEdges(x, y, zoom uint32) [4]float64 {
	north, west := Num2Deg(x, y, zoom)
	south, east := Num2Deg(x+1, y+1, zoom)
	return [4]float64{east, north, west, south}
}

// TileBoundingBox is the closed box of tile x/y.
func TileBoundingBox(x, y, zoom uint32) BoundingBox {
	edges := TileEdges(x, y, zoom)
	return NewBoundingBox(edges[1], edges[0], edges[3], edges[2])
}

// TileRange returns the inclusive tile rectangle covering the box at zoom.
func TileRange(bb BoundingBox, zoom uint32) (minX, minY, maxX, maxY uint32) {
	minX, minY = Deg2Num(bb.North(), bb.West(), zoom)
	maxX, maxY = Deg2Num(bb.South(), bb.East(), zoom)
	return minX, minY, maxX, maxY
}
