package geo

import (
	"fmt"
	"sort"
)

// Area is a named region that batch commands iterate over.
type Area struct {
	Name string
	Box  BoundingBox
}

var areas = map[string]Area{
	"london":   {Name: "london", Box: NewBoundingBox(51.7334, 0.3114, 51.2424, -0.5637)},
	"belgium":  {Name: "belgium", Box: NewBoundingBox(51.532, 6.5626, 49.421, 2.4153)},
	"pyrenees": {Name: "pyrenees", Box: NewBoundingBox(43.4263, 3.3382, 41.8872, -1.9133)},
	"dummy":    {Name: "dummy", Box: NewBoundingBox(51.25, 4.5, 51.15, 4.40)},
}

func GetArea(name string) (Area, error) {
	a, ok := areas[name]
	if !ok {
		return Area{}, fmt.Errorf("unknown area %q, expected one of %v", name, AreaNames())
	}
	return a, nil
}

func AreaNames() []string {
	names := make([]string, 0, len(areas))
	for name := range areas {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// TileXY is a bare tile index pair at some zoom.
type TileXY struct {
	X, Y uint32
}

// Tiles lists every tile of the area at zoom, column by column.
func (a Area) Tiles(zoom uint32) []TileXY {
	minX, minY, maxX, maxY := TileRange(a.Box, zoom)
	tiles := make([]TileXY, 0, int(maxX-minX+1)*int(maxY-minY+1))
	for x := minX; x <= maxX; x++ {
		for y := minY; y <= maxY; y++ {
			tiles = append(tiles, TileXY{X: x, Y: y})
		}
	}
	return tiles
}
