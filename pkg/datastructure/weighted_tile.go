package datastructure

// WeightedTile is the packed binary form of a tile for one profile.
type WeightedTile struct {
	Locations []Location
	Labels    map[string]uint32
	Edges     []WeightedTileEdge
}

type Location struct {
	ID  string
	Lat float64
	Lon float64
}

type WeightedTileEdge struct {
	From   uint32
	To     uint32
	Weight uint64
}

func NewWeightedTile() *WeightedTile {
	return &WeightedTile{
		Locations: make([]Location, 0),
		Labels:    make(map[string]uint32),
		Edges:     make([]WeightedTileEdge, 0),
	}
}
