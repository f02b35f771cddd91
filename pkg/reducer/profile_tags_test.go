package reducer

import (
	"testing"

	"lintang/routabletiles/pkg/datastructure"
	"lintang/routabletiles/pkg/profile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateProfileTile(t *testing.T) {
	no := false
	p := &profile.Profile{
		AccessRules: []profile.Rule{{
			Match:     &profile.Condition{Predicate: "osm:highway", Object: "osm:Footway"},
			Concludes: profile.Conclusion{Access: &no},
		}},
		SpeedRules: []profile.Rule{{
			Match:     &profile.Condition{Predicate: "osm:highway", Object: "osm:Primary"},
			Concludes: profile.Conclusion{Speed: new(float64)},
		}},
	}

	primary := datastructure.NewWay("primary", []string{"a", "b", "c"}, map[string]string{
		"osm:highway": "osm:Primary",
		"osm:name":    "Meir",
		"osm:surface": "osm:Asphalt",
		"osm:lanes":   "osm:Primary",
	}, []string{"fixme=check"})
	primary.MaxSpeed = 50
	footway := datastructure.NewWay("footway", []string{"c", "d"}, map[string]string{
		"osm:highway": "osm:Footway",
	}, nil)

	tile := newTile(tCoord, []*datastructure.Node{
		at("a", tCoord, 0.1, 0.1), at("b", tCoord, 0.2, 0.2), at("c", tCoord, 0.3, 0.3),
		at("d", tCoord, 0.4, 0.4), at("lonely", tCoord, 0.5, 0.5),
	}, primary, footway)

	derived, err := CreateProfileTile(tile, p)
	require.NoError(t, err)

	assert.Equal(t, set("primary"), keys(derived.Ways))
	way := derived.Ways["primary"]
	assert.Equal(t, map[string]string{
		"osm:highway": "osm:Primary",
		"osm:name":    "Meir",
	}, way.Tags)
	assert.Empty(t, way.UndefinedTags)
	assert.Equal(t, 50.0, way.MaxSpeed)
	assert.Equal(t, []string{"a", "b", "c"}, way.Nodes)
	assert.Equal(t, set("a", "b", "c"), keys(derived.Nodes))
}
