package profile

import (
	"testing"

	"lintang/routabletiles/pkg/datastructure"
	"lintang/routabletiles/pkg/geo"
	"lintang/routabletiles/pkg/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func boolPtr(b bool) *bool        { return &b }
func floatPtr(f float64) *float64 { return &f }
func match(k, v string) *Condition {
	return &Condition{Predicate: k, Object: v}
}

func way(tags map[string]string) *datastructure.Way {
	return datastructure.NewWay("w", []string{"a", "b"}, tags, nil)
}

func TestRuleEvaluation(t *testing.T) {
	p := &Profile{
		AccessRules: []Rule{
			{Match: match("osm:highway", "osm:Footway"), Concludes: Conclusion{Access: boolPtr(false)}},
			{Match: match("osm:highway", "osm:Footway"), Concludes: Conclusion{Access: boolPtr(true)}},
			{Concludes: Conclusion{Access: boolPtr(true)}},
		},
	}

	t.Run("first firing rule wins", func(t *testing.T) {
		assert.False(t, p.HasAccess(way(map[string]string{"osm:highway": "osm:Footway"})))
	})

	t.Run("condition is exact string equality", func(t *testing.T) {
		assert.True(t, p.HasAccess(way(map[string]string{"osm:highway": "osm:footway"})))
		assert.True(t, p.HasAccess(way(map[string]string{"osm:Footway": "osm:highway"})))
	})

	t.Run("unconditional rule is the fallback", func(t *testing.T) {
		assert.True(t, p.HasAccess(way(nil)))
	})
}

func TestDefaults(t *testing.T) {
	p := &Profile{}
	w := way(map[string]string{"osm:highway": "osm:Residential"})
	n := datastructure.NewNode("a", 0, 0, map[string]string{"osm:barrier": "osm:Gate"}, nil)

	assert.True(t, p.HasAccess(w))
	assert.False(t, p.IsOneway(w))
	assert.Equal(t, 5.0, p.GetSpeed(w))
	assert.Equal(t, 1.0, p.GetMultiplier(w))
	assert.False(t, p.IsObstacle(n))
	assert.Equal(t, 0.0, p.GetObstacleTime(n))
	assert.Equal(t, 300.0, p.GetMaxSpeed())
}

func TestGetSpeed(t *testing.T) {
	p := &Profile{
		MaxSpeed: floatPtr(100),
		SpeedRules: []Rule{
			{Match: match("osm:highway", "osm:Motorway"), Concludes: Conclusion{Speed: floatPtr(120)}},
			{Match: match("osm:highway", "osm:Residential"), Concludes: Conclusion{Speed: floatPtr(30)}},
		},
	}

	cases := []struct {
		name     string
		tags     map[string]string
		maxSpeed float64
		expected float64
	}{
		{"rule speed capped by profile max", map[string]string{"osm:highway": "osm:Motorway"}, 0, 100},
		{"rule speed capped by way max", map[string]string{"osm:highway": "osm:Motorway"}, 70, 70},
		{"rule speed below limits", map[string]string{"osm:highway": "osm:Residential"}, 50, 30},
		{"no rule fires", map[string]string{"osm:highway": "osm:Track"}, 0, 5},
		{"no rule fires and way max is lower", map[string]string{}, 3, 3},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := way(c.tags)
			w.MaxSpeed = c.maxSpeed
			assert.Equal(t, c.expected, p.GetSpeed(w))
		})
	}
}

func TestOnewayDirection(t *testing.T) {
	p := &Profile{
		OnewayRules: []Rule{
			{Match: match("osm:oneway", "osm:Yes"), Concludes: Conclusion{Oneway: boolPtr(true)}},
			{Match: match("osm:oneway", "osm:Reverse"), Concludes: Conclusion{Oneway: boolPtr(true), Reversed: boolPtr(true)}},
			{Concludes: Conclusion{Oneway: boolPtr(false)}},
		},
	}

	oneway, reversed := p.OnewayDirection(way(map[string]string{"osm:oneway": "osm:Yes"}))
	assert.True(t, oneway)
	assert.False(t, reversed)

	oneway, reversed = p.OnewayDirection(way(map[string]string{"osm:oneway": "osm:Reverse"}))
	assert.True(t, oneway)
	assert.True(t, reversed)

	assert.False(t, p.IsOneway(way(nil)))
}

func TestGetCost(t *testing.T) {
	p := &Profile{
		SpeedRules:        []Rule{{Concludes: Conclusion{Speed: floatPtr(50)}}},
		PriorityRules:     []Rule{{Match: match("osm:highway", "osm:Service"), Concludes: Conclusion{Priority: floatPtr(0.5)}}, {Concludes: Conclusion{Priority: floatPtr(1)}}},
		ObstacleTimeRules: []Rule{{Match: match("osm:highway", "osm:TrafficSignals"), Concludes: Conclusion{ObstacleTime: floatPtr(10)}}},
	}
	a := datastructure.NewNode("a", 0, 0, nil, nil)
	b := datastructure.NewNode("b", 0, 0.01, map[string]string{"osm:highway": "osm:TrafficSignals"}, nil)
	dist := geo.CalculateHaversineDistance(0, 0, 0, 0.01)

	t.Run("duration plus destination obstacle time", func(t *testing.T) {
		expected := int64(dist/50*3600000 + 10000)
		assert.Equal(t, expected, p.GetCost(a, b, way(nil)))
	})

	t.Run("obstacle time only counts at the destination", func(t *testing.T) {
		expected := int64(dist / 50 * 3600000)
		assert.Equal(t, expected, p.GetCost(b, a, way(nil)))
	})

	t.Run("multiplier is the inverse priority", func(t *testing.T) {
		expected := int64(2 * (dist/50*3600000 + 10000))
		assert.Equal(t, expected, p.GetCost(a, b, way(map[string]string{"osm:highway": "osm:Service"})))
	})

	t.Run("coincident nodes cost 1", func(t *testing.T) {
		assert.Equal(t, int64(1), p.GetCost(a, a, way(nil)))
	})

	t.Run("cost is always positive", func(t *testing.T) {
		for i := 0; i < 1000; i++ {
			from := datastructure.NewNode("x", rand.Float64()*0.001, rand.Float64()*0.001, nil, nil)
			to := datastructure.NewNode("y", rand.Float64()*0.001, rand.Float64()*0.001, nil, nil)
			w := way(nil)
			w.MaxSpeed = 1 + rand.Float64()*200
			assert.GreaterOrEqual(t, p.GetCost(from, to, w), int64(1))
		}
	})
}

func TestGetUsedConcepts(t *testing.T) {
	p := &Profile{
		AccessRules: []Rule{
			{Match: match("osm:access", "osm:No"), Concludes: Conclusion{Access: boolPtr(false)}},
			{Concludes: Conclusion{Access: boolPtr(true)}},
		},
		ObstacleRules: []Rule{
			{Match: match("osm:barrier", "osm:Bollard"), Concludes: Conclusion{Obstacle: boolPtr(true)}},
		},
	}

	assert.Equal(t, map[string]struct{}{
		"osm:access":  {},
		"osm:No":      {},
		"osm:barrier": {},
		"osm:Bollard": {},
	}, p.GetUsedConcepts())
}

func TestParseProfile(t *testing.T) {
	t.Run("valid document", func(t *testing.T) {
		p, err := ParseProfile("test", []byte(`{
			"hasMaxSpeed": 80,
			"hasAccessRules": [
				{"match": {"hasPredicate": "osm:highway", "hasObject": "osm:Footway"}, "concludes": {"hasAccess": false}},
				{"concludes": {"hasAccess": true}}
			],
			"hasSpeedRules": [{"concludes": {"hasSpeed": 40}}]
		}`))
		require.NoError(t, err)
		assert.Equal(t, "test", p.Name)
		assert.Equal(t, 80.0, p.GetMaxSpeed())
		assert.Equal(t, 40.0, p.GetSpeed(way(nil)))
	})

	invalid := []struct {
		name string
		doc  string
	}{
		{"missing fallback", `{"hasAccessRules": [{"match": {"hasPredicate": "k", "hasObject": "v"}, "concludes": {"hasAccess": false}}]}`},
		{"fallback not last", `{"hasSpeedRules": [{"concludes": {"hasSpeed": 10}}, {"match": {"hasPredicate": "k", "hasObject": "v"}, "concludes": {"hasSpeed": 20}}]}`},
		{"rule concludes another concern", `{"hasSpeedRules": [{"concludes": {"hasAccess": true}}]}`},
		{"non positive speed", `{"hasSpeedRules": [{"concludes": {"hasSpeed": -1}}]}`},
		{"empty condition", `{"hasAccessRules": [{"match": {"hasPredicate": ""}, "concludes": {"hasAccess": false}}, {"concludes": {"hasAccess": true}}]}`},
		{"not json", `{`},
	}
	for _, c := range invalid {
		t.Run(c.name, func(t *testing.T) {
			_, err := ParseProfile("bad", []byte(c.doc))
			assert.Error(t, err)
			assert.True(t, util.IsCode(err, util.ErrInvalidProfile))
		})
	}
}

func TestLoadBundledProfiles(t *testing.T) {
	for _, name := range []string{"car", "bicycle", "pedestrian"} {
		t.Run(name, func(t *testing.T) {
			p, err := LoadProfile("../../profiles/" + name + ".json")
			require.NoError(t, err)
			assert.Equal(t, name, p.Name)
			assert.NotEmpty(t, p.GetUsedConcepts())
		})
	}
}
