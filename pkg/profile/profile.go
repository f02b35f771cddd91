package profile

import (
	"math"

	"lintang/routabletiles/pkg/datastructure"
	"lintang/routabletiles/pkg/geo"
)

const (
	defaultMaxSpeed = 300.0 // km/h
	defaultSpeed    = 5.0   // km/h
	msPerHour       = 3600000.0
)

// Condition matches when the subject's tags map Predicate to exactly Object.
type Condition struct {
	Predicate string `json:"hasPredicate" validate:"required"`
	Object    string `json:"hasObject" validate:"required"`
}

type Conclusion struct {
	Access       *bool    `json:"hasAccess,omitempty"`
	Oneway       *bool    `json:"isOneway,omitempty"`
	Reversed     *bool    `json:"isReversed,omitempty"`
	Speed        *float64 `json:"hasSpeed,omitempty" validate:"omitempty,gt=0"`
	Priority     *float64 `json:"hasPriority,omitempty" validate:"omitempty,gt=0"`
	Obstacle     *bool    `json:"isObstacle,omitempty"`
	ObstacleTime *float64 `json:"hasObstacleTime,omitempty" validate:"omitempty,gte=0"`
}

// Rule is a conclusion guarded by an optional condition. A rule without condition always fires.
type Rule struct {
	Match     *Condition `json:"match,omitempty"`
	Concludes Conclusion `json:"concludes"`
}

func (r Rule) fires(tags map[string]string) bool {
	if r.Match == nil {
		return true
	}
	value, ok := tags[r.Match.Predicate]
	return ok && value == r.Match.Object
}

// Profile is a declarative rule set for one travel mode.
type Profile struct {
	Name              string   `json:"-"`
	MaxSpeed          *float64 `json:"hasMaxSpeed,omitempty" validate:"omitempty,gt=0"`
	AccessRules       []Rule   `json:"hasAccessRules" validate:"dive"`
	OnewayRules       []Rule   `json:"hasOnewayRules" validate:"dive"`
	SpeedRules        []Rule   `json:"hasSpeedRules" validate:"dive"`
	PriorityRules     []Rule   `json:"hasPriorityRules" validate:"dive"`
	ObstacleRules     []Rule   `json:"hasObstacleRules" validate:"dive"`
	ObstacleTimeRules []Rule   `json:"hasObstacleTimeRules" validate:"dive"`
}

type tagged interface {
	GetTags() map[string]string
}

// firstMatch returns the conclusion of the first rule that fires on subject.
func firstMatch(rules []Rule, subject tagged) (Conclusion, bool) {
	tags := subject.GetTags()
	for _, rule := range rules {
		if rule.fires(tags) {
			return rule.Concludes, true
		}
	}
	return Conclusion{}, false
}

func (p *Profile) HasAccess(way *datastructure.Way) bool {
	if c, ok := firstMatch(p.AccessRules, way); ok && c.Access != nil {
		return *c.Access
	}
	return true
}

func (p *Profile) IsOneway(way *datastructure.Way) bool {
	oneway, _ := p.OnewayDirection(way)
	return oneway
}

// OnewayDirection reports whether the way is one-way and, if so, whether travel runs against the node order.
func (p *Profile) OnewayDirection(way *datastructure.Way) (oneway bool, reversed bool) {
	c, ok := firstMatch(p.OnewayRules, way)
	if !ok || c.Oneway == nil || !*c.Oneway {
		return false, false
	}
	return true, c.Reversed != nil && *c.Reversed
}

func (p *Profile) GetMaxSpeed() float64 {
	if p.MaxSpeed != nil {
		return *p.MaxSpeed
	}
	return defaultMaxSpeed
}

// GetSpeed returns the travel speed on way in km/h.
func (p *Profile) GetSpeed(way *datastructure.Way) float64 {
	limit := p.GetMaxSpeed()
	if way.HasMaxSpeed() {
		limit = math.Min(limit, way.MaxSpeed)
	}

	if c, ok := firstMatch(p.SpeedRules, way); ok && c.Speed != nil {
		return math.Min(*c.Speed, limit)
	}
	return math.Min(limit, defaultSpeed)
}

// GetMultiplier is the inverse of the priority of the first matching priority rule.
func (p *Profile) GetMultiplier(way *datastructure.Way) float64 {
	if c, ok := firstMatch(p.PriorityRules, way); ok && c.Priority != nil {
		return 1 / *c.Priority
	}
	return 1
}

func (p *Profile) IsObstacle(node *datastructure.Node) bool {
	if c, ok := firstMatch(p.ObstacleRules, node); ok && c.Obstacle != nil {
		return *c.Obstacle
	}
	return false
}

// GetObstacleTime returns the delay of passing node in milliseconds.
func (p *Profile) GetObstacleTime(node *datastructure.Node) float64 {
	if c, ok := firstMatch(p.ObstacleTimeRules, node); ok && c.ObstacleTime != nil {
		return *c.ObstacleTime * 1000
	}
	return 0
}

// GetCost returns the cost in milliseconds of traversing from -> to along way. Always >= 1.
func (p *Profile) GetCost(from, to *datastructure.Node, way *datastructure.Way) int64 {
	distance := geo.CalculateHaversineDistance(from.Lat, from.Lon, to.Lat, to.Lon) // km
	duration := distance / p.GetSpeed(way) * msPerHour

	cost := p.GetMultiplier(way) * (duration + p.GetObstacleTime(to))
	if cost < 1 || math.IsNaN(cost) {
		return 1
	}
	if cost > math.MaxInt64/2 {
		return math.MaxInt64 / 2
	}
	return int64(cost)
}

// GetUsedConcepts returns every tag key and value referenced by a rule condition.
func (p *Profile) GetUsedConcepts() map[string]struct{} {
	concepts := make(map[string]struct{})
	for _, rules := range p.ruleLists() {
		for _, rule := range rules {
			if rule.Match == nil {
				continue
			}
			concepts[rule.Match.Predicate] = struct{}{}
			concepts[rule.Match.Object] = struct{}{}
		}
	}
	return concepts
}

func (p *Profile) ruleLists() [][]Rule {
	return [][]Rule{
		p.AccessRules,
		p.OnewayRules,
		p.SpeedRules,
		p.PriorityRules,
		p.ObstacleRules,
		p.ObstacleTimeRules,
	}
}
