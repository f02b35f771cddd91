package profile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"lintang/routabletiles/pkg/util"
)

// LoadProfile reads and validates a profile document. Profiles are loaded once per run.
func LoadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, util.WrapErrorf(err, util.ErrInvalidProfile, "reading profile %s", path)
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return ParseProfile(name, data)
}

func ParseProfile(name string, data []byte) (*Profile, error) {
	p := &Profile{}
	if err := json.Unmarshal(data, p); err != nil {
		return nil, util.WrapErrorf(err, util.ErrInvalidProfile, "decoding profile %s", name)
	}
	p.Name = name

	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

type concern struct {
	name  string
	rules []Rule
	has   func(c Conclusion) bool
}

// Validate checks that every rule concludes its own concern and that each non-empty rule list
// ends with exactly one unconditional fallback.
func (p *Profile) Validate() error {
	if err := util.ValidateStruct(p); err != nil {
		return util.WrapErrorf(err, util.ErrInvalidProfile, "profile %s", p.Name)
	}

	concerns := []concern{
		{"hasAccessRules", p.AccessRules, func(c Conclusion) bool { return c.Access != nil }},
		{"hasOnewayRules", p.OnewayRules, func(c Conclusion) bool { return c.Oneway != nil }},
		{"hasSpeedRules", p.SpeedRules, func(c Conclusion) bool { return c.Speed != nil }},
		{"hasPriorityRules", p.PriorityRules, func(c Conclusion) bool { return c.Priority != nil }},
		{"hasObstacleRules", p.ObstacleRules, func(c Conclusion) bool { return c.Obstacle != nil }},
		{"hasObstacleTimeRules", p.ObstacleTimeRules, func(c Conclusion) bool { return c.ObstacleTime != nil }},
	}

	for _, cc := range concerns {
		for i, rule := range cc.rules {
			if !cc.has(rule.Concludes) {
				return util.NewErrorf(util.ErrInvalidProfile, "profile %s: %s[%d] does not conclude its concern",
					p.Name, cc.name, i)
			}
			last := i == len(cc.rules)-1
			if rule.Match == nil && !last {
				return util.NewErrorf(util.ErrInvalidProfile, "profile %s: %s[%d] is unconditional but not the last rule",
					p.Name, cc.name, i)
			}
			if rule.Match != nil && last {
				return util.NewErrorf(util.ErrInvalidProfile, "profile %s: %s has no fallback rule",
					p.Name, cc.name)
			}
		}
	}
	return nil
}

func (p *Profile) String() string {
	return fmt.Sprintf("%s (max %.0f km/h)", p.Name, p.GetMaxSpeed())
}
