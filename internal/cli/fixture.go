package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"skill-upcycle/internal/domain/analysis"

	"gopkg.in/yaml.v3"
)

// Fixture is the on-disk input of the skillgraph commands.
type Fixture struct {
	Skills []FixtureSkill `json:"skills" yaml:"skills"`
	Routes []FixtureRoute `json:"routes" yaml:"routes"`
}

type FixtureSkill struct {
	Name           string  `json:"name" yaml:"name"`
	Risk           float64 `json:"risk" yaml:"risk"`
	Longevity      string  `json:"longevity,omitempty" yaml:"longevity,omitempty"`
	YearsRemaining *int    `json:"years_remaining,omitempty" yaml:"years_remaining,omitempty"`
	Category       string  `json:"category,omitempty" yaml:"category,omitempty"`
}

type FixtureRoute struct {
	OriginSkill      string  `json:"origin_skill" yaml:"origin_skill"`
	TargetCompetency string  `json:"target_competency" yaml:"target_competency"`
	MicroSkill       string  `json:"micro_skill,omitempty" yaml:"micro_skill,omitempty"`
	EstimatedHours   int     `json:"estimated_hours,omitempty" yaml:"estimated_hours,omitempty"`
	LongevityGain    float64 `json:"longevity_gain,omitempty" yaml:"longevity_gain,omitempty"`
	RouteType        string  `json:"route_type,omitempty" yaml:"route_type,omitempty"`
}

func (f Fixture) Domain() ([]analysis.Skill, []analysis.TransitionRoute) {
	skills := make([]analysis.Skill, 0, len(f.Skills))
	for _, s := range f.Skills {
		skills = append(skills, analysis.Skill{
			Name:           s.Name,
			Risk:           s.Risk,
			Longevity:      s.Longevity,
			YearsRemaining: s.YearsRemaining,
			Category:       s.Category,
		})
	}
	routes := make([]analysis.TransitionRoute, 0, len(f.Routes))
	for _, r := range f.Routes {
		routes = append(routes, analysis.TransitionRoute{
			OriginSkill:      r.OriginSkill,
			TargetCompetency: r.TargetCompetency,
			MicroSkill:       r.MicroSkill,
			EstimatedHours:   r.EstimatedHours,
			LongevityGain:    r.LongevityGain,
			RouteType:        r.RouteType,
		})
	}
	return skills, routes
}

// ReadFixture loads path as YAML when its extension is .yaml or .yml and as
// JSON otherwise. "-" reads JSON from stdin.
func ReadFixture(path string, stdin io.Reader) (Fixture, error) {
	var raw []byte
	var err error
	if path == "-" {
		raw, err = io.ReadAll(stdin)
	} else {
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		return Fixture{}, fmt.Errorf("read fixture: %w", err)
	}

	var f Fixture
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(raw, &f); err != nil {
			return Fixture{}, fmt.Errorf("parse yaml fixture: %w", err)
		}
	default:
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&f); err != nil {
			return Fixture{}, fmt.Errorf("parse json fixture: %w", err)
		}
	}

	for i, s := range f.Skills {
		if strings.TrimSpace(s.Name) == "" {
			return Fixture{}, fmt.Errorf("skills[%d]: name required", i)
		}
		if s.Risk < 0 || s.Risk > 1 {
			return Fixture{}, fmt.Errorf("skills[%d]: risk %v outside [0,1]", i, s.Risk)
		}
	}
	return f, nil
}
