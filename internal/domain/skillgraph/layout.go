// Package skillgraph lays out a resume analysis as a radial graph: the target
// competency in the centre, current skills on a ring around it, and
// micro-skill stepping stones between them.
package skillgraph

import (
	"math"

	"skill-upcycle/internal/domain/analysis"
)

const (
	CanvasWidth  = 800.0
	CanvasHeight = 500.0

	RingRadius   = 180.0
	RingJitter   = 20.0
	MicroOffsetY = 30.0

	// FallbackTarget names the centre node when there are neither routes nor
	// skills.
	FallbackTarget = "Centro"

	microIDPrefix = "micro-"
)

type NodeKind string

const (
	KindTarget  NodeKind = "target"
	KindCurrent NodeKind = "current"
	KindMicro   NodeKind = "micro"
)

type EdgeStyle string

const (
	EdgeSolid  EdgeStyle = "solid"
	EdgeDashed EdgeStyle = "dashed"
)

type Node struct {
	ID    string   `json:"id"`
	X     float64  `json:"x"`
	Y     float64  `json:"y"`
	Kind  NodeKind `json:"kind"`
	Risk  *float64 `json:"risk,omitempty"`
	Label string   `json:"label"`
}

type Edge struct {
	Source string    `json:"source"`
	Target string    `json:"target"`
	Style  EdgeStyle `json:"style"`
}

type Layout struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

type options struct {
	directRouteEdges bool
}

type Option func(*options)

// WithDirectRouteEdges also draws the dashed skill→target edge for skills
// that get a micro node.
func WithDirectRouteEdges() Option {
	return func(o *options) { o.directRouteEdges = true }
}

// MicroID is the node id of the micro-skill hanging off the given skill.
func MicroID(skillName string) string {
	return microIDPrefix + skillName
}

// TargetName picks the centre of the graph: the first route's target
// competency, else the first skill, else FallbackTarget.
func TargetName(skills []analysis.Skill, routes []analysis.TransitionRoute) string {
	if len(routes) > 0 {
		return routes[0].TargetCompetency
	}
	if len(skills) > 0 && skills[0].Name != "" {
		return skills[0].Name
	}
	return FallbackTarget
}

// ComputeLayout is a pure function of its inputs: the same skills and routes
// in the same order always produce the same nodes, edges and coordinates.
//
// Callers should show the empty state instead of calling it with no skills.
func ComputeLayout(skills []analysis.Skill, routes []analysis.TransitionRoute, opts ...Option) Layout {
	var o options
	for _, fn := range opts {
		if fn != nil {
			fn(&o)
		}
	}

	cx, cy := CanvasWidth/2, CanvasHeight/2
	target := TargetName(skills, routes)

	out := Layout{
		Nodes: []Node{{ID: target, X: cx, Y: cy, Kind: KindTarget, Label: target}},
		Edges: []Edge{},
	}

	current := make([]analysis.Skill, 0, len(skills))
	for _, s := range skills {
		if s.Name == target {
			continue
		}
		current = append(current, s)
	}

	count := len(current)
	if count == 0 {
		return out
	}
	step := 2 * math.Pi / float64(count)

	for i, s := range current {
		angle := float64(i)*step - math.Pi/2
		r := RingRadius + RingJitter
		if i%2 != 0 {
			r = RingRadius - RingJitter
		}
		x := cx + math.Cos(angle)*r
		y := cy + math.Sin(angle)*r

		risk := s.Risk
		out.Nodes = append(out.Nodes, Node{ID: s.Name, X: x, Y: y, Kind: KindCurrent, Risk: &risk, Label: s.Name})

		route, ok := firstRoute(routes, s.Name, target)
		if !ok {
			out.Edges = append(out.Edges, Edge{Source: s.Name, Target: target, Style: EdgeSolid})
			continue
		}
		if o.directRouteEdges {
			out.Edges = append(out.Edges, Edge{Source: s.Name, Target: target, Style: EdgeDashed})
		}
		mid := MicroID(s.Name)
		out.Nodes = append(out.Nodes, Node{
			ID:    mid,
			X:     (x + cx) / 2,
			Y:     (y+cy)/2 + MicroOffsetY,
			Kind:  KindMicro,
			Label: route.MicroSkill,
		})
		out.Edges = append(out.Edges,
			Edge{Source: s.Name, Target: mid, Style: EdgeSolid},
			Edge{Source: mid, Target: target, Style: EdgeSolid},
		)
	}

	return out
}

// firstRoute returns the first route from origin to target. Further parallel
// routes for the same pair are not drawn.
func firstRoute(routes []analysis.TransitionRoute, origin, target string) (analysis.TransitionRoute, bool) {
	for _, r := range routes {
		if r.OriginSkill == origin && r.TargetCompetency == target {
			return r, true
		}
	}
	return analysis.TransitionRoute{}, false
}

// Node looks a node up by id.
func (l Layout) Node(id string) (Node, bool) {
	for _, n := range l.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

func (l Layout) index() map[string]Node {
	m := make(map[string]Node, len(l.Nodes))
	for _, n := range l.Nodes {
		if _, ok := m[n.ID]; !ok {
			m[n.ID] = n
		}
	}
	return m
}
