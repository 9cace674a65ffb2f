package dto

import "skill-upcycle/internal/domain/skillgraph"

// GraphNodeResponse is a layout node with the presentation a client needs to
// draw it without re-deriving colours and sizes.
type GraphNodeResponse struct {
	skillgraph.Node
	Color    string              `json:"color"`
	Radius   float64             `json:"radius"`
	Tier     skillgraph.RiskTier `json:"tier,omitempty"`
	Lines    []string            `json:"lines"`
	Tooltip  string              `json:"tooltip,omitempty"`
	Selected bool                `json:"selected,omitempty"`
}

type GraphResponse struct {
	Nodes  []GraphNodeResponse      `json:"nodes"`
	Edges  []skillgraph.Edge        `json:"edges"`
	Legend []skillgraph.LegendEntry `json:"legend"`
}

func NewGraphResponse(l skillgraph.Layout, highlight string) GraphResponse {
	out := GraphResponse{
		Nodes:  make([]GraphNodeResponse, 0, len(l.Nodes)),
		Edges:  l.Edges,
		Legend: skillgraph.Legend,
	}
	if out.Edges == nil {
		out.Edges = []skillgraph.Edge{}
	}
	for _, n := range l.Nodes {
		gn := GraphNodeResponse{
			Node:     n,
			Color:    skillgraph.NodeColor(n),
			Radius:   skillgraph.NodeRadius(n.Kind),
			Lines:    skillgraph.LabelLines(n),
			Selected: highlight != "" && n.ID == highlight,
		}
		if n.Kind == skillgraph.KindCurrent && n.Risk != nil {
			gn.Tier = skillgraph.RiskTierOf(*n.Risk)
			gn.Tooltip = skillgraph.Tooltip(n)
		}
		out.Nodes = append(out.Nodes, gn)
	}
	return out
}
