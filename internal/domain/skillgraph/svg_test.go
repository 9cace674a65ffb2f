package skillgraph

import (
	"bytes"
	"image/png"
	"strings"
	"testing"

	"skill-upcycle/internal/domain/analysis"
)

func sampleLayout() Layout {
	skills := []analysis.Skill{
		{Name: "Java Backend", Risk: 0.7},
		{Name: "React", Risk: 0.1},
	}
	routes := []analysis.TransitionRoute{{
		OriginSkill:      "Java Backend",
		TargetCompetency: "Arquitetura de Microsserviços",
		MicroSkill:       "Spring Boot",
	}}
	return ComputeLayout(skills, routes)
}

func TestRenderSVG_Structure(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderSVG(&buf, sampleLayout(), RenderOptions{}); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()

	if !strings.HasPrefix(out, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 800 500"`) {
		t.Fatalf("unexpected svg header: %.80s", out)
	}
	if strings.Count(out, "<line ") != 3 {
		t.Fatalf("expected 3 lines, got %d", strings.Count(out, "<line "))
	}
	if !strings.Contains(out, `filter="url(#glow)"`) {
		t.Fatalf("expected glow filter on target")
	}
	if !strings.Contains(out, `<tspan x="400" dy="-0.5em">Arquitetura</tspan>`) {
		t.Fatalf("expected two-line target label")
	}
	if !strings.Contains(out, ">Spring Boot</text>") {
		t.Fatalf("expected micro label on a single line")
	}
	if !strings.Contains(out, "Risco: 70%") {
		t.Fatalf("expected risk tooltip")
	}
	if strings.Contains(out, "node current hl") {
		t.Fatalf("no node should be highlighted")
	}
}

func TestRenderSVG_HighlightAndEscape(t *testing.T) {
	l := ComputeLayout([]analysis.Skill{{Name: "Go"}, {Name: "<C++>&C", Risk: 0.5}}, nil)

	var buf bytes.Buffer
	if err := RenderSVG(&buf, l, RenderOptions{Highlight: "Go", Background: "#0B0516"}); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	if strings.Contains(out, "<C++>") {
		t.Fatalf("label not escaped")
	}
	if !strings.Contains(out, "&lt;C++&gt;&amp;C") {
		t.Fatalf("expected escaped label")
	}
	if !strings.Contains(out, `class="node target hl" data-id="Go"`) {
		t.Fatalf("expected highlighted node group")
	}
	if strings.Contains(out, `class="node current hl"`) {
		t.Fatalf("only the requested node should be highlighted")
	}
	if !strings.Contains(out, `fill="#0B0516"`) {
		t.Fatalf("expected background rect")
	}
}

func TestRenderSVG_SkipsDanglingEdges(t *testing.T) {
	l := Layout{
		Nodes: []Node{{ID: "T", X: 400, Y: 250, Kind: KindTarget, Label: "T"}},
		Edges: []Edge{{Source: "missing", Target: "T", Style: EdgeSolid}},
	}
	var buf bytes.Buffer
	if err := RenderSVG(&buf, l, RenderOptions{}); err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(buf.String(), "<line ") {
		t.Fatalf("dangling edge drawn")
	}
}

func TestRenderSVG_DashedStroke(t *testing.T) {
	l := ComputeLayout([]analysis.Skill{{Name: "A"}}, []analysis.TransitionRoute{{OriginSkill: "A", TargetCompetency: "T"}})
	var buf bytes.Buffer
	if err := RenderSVG(&buf, l, RenderOptions{}); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(buf.String(), `stroke="#ef4444" stroke-width="2" stroke-dasharray="5,5" opacity="0.8"`) {
		t.Fatalf("expected dashed stroke attributes")
	}
}

func TestRenderPNG(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderPNG(&buf, sampleLayout(), RenderOptions{Highlight: "React"}); err != nil {
		t.Fatalf("render: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	b := img.Bounds()
	if b.Dx() != 800 || b.Dy() != 500 {
		t.Fatalf("unexpected size %dx%d", b.Dx(), b.Dy())
	}
}

func TestHexColor(t *testing.T) {
	c := hexColor("#22d3ee", 1)
	r, g, b, a := c.RGBA()
	if r>>8 != 0x22 || g>>8 != 0xd3 || b>>8 != 0xee || a>>8 != 0xff {
		t.Fatalf("unexpected color %v", c)
	}
	c = hexColor("#fff", 0)
	if _, _, _, a := c.RGBA(); a != 0 {
		t.Fatalf("expected transparent")
	}
}
