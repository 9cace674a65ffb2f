package skillgraph

import (
	"bufio"
	"fmt"
	"html"
	"io"
	"math"
	"strconv"
	"strings"

	"skill-upcycle/internal/domain/analysis"
)

const (
	strokeDashed = "#ef4444"
	strokeSolid  = "#475569"
	microFill    = "#1e293b"
	haloGrow     = 10.0
)

type RenderOptions struct {
	// Highlight is the id of the node drawn in its hovered state.
	Highlight string
	// Background fills the canvas when set; the SVG is transparent otherwise.
	Background string
}

const svgStyle = `.node .halo{opacity:0;transition:all .3s ease}` +
	`.node:hover .halo{opacity:.2}` +
	`.node .tip{visibility:hidden}` +
	`.node:hover .tip{visibility:visible}` +
	`.node.hl .halo{opacity:.2}` +
	`.node.hl .tip{visibility:visible}`

// RenderSVG writes the layout as a standalone SVG document. Edges whose
// endpoints are not in the layout are skipped.
func RenderSVG(w io.Writer, l Layout, opts RenderOptions) error {
	bw := bufio.NewWriter(w)
	p := &printer{w: bw}

	p.printf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %s %s" width="%s" height="%s">`,
		num(CanvasWidth), num(CanvasHeight), num(CanvasWidth), num(CanvasHeight))
	p.printf(`<defs>`)
	p.printf(`<marker id="arrowhead" markerWidth="10" markerHeight="7" refX="28" refY="3.5" orient="auto"><polygon points="0 0, 10 3.5, 0 7" fill="#4b5563" opacity="0.5"/></marker>`)
	p.printf(`<filter id="glow" x="-50%%" y="-50%%" width="200%%" height="200%%"><feGaussianBlur stdDeviation="4" result="coloredBlur"/><feMerge><feMergeNode in="coloredBlur"/><feMergeNode in="SourceGraphic"/></feMerge></filter>`)
	p.printf(`<style>%s</style>`, svgStyle)
	p.printf(`</defs>`)

	if opts.Background != "" {
		p.printf(`<rect width="100%%" height="100%%" fill="%s"/>`, esc(opts.Background))
	}

	idx := l.index()

	p.printf(`<g class="edges">`)
	for _, e := range l.Edges {
		src, ok1 := idx[e.Source]
		dst, ok2 := idx[e.Target]
		if !ok1 || !ok2 {
			continue
		}
		st := edgeStroke(e.Style)
		p.printf(`<line x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s" stroke-width="%s" stroke-dasharray="%s" opacity="%s"/>`,
			num(src.X), num(src.Y), num(dst.X), num(dst.Y), st.color, num(st.width), st.dash, num(st.opacity))
	}
	p.printf(`</g>`)

	p.printf(`<g class="nodes">`)
	for _, n := range l.Nodes {
		writeNode(p, n, n.ID == opts.Highlight && opts.Highlight != "")
	}
	p.printf(`</g>`)
	p.printf(`</svg>`)

	if p.err != nil {
		return p.err
	}
	return bw.Flush()
}

func writeNode(p *printer, n Node, highlighted bool) {
	color := NodeColor(n)
	r := NodeRadius(n.Kind)

	class := "node " + string(n.Kind)
	if highlighted {
		class += " hl"
	}
	p.printf(`<g class="%s" data-id="%s">`, class, esc(n.ID))
	p.printf(`<circle class="halo" cx="%s" cy="%s" r="%s" fill="%s"/>`, num(n.X), num(n.Y), num(r+haloGrow), color)

	fill := color
	strokeWidth := 0.0
	opacity := 1.0
	filter := ""
	switch n.Kind {
	case KindMicro:
		fill = microFill
		strokeWidth = 1
		opacity = 0.8
	case KindTarget:
		filter = ` filter="url(#glow)"`
	}
	p.printf(`<circle cx="%s" cy="%s" r="%s" fill="%s" stroke="%s" stroke-width="%s" opacity="%s"%s/>`,
		num(n.X), num(n.Y), num(r), fill, color, num(strokeWidth), num(opacity), filter)

	fontSize := 12
	if n.Kind == KindMicro {
		fontSize = 10
	}
	p.printf(`<text x="%s" y="%s" dy=".3em" text-anchor="middle" fill="#fff" font-size="%d" font-weight="bold" pointer-events="none">`,
		num(n.X), num(n.Y), fontSize)
	lines := LabelLines(n)
	if len(lines) == 2 {
		p.printf(`<tspan x="%s" dy="-0.5em">%s</tspan><tspan x="%s" dy="1.2em">%s</tspan>`,
			num(n.X), esc(lines[0]), num(n.X), esc(lines[1]))
	} else {
		p.printf(`%s`, esc(n.Label))
	}
	p.printf(`</text>`)

	if n.Kind == KindCurrent {
		p.printf(`<text class="tip" x="%s" y="%s" text-anchor="middle" fill="#fff" font-size="10">%s</text>`,
			num(n.X), num(n.Y-r-10), esc(Tooltip(n)))
	}
	p.printf(`</g>`)
}

// LabelLines splits multi-word labels of non-micro nodes into a first word
// and the remainder.
func LabelLines(n Node) []string {
	words := strings.Fields(n.Label)
	if len(words) > 1 && n.Kind != KindMicro {
		return []string{words[0], strings.Join(words[1:], " ")}
	}
	return []string{n.Label}
}

func Tooltip(n Node) string {
	risk := 0.0
	if n.Risk != nil {
		risk = *n.Risk
	}
	return fmt.Sprintf("Risco: %d%%", analysis.RiskPercent(risk))
}

type stroke struct {
	color   string
	width   float64
	dash    string
	opacity float64
}

func edgeStroke(s EdgeStyle) stroke {
	if s == EdgeDashed {
		return stroke{color: strokeDashed, width: 2, dash: "5,5", opacity: 0.8}
	}
	return stroke{color: strokeSolid, width: 1, dash: "0", opacity: 0.4}
}

type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func num(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}

func esc(s string) string {
	return html.EscapeString(s)
}
