package skillgraph

import (
	"fmt"
	"image/color"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

const defaultRasterBackground = "#0B0516"

type faces struct {
	label font.Face
	micro font.Face
	tip   font.Face
}

var (
	facesOnce sync.Once
	facesVal  faces
	facesErr  error
)

func loadFaces() (faces, error) {
	facesOnce.Do(func() {
		bold, err := truetype.Parse(gobold.TTF)
		if err != nil {
			facesErr = fmt.Errorf("parse bold font: %w", err)
			return
		}
		regular, err := truetype.Parse(goregular.TTF)
		if err != nil {
			facesErr = fmt.Errorf("parse regular font: %w", err)
			return
		}
		facesVal = faces{
			label: truetype.NewFace(bold, &truetype.Options{Size: 12, DPI: 72, Hinting: font.HintingNone}),
			micro: truetype.NewFace(bold, &truetype.Options{Size: 10, DPI: 72, Hinting: font.HintingNone}),
			tip:   truetype.NewFace(regular, &truetype.Options{Size: 10, DPI: 72, Hinting: font.HintingNone}),
		}
	})
	return facesVal, facesErr
}

// RenderPNG rasterizes the layout at canvas size. It mirrors RenderSVG
// except for the glow filter and CSS hover, which have no raster form.
func RenderPNG(w io.Writer, l Layout, opts RenderOptions) error {
	ff, err := loadFaces()
	if err != nil {
		return err
	}

	dc := gg.NewContext(int(CanvasWidth), int(CanvasHeight))

	bg := opts.Background
	if bg == "" {
		bg = defaultRasterBackground
	}
	dc.SetColor(hexColor(bg, 1))
	dc.Clear()

	idx := l.index()
	for _, e := range l.Edges {
		src, ok1 := idx[e.Source]
		dst, ok2 := idx[e.Target]
		if !ok1 || !ok2 {
			continue
		}
		st := edgeStroke(e.Style)
		dc.SetColor(hexColor(st.color, st.opacity))
		dc.SetLineWidth(st.width)
		if e.Style == EdgeDashed {
			dc.SetDash(5, 5)
		} else {
			dc.SetDash()
		}
		dc.DrawLine(src.X, src.Y, dst.X, dst.Y)
		dc.Stroke()
	}
	dc.SetDash()

	for _, n := range l.Nodes {
		c := NodeColor(n)
		r := NodeRadius(n.Kind)

		if opts.Highlight != "" && n.ID == opts.Highlight {
			dc.SetColor(hexColor(c, 0.2))
			dc.DrawCircle(n.X, n.Y, r+haloGrow)
			dc.Fill()
		}

		dc.DrawCircle(n.X, n.Y, r)
		if n.Kind == KindMicro {
			dc.SetColor(hexColor(microFill, 0.8))
			dc.FillPreserve()
			dc.SetColor(hexColor(c, 0.8))
			dc.SetLineWidth(1)
			dc.Stroke()
		} else {
			dc.SetColor(hexColor(c, 1))
			dc.Fill()
		}

		face := ff.label
		if n.Kind == KindMicro {
			face = ff.micro
		}
		dc.SetFontFace(face)
		dc.SetColor(color.White)
		lines := LabelLines(n)
		if len(lines) == 2 {
			dc.DrawStringAnchored(lines[0], n.X, n.Y-6, 0.5, 0.5)
			dc.DrawStringAnchored(lines[1], n.X, n.Y+8, 0.5, 0.5)
		} else {
			dc.DrawStringAnchored(n.Label, n.X, n.Y, 0.5, 0.5)
		}

		if n.Kind == KindCurrent && opts.Highlight == n.ID {
			dc.SetFontFace(ff.tip)
			dc.DrawStringAnchored(Tooltip(n), n.X, n.Y-r-10, 0.5, 0)
		}
	}

	return dc.EncodePNG(w)
}

// hexColor parses #rgb or #rrggbb. Unparseable input is black.
func hexColor(s string, alpha float64) color.Color {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if len(s) != 6 || err != nil {
		v = 0
	}
	if alpha < 0 {
		alpha = 0
	}
	if alpha > 1 {
		alpha = 1
	}
	return color.NRGBA{
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
		A: uint8(alpha*255 + 0.5),
	}
}
