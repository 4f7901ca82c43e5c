// Translucent drag previews for clone drags.

package circuitfile

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"math"

	"github.com/fogleman/gg"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"github.com/ha1tch/wiredit/pkg/circuit"
	"github.com/ha1tch/wiredit/pkg/geom"
)

// PreviewOptions configures preview rendering.
type PreviewOptions struct {
	Padding float64 // Added around the selection bounds
	Opacity float64 // 0..1
	Scale   int     // Supersampling factor
}

// DefaultPreviewOptions returns the clone-drag preview settings.
func DefaultPreviewOptions() PreviewOptions {
	return PreviewOptions{Padding: 8, Opacity: 0.25, Scale: 4}
}

var (
	previewBody   = color.RGBA{227, 242, 253, 255}
	previewBorder = color.RGBA{21, 101, 192, 255}
	previewWire   = color.RGBA{51, 51, 51, 255}
	previewPort   = color.RGBA{230, 81, 0, 255}
)

// Preview is a rendered drag image and the scene rectangle it covers.
type Preview struct {
	Image  *image.RGBA
	Bounds geom.Rect
}

// Hotspot returns the image coordinate of scene point p.
func (p Preview) Hotspot(at geom.Point) image.Point {
	return image.Pt(int(math.Round(at.X-p.Bounds.X)), int(math.Round(at.Y-p.Bounds.Y)))
}

// RenderPreview draws elems and conns over their bounding box grown by
// opts.Padding, then fades the result to opts.Opacity.
func RenderPreview(elems []*circuit.Element, conns []*circuit.Connection, opts PreviewOptions) Preview {
	if opts.Scale < 1 {
		opts.Scale = 1
	}
	bounds := circuit.ItemsBounds(elems).Adjusted(opts.Padding)
	w := int(math.Ceil(bounds.W))
	h := int(math.Ceil(bounds.H))
	if w < 1 || h < 1 {
		return Preview{Image: image.NewRGBA(image.Rect(0, 0, 1, 1)), Bounds: bounds}
	}

	scale := float64(opts.Scale)
	dc := gg.NewContext(w*opts.Scale, h*opts.Scale)
	dc.Scale(scale, scale)
	dc.Translate(-bounds.X, -bounds.Y)
	if face := previewFace(12 * scale); face != nil {
		dc.SetFontFace(face)
	}

	dc.SetLineWidth(2)
	dc.SetColor(previewWire)
	for _, c := range conns {
		a, b := c.StartPos(), c.EndPos()
		dc.DrawLine(a.X, a.Y, b.X, b.Y)
		dc.Stroke()
	}

	for _, e := range elems {
		drawPreviewElement(dc, e)
	}

	large := dc.Image()
	scaled := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(scaled, scaled.Bounds(), large, large.Bounds(), draw.Over, nil)

	faded := image.NewRGBA(scaled.Bounds())
	alpha := uint8(math.Round(clamp01(opts.Opacity) * 255))
	draw.DrawMask(faded, faded.Bounds(), scaled, image.Point{}, image.NewUniform(color.Alpha{A: alpha}), image.Point{}, draw.Over)

	return Preview{Image: faded, Bounds: bounds}
}

func drawPreviewElement(dc *gg.Context, e *circuit.Element) {
	c := e.Centre()
	dc.Push()
	dc.RotateAbout(gg.Radians(e.Rotation), c.X, c.Y)
	switch e.Kind.Group() {
	case circuit.GroupNode, circuit.GroupOutput:
		dc.DrawEllipse(c.X, c.Y, e.W/2, e.H/2)
	default:
		dc.DrawRoundedRectangle(e.Pos.X, e.Pos.Y, e.W, e.H, 6)
	}
	dc.SetColor(previewBody)
	dc.FillPreserve()
	dc.SetColor(previewBorder)
	dc.SetLineWidth(1.5)
	dc.Stroke()
	dc.Pop()

	if e.Kind.Group() != circuit.GroupNode {
		dc.SetColor(previewBorder)
		dc.DrawStringAnchored(e.DisplayName(), c.X, c.Y, 0.5, 0.5)
	}

	dc.SetColor(previewPort)
	for _, p := range e.Ports() {
		pos := p.Pos()
		dc.DrawCircle(pos.X, pos.Y, circuit.PortRadius/2)
		dc.Fill()
	}
}

// previewFace returns a Go Regular face at size points, or nil if it cannot be built.
func previewFace(size float64) font.Face {
	fnt, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil
	}
	face, err := opentype.NewFace(fnt, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil
	}
	return face
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

// WritePreviewPNG encodes the preview image as PNG.
func WritePreviewPNG(w io.Writer, p Preview) error {
	return png.Encode(w, p.Image)
}
