package mount

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/go-drift/tinyui/pkg/dom"
)

const imageMargin = 4

// ImageMount rasterizes the text of each attached tree into an RGBA image,
// one line per innermost element.
type ImageMount struct {
	// Foreground and Background default to black on white.
	Foreground color.Color
	Background color.Color

	mu    sync.Mutex
	face  font.Face
	img   *image.RGBA
	lines []string
}

// NewImageMount creates a blank width x height image mount.
func NewImageMount(width, height int) *ImageMount {
	m := &ImageMount{
		Foreground: color.Black,
		Background: color.White,
		face:       basicfont.Face7x13,
		img:        image.NewRGBA(image.Rect(0, 0, width, height)),
	}
	m.Clear()
	return m
}

// Clear fills the image with the background color.
func (m *ImageMount) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	draw.Draw(m.img, m.img.Bounds(), image.NewUniform(m.Background), image.Point{}, draw.Src)
	m.lines = nil
}

// Attach draws node's text lines from the top left corner. Lines that do
// not fit are dropped.
func (m *ImageMount) Attach(node *dom.Node) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lines = textLines(node)

	metrics := m.face.Metrics()
	lineHeight := metrics.Height.Ceil()
	ascent := metrics.Ascent.Ceil()
	d := &font.Drawer{
		Dst:  m.img,
		Src:  image.NewUniform(m.Foreground),
		Face: m.face,
	}
	for i, line := range m.lines {
		baseline := imageMargin + ascent + i*lineHeight
		if baseline > m.img.Bounds().Dy() {
			break
		}
		d.Dot = fixed.P(imageMargin, baseline)
		d.DrawString(line)
	}
}

// Lines returns the text lines drawn by the last Attach.
func (m *ImageMount) Lines() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.lines...)
}

// Image returns the backing image.
func (m *ImageMount) Image() *image.RGBA {
	return m.img
}

// TextWidth returns the advance width of s in pixels.
func (m *ImageMount) TextWidth(s string) int {
	return font.MeasureString(m.face, s).Ceil()
}

// EncodePNG writes the current image as PNG.
func (m *ImageMount) EncodePNG(w io.Writer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return png.Encode(w, m.img)
}

// textLines returns the text of each element whose children are all text,
// in document order.
func textLines(root *dom.Node) []string {
	var lines []string
	root.Walk(func(n *dom.Node) bool {
		if n.IsText() || len(n.Children) == 0 {
			return true
		}
		for _, c := range n.Children {
			if !c.IsText() {
				return true
			}
		}
		if line := strings.TrimSpace(n.TextContent()); line != "" {
			lines = append(lines, line)
		}
		return true
	})
	if len(lines) == 0 && root.IsText() && root.Text != "" {
		lines = append(lines, root.Text)
	}
	return lines
}
