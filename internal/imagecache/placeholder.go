package imagecache

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// placeholderBase is the logical canvas size the caption is drawn on. The
// canvas is resized to the requested dimensions afterwards, which scales the
// caption with the target.
const placeholderBase = 100

const placeholderText = "No Image"

var (
	placeholderBackground = color.NRGBA{R: 0xF0, G: 0xF0, B: 0xF0, A: 0xFF}
	placeholderForeground = color.NRGBA{R: 0x66, G: 0x66, B: 0x66, A: 0xFF}
)

// Placeholder generates the fallback thumbnail: a solid neutral background
// with a centered "No Image" caption, at the requested dimensions.
func Placeholder(width, height int) image.Image {
	if width <= 0 {
		width = placeholderBase
	}
	if height <= 0 {
		height = placeholderBase
	}

	canvas := imaging.New(placeholderBase, placeholderBase, placeholderBackground)

	face := basicfont.Face7x13
	drawer := &font.Drawer{
		Dst:  canvas,
		Src:  image.NewUniform(placeholderForeground),
		Face: face,
	}

	textWidth := drawer.MeasureString(placeholderText)
	drawer.Dot = fixed.Point26_6{
		X: (fixed.I(placeholderBase) - textWidth) / 2,
		Y: fixed.I(placeholderBase/2 + face.Ascent/2),
	}
	drawer.DrawString(placeholderText)

	if width == placeholderBase && height == placeholderBase {
		return canvas
	}
	return imaging.Resize(canvas, width, height, imaging.Lanczos)
}
