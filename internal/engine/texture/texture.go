// Package texture decodes texture images into the layout OpenGL uploads
// and samples them on the CPU the way the GL sampler does.
package texture

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"
	"image/png"
	"io"
	"math"

	"github.com/ftrvxmtrx/tga"
	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/image/bmp"
)

// ErrAssetDecode is returned when texture bytes are not a supported image.
var ErrAssetDecode = errors.New("asset decode failed")

// Image is a tightly packed 8-bit RGB image. Row 0 is the bottom row of
// the source picture, matching OpenGL's texture origin.
type Image struct {
	Width  int
	Height int
	Pix    []uint8 // 3 bytes per texel, no row padding
}

// Decode decodes PNG, JPEG, BMP or TGA data, drops alpha and flips it
// vertically.
func Decode(data []byte) (*Image, error) {
	format, decode := sniff(data)
	if format == "tga" && len(data) < tgaFooterSize {
		// The decoder always seeks to the v2 footer position.
		data = append(data[:len(data):len(data)], make([]byte, tgaFooterSize-len(data))...)
	}
	src, err := decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrAssetDecode, format, err)
	}
	if src.Bounds().Empty() {
		return nil, fmt.Errorf("%w: empty %s image", ErrAssetDecode, format)
	}
	return FromImage(src), nil
}

// tgaFooterSize is the size of the TGA 2.0 file footer.
const tgaFooterSize = 26

// sniff picks a decoder by magic bytes. TGA has no signature, so it is
// the fallback.
func sniff(data []byte) (string, func(io.Reader) (image.Image, error)) {
	switch {
	case bytes.HasPrefix(data, []byte("\x89PNG\r\n\x1a\n")):
		return "png", png.Decode
	case bytes.HasPrefix(data, []byte{0xff, 0xd8}):
		return "jpeg", jpeg.Decode
	case bytes.HasPrefix(data, []byte("BM")):
		return "bmp", bmp.Decode
	default:
		return "tga", tga.Decode
	}
}

// FromImage converts any image to a bottom-up RGB Image. Alpha is
// discarded without premultiplying.
func FromImage(src image.Image) *Image {
	b := src.Bounds()
	nrgba, ok := src.(*image.NRGBA)
	if !ok || nrgba.Rect.Min != (image.Point{}) {
		nrgba = image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(nrgba, nrgba.Bounds(), src, b.Min, draw.Src)
	}

	w, h := b.Dx(), b.Dy()
	img := &Image{Width: w, Height: h, Pix: make([]uint8, w*h*3)}
	for y := 0; y < h; y++ {
		srcRow := nrgba.Pix[y*nrgba.Stride:]
		dstRow := img.Pix[(h-1-y)*w*3:]
		for x := 0; x < w; x++ {
			copy(dstRow[x*3:x*3+3], srcRow[x*4:x*4+3])
		}
	}
	return img
}

// texel returns the color at (x, y) with repeat wrapping, scaled to [0,1].
func (m *Image) texel(x, y int) mgl32.Vec3 {
	x = wrap(x, m.Width)
	y = wrap(y, m.Height)
	i := (y*m.Width + x) * 3
	return mgl32.Vec3{
		float32(m.Pix[i]) / 255,
		float32(m.Pix[i+1]) / 255,
		float32(m.Pix[i+2]) / 255,
	}
}

// At samples the image at texture coordinate (u, v) with bilinear
// filtering and repeat wrapping. Texel centers sit at half-texel offsets,
// as with GL_LINEAR.
func (m *Image) At(u, v float32) mgl32.Vec3 {
	if m.Width == 0 || m.Height == 0 {
		return mgl32.Vec3{}
	}
	fx := float64(u)*float64(m.Width) - 0.5
	fy := float64(v)*float64(m.Height) - 0.5
	x0f, y0f := math.Floor(fx), math.Floor(fy)
	dx, dy := float32(fx-x0f), float32(fy-y0f)
	x0, y0 := int(x0f), int(y0f)

	c00 := m.texel(x0, y0)
	c10 := m.texel(x0+1, y0)
	c01 := m.texel(x0, y0+1)
	c11 := m.texel(x0+1, y0+1)

	bottom := c00.Mul(1 - dx).Add(c10.Mul(dx))
	top := c01.Mul(1 - dx).Add(c11.Mul(dx))
	return bottom.Mul(1 - dy).Add(top.Mul(dy))
}

func wrap(i, n int) int {
	i %= n
	if i < 0 {
		i += n
	}
	return i
}
