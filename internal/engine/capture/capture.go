// Package capture writes framebuffer screenshots as numbered image files.
package capture

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/Faultbox/spotlight-stage/internal/logger"
)

// ErrWrite is returned when a screenshot cannot be read back or written.
var ErrWrite = errors.New("capture write failed")

// Defaults used when a session is created with empty settings.
const (
	DefaultDir    = "."
	DefaultPrefix = "screenshot-ss"
)

// PixelReader reads the current framebuffer as bottom-up, tightly packed
// RGB bytes.
type PixelReader interface {
	ReadPixels(width, height int) ([]byte, error)
}

// Session numbers screenshots. Numbers start at 0, are consumed by every
// attempt (failed ones included) and are never reused.
type Session struct {
	dir    string
	prefix string
	next   int
	reader PixelReader
}

// NewSession creates a capture session writing <dir>/<prefix><N>.ppm.
// reader may be nil if only Save is used.
func NewSession(dir, prefix string, reader PixelReader) *Session {
	if dir == "" {
		dir = DefaultDir
	}
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Session{dir: dir, prefix: prefix, reader: reader}
}

// Next returns the number the next capture will use.
func (s *Session) Next() int {
	return s.next
}

// Capture reads a width x height framebuffer and saves it.
func (s *Session) Capture(width, height int) (string, error) {
	if s.reader == nil {
		s.next++
		return "", fmt.Errorf("%w: no pixel source", ErrWrite)
	}
	pixels, err := s.reader.ReadPixels(width, height)
	if err != nil {
		s.next++
		return "", fmt.Errorf("%w: reading framebuffer: %v", ErrWrite, err)
	}
	img, err := FromFramebuffer(pixels, width, height)
	if err != nil {
		s.next++
		return "", fmt.Errorf("%w: %v", ErrWrite, err)
	}
	return s.Save(img)
}

// Save writes img as the session's next numbered PPM file.
func (s *Session) Save(img image.Image) (string, error) {
	filename := filepath.Join(s.dir, fmt.Sprintf("%s%d.ppm", s.prefix, s.next))
	s.next++

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", fmt.Errorf("%w: creating output dir: %v", ErrWrite, err)
	}

	f, err := os.Create(filename)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrWrite, err)
	}
	if err := WritePPM(f, img); err != nil {
		f.Close()
		return "", fmt.Errorf("%w: %s: %v", ErrWrite, filename, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrWrite, filename, err)
	}

	b := img.Bounds()
	logger.Info("screenshot saved",
		zap.String("file", filename),
		zap.Int("width", b.Dx()),
		zap.Int("height", b.Dy()),
	)
	return filename, nil
}

// FromFramebuffer converts bottom-up RGB rows, as returned by
// glReadPixels with a pack alignment of 1, into a top-down image.
func FromFramebuffer(pixels []byte, width, height int) (*image.NRGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid framebuffer size %dx%d", width, height)
	}
	if len(pixels) != width*height*3 {
		return nil, fmt.Errorf("pixel data size mismatch: expected %d, got %d", width*height*3, len(pixels))
	}

	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	rowSize := width * 3
	for y := 0; y < height; y++ {
		src := pixels[(height-1-y)*rowSize:]
		dst := img.Pix[y*img.Stride:]
		for x := 0; x < width; x++ {
			dst[x*4] = src[x*3]
			dst[x*4+1] = src[x*3+1]
			dst[x*4+2] = src[x*3+2]
			dst[x*4+3] = 255
		}
	}
	return img, nil
}

// WritePPM writes img as a plain-text (P3) PPM with maxval 255. Each
// pixel is written as "R G B " and each row ends with a newline.
func WritePPM(w io.Writer, img image.Image) error {
	b := img.Bounds()
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "P3\n%d %d\n255\n", b.Dx(), b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := img.At(x, y).RGBA()
			fmt.Fprintf(bw, "%d %d %d ", r>>8, g>>8, bl>>8)
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}
