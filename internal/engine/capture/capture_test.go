package capture

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type fakeReader struct {
	pixels []byte
	err    error
	calls  int
}

func (f *fakeReader) ReadPixels(width, height int) ([]byte, error) {
	f.calls++
	return f.pixels, f.err
}

// twoByOne is a bottom-up 2x1 framebuffer: red then blue.
var twoByOne = []byte{255, 0, 0, 0, 0, 255}

func TestCaptureNamesIncrement(t *testing.T) {
	dir := t.TempDir()
	s := NewSession(dir, "", &fakeReader{pixels: twoByOne})

	first, err := s.Capture(2, 1)
	if err != nil {
		t.Fatalf("first capture: %v", err)
	}
	second, err := s.Capture(2, 1)
	if err != nil {
		t.Fatalf("second capture: %v", err)
	}

	if want := filepath.Join(dir, "screenshot-ss0.ppm"); first != want {
		t.Errorf("first = %q, want %q", first, want)
	}
	if want := filepath.Join(dir, "screenshot-ss1.ppm"); second != want {
		t.Errorf("second = %q, want %q", second, want)
	}

	data, err := os.ReadFile(first)
	if err != nil {
		t.Fatal(err)
	}
	want := "P3\n2 1\n255\n255 0 0 0 0 255 \n"
	if string(data) != want {
		t.Errorf("file contents = %q, want %q", data, want)
	}
}

func TestCaptureFailureConsumesNumber(t *testing.T) {
	dir := t.TempDir()
	reader := &fakeReader{err: errors.New("context lost")}
	s := NewSession(dir, "shot", reader)

	if _, err := s.Capture(2, 1); !errors.Is(err, ErrWrite) {
		t.Fatalf("expected ErrWrite, got %v", err)
	}
	if s.Next() != 1 {
		t.Errorf("Next() = %d after failed attempt, want 1", s.Next())
	}

	reader.err = nil
	reader.pixels = twoByOne
	name, err := s.Capture(2, 1)
	if err != nil {
		t.Fatalf("capture: %v", err)
	}
	if filepath.Base(name) != "shot1.ppm" {
		t.Errorf("name = %q, want shot1.ppm", filepath.Base(name))
	}
}

func TestCaptureSizeMismatch(t *testing.T) {
	s := NewSession(t.TempDir(), "", &fakeReader{pixels: twoByOne})
	if _, err := s.Capture(3, 1); !errors.Is(err, ErrWrite) {
		t.Errorf("expected ErrWrite for short pixel data, got %v", err)
	}
}

func TestCaptureWithoutReader(t *testing.T) {
	s := NewSession(t.TempDir(), "", nil)
	if _, err := s.Capture(2, 1); !errors.Is(err, ErrWrite) {
		t.Errorf("expected ErrWrite, got %v", err)
	}
}

func TestSaveUnwritableDir(t *testing.T) {
	// A regular file where the directory should be.
	blocker := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(blocker, nil, 0644); err != nil {
		t.Fatal(err)
	}

	s := NewSession(filepath.Join(blocker, "sub"), "", nil)
	img := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	if _, err := s.Save(img); !errors.Is(err, ErrWrite) {
		t.Errorf("expected ErrWrite, got %v", err)
	}
	if s.Next() != 1 {
		t.Errorf("Next() = %d, want 1", s.Next())
	}
}

func TestFromFramebufferFlips(t *testing.T) {
	// Bottom row green, top row white.
	pixels := []byte{
		0, 255, 0,
		255, 255, 255,
	}
	img, err := FromFramebuffer(pixels, 1, 2)
	if err != nil {
		t.Fatal(err)
	}
	if got := img.NRGBAAt(0, 0); got != (color.NRGBA{255, 255, 255, 255}) {
		t.Errorf("top pixel = %v, want white", got)
	}
	if got := img.NRGBAAt(0, 1); got != (color.NRGBA{0, 255, 0, 255}) {
		t.Errorf("bottom pixel = %v, want green", got)
	}
}

func TestFromFramebufferInvalid(t *testing.T) {
	tests := []struct {
		name   string
		pixels []byte
		w, h   int
	}{
		{"zero width", nil, 0, 1},
		{"negative height", nil, 1, -1},
		{"short", []byte{1, 2}, 1, 1},
		{"long", make([]byte, 4), 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := FromFramebuffer(tt.pixels, tt.w, tt.h); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestWritePPMRows(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 1, 2))
	img.SetNRGBA(0, 0, color.NRGBA{1, 2, 3, 255})
	img.SetNRGBA(0, 1, color.NRGBA{4, 5, 6, 255})

	var buf bytes.Buffer
	if err := WritePPM(&buf, img); err != nil {
		t.Fatal(err)
	}
	want := "P3\n1 2\n255\n1 2 3 \n4 5 6 \n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path string
		want Format
		ok   bool
	}{
		{"out.ppm", FormatPPM, true},
		{"OUT.PNG", FormatPNG, true},
		{"dir/frame.webp", FormatWebP, true},
		{"frame.jpg", "", false},
		{"frame", "", false},
	}
	for _, tt := range tests {
		got, err := FormatFromPath(tt.path)
		if (err == nil) != tt.ok || got != tt.want {
			t.Errorf("FormatFromPath(%q) = %q, %v", tt.path, got, err)
		}
	}
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	img := image.NewNRGBA(image.Rect(0, 0, 4, 3))
	for i := range img.Pix {
		img.Pix[i] = 200
	}

	for _, name := range []string{"a.ppm", "a.png", "a.webp"} {
		path := filepath.Join(dir, name)
		if err := WriteFile(path, img); err != nil {
			t.Fatalf("WriteFile(%s): %v", name, err)
		}
		info, err := os.Stat(path)
		if err != nil || info.Size() == 0 {
			t.Errorf("%s: expected non-empty file, err=%v", name, err)
		}
	}

	f, err := os.Open(filepath.Join(dir, "a.png"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	decoded, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if decoded.Bounds().Dx() != 4 || decoded.Bounds().Dy() != 3 {
		t.Errorf("png bounds = %v", decoded.Bounds())
	}

	data, _ := os.ReadFile(filepath.Join(dir, "a.ppm"))
	if !strings.HasPrefix(string(data), "P3\n4 3\n255\n") {
		t.Errorf("ppm header = %q", data[:min(len(data), 12)])
	}
}

func TestWriteFileUnknownExtension(t *testing.T) {
	err := WriteFile(filepath.Join(t.TempDir(), "a.gif"), image.NewNRGBA(image.Rect(0, 0, 1, 1)))
	if err == nil {
		t.Error("expected error for .gif")
	}
}
