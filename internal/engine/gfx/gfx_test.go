package gfx

import (
	"errors"
	"strings"
	"testing"
)

func TestInitError(t *testing.T) {
	cause := errors.New("no available video device")
	err := InitError("SDL_Init", cause)

	if !errors.Is(err, ErrInit) {
		t.Fatalf("expected ErrInit, got %v", err)
	}
	if errors.Is(err, cause) {
		t.Error("backend cause should not be matchable")
	}
	for _, want := range []string{"graphics init failed", "SDL_Init", "no available video device"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %q", err, want)
		}
	}
}
