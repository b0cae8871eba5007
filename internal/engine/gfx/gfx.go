// Package gfx holds the error shared by the window and renderer layers
// when the graphics stack cannot be brought up.
package gfx

import (
	"errors"
	"fmt"
)

// ErrInit is returned when the window, GL context or GL function loader
// cannot be set up.
var ErrInit = errors.New("graphics init failed")

// InitError wraps a failed setup step in ErrInit. The SDL or GL cause is
// kept in the message only.
func InitError(step string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrInit, step, err)
}
