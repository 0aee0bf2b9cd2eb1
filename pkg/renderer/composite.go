package renderer

import (
	"fmt"
	"strings"
)

// CompositeMode decides how the results of testing one ray against every
// shape become a pixel
type CompositeMode int

const (
	// CompositeNearest keeps the closest hit in front of the camera
	CompositeNearest CompositeMode = iota
	// CompositeAnyHit marks the pixel when any shape's line intersection
	// succeeds, including hits behind the camera
	CompositeAnyHit
	// CompositeLastObject lets the last shape in scene order decide alone
	CompositeLastObject
)

var compositeModeNames = map[CompositeMode]string{
	CompositeNearest:    "nearest",
	CompositeAnyHit:     "any",
	CompositeLastObject: "last",
}

func (m CompositeMode) String() string {
	if name, ok := compositeModeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("CompositeMode(%d)", int(m))
}

// CompositeModes returns every mode in declaration order
func CompositeModes() []CompositeMode {
	return []CompositeMode{CompositeNearest, CompositeAnyHit, CompositeLastObject}
}

// Next returns the mode after m in declaration order, wrapping around
func (m CompositeMode) Next() CompositeMode {
	modes := CompositeModes()
	for i, mode := range modes {
		if mode == m {
			return modes[(i+1)%len(modes)]
		}
	}
	return modes[0]
}

// ParseCompositeMode parses a mode name as produced by String
func ParseCompositeMode(s string) (CompositeMode, error) {
	for _, m := range CompositeModes() {
		if strings.EqualFold(s, m.String()) {
			return m, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown composite mode %q", ErrConfiguration, s)
}

// MarshalText encodes the mode by name
func (m CompositeMode) MarshalText() ([]byte, error) {
	if _, ok := compositeModeNames[m]; !ok {
		return nil, fmt.Errorf("%w: unknown composite mode %d", ErrConfiguration, int(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText decodes a mode name
func (m *CompositeMode) UnmarshalText(text []byte) error {
	mode, err := ParseCompositeMode(string(text))
	if err != nil {
		return err
	}
	*m = mode
	return nil
}
