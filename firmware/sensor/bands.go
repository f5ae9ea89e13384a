package sensor

import (
	"errors"
	"fmt"
)

// Bands partitions the 10-bit dial range. Each entry is the exclusive lower
// bound of its band, strictly descending, and the table ends with 0. Band
// numbers are 1-based: a value above Bands[0] is band 1.
type Bands []uint16

var (
	// MainBands splits the dial into four equal bands.
	MainBands = Bands{750, 500, 250, 0}
	// MenBands splits the dial into six uneven bands.
	MenBands = Bands{750, 600, 450, 300, 150, 0}
)

// Validate reports a malformed table.
func (b Bands) Validate() error {
	if len(b) == 0 {
		return errors.New("bands: empty table")
	}
	for i := 1; i < len(b); i++ {
		if b[i] >= b[i-1] {
			return fmt.Errorf("bands: bound %d (%d) not below bound %d (%d)", i, b[i], i-1, b[i-1])
		}
	}
	if b[len(b)-1] != 0 {
		return fmt.Errorf("bands: last bound is %d, want 0", b[len(b)-1])
	}
	return nil
}

// Len is the number of bands.
func (b Bands) Len() int { return len(b) }

// Index maps v to its 1-based band. Values at or below the last bound fall
// into the last band, so every input has exactly one band.
func (b Bands) Index(v uint16) int {
	for i, lo := range b {
		if v > lo {
			return i + 1
		}
	}
	return len(b)
}
