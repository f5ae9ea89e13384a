// Package screen renders whole frames of fixed-width text onto the HAL
// character display.
package screen

import (
	"errors"
	"fmt"
	"strings"

	"starterkit/hal"
)

const (
	Rows = hal.GridRows
	Cols = hal.GridCols
)

// ErrRowTooWide is returned for a row longer than Cols.
var ErrRowTooWide = errors.New("screen: row too wide")

// Frame is the content of one tick: text rows plus the highlighted band
// [First, Last).
type Frame struct {
	Rows  [Rows]string
	First int
	Last  int
}

// Highlighted reports whether row lies in the band.
func (f Frame) Highlighted(row int) bool { return row >= f.First && row < f.Last }

// String renders the frame as text, marking highlighted rows with '#'.
func (f Frame) String() string {
	var sb strings.Builder
	for i, r := range f.Rows {
		mark := ' '
		if f.Highlighted(i) {
			mark = '#'
		}
		fmt.Fprintf(&sb, "|%s|%c\n", r, mark)
	}
	return sb.String()
}

// Pad left-aligns s in a Cols wide field, truncating if needed.
func Pad(s string) string {
	if len(s) >= Cols {
		return s[:Cols]
	}
	return s + strings.Repeat(" ", Cols-len(s))
}

// Renderer builds a frame and pushes it to the display on Flush.
type Renderer struct {
	disp  hal.CharDisplay
	frame Frame
}

// NewRenderer blanks disp and returns a renderer drawing on it.
func NewRenderer(disp hal.CharDisplay) (*Renderer, error) {
	if disp == nil {
		return nil, fmt.Errorf("screen: %w: no display", hal.ErrNotConfigured)
	}
	if rows, cols := disp.Size(); rows < Rows || cols < Cols {
		return nil, fmt.Errorf("screen: display is %dx%d, need %dx%d", rows, cols, Rows, Cols)
	}
	if err := disp.Clear(' '); err != nil {
		return nil, fmt.Errorf("screen: clear: %w", err)
	}
	r := &Renderer{disp: disp}
	for i := range r.frame.Rows {
		r.frame.Rows[i] = Pad("")
	}
	return r, nil
}

// RenderRows replaces the text of the frame. Missing rows are blanked.
func (r *Renderer) RenderRows(rows []string) error {
	if len(rows) > Rows {
		return fmt.Errorf("screen: %d rows, display has %d", len(rows), Rows)
	}
	for i, row := range rows {
		if len(row) > Cols {
			return fmt.Errorf("%w: row %d is %d columns", ErrRowTooWide, i, len(row))
		}
	}
	for i := range r.frame.Rows {
		if i < len(rows) {
			r.frame.Rows[i] = Pad(rows[i])
		} else {
			r.frame.Rows[i] = Pad("")
		}
	}
	return nil
}

// HighlightBand marks rows [first, last); an empty band clears the mark.
func (r *Renderer) HighlightBand(first, last int) error {
	if first < 0 || last > Rows || first > last {
		return fmt.Errorf("screen: invalid band [%d, %d)", first, last)
	}
	r.frame.First, r.frame.Last = first, last
	return nil
}

// Flush writes the frame to the display and presents it.
func (r *Renderer) Flush() error {
	for i, row := range r.frame.Rows {
		if err := r.disp.WriteString(i, 0, row); err != nil {
			return err
		}
		if err := r.disp.MarkRow(i, r.frame.Highlighted(i)); err != nil {
			return err
		}
	}
	return r.disp.Present()
}

// Frame returns the last rendered frame.
func (r *Renderer) Frame() Frame { return r.frame }
