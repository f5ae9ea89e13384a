package hal

import (
	"fmt"
	"image/color"
	"sync"

	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"
)

// Character grid geometry for a 128x64 panel.
const (
	GridRows = 8
	GridCols = 21

	cellWidth   = 6
	cellHeight  = 8
	glyphOffset = 6
	markWidth   = 2
)

var (
	gridFG = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	gridBG = color.RGBA{A: 255}
)

// GridDisplay is a CharDisplay drawn with a fixed-pitch font on a Canvas.
// Rows are 8 pixels tall; the selection mark is a bar in the spare columns
// at the right edge of the panel.
type GridDisplay struct {
	mu     sync.Mutex
	canvas Canvas
	font   tinyfont.Fonter
	cells  [GridRows][GridCols]byte
	marks  [GridRows]bool
	dirty  [GridRows]bool
}

// NewGridDisplay returns a blank grid drawing on c.
func NewGridDisplay(c Canvas) *GridDisplay {
	g := &GridDisplay{canvas: c, font: &proggy.TinySZ8pt7b}
	for r := range g.cells {
		for col := range g.cells[r] {
			g.cells[r][col] = ' '
		}
		g.dirty[r] = true
	}
	return g
}

func (g *GridDisplay) Size() (rows, cols int) { return GridRows, GridCols }
func (g *GridDisplay) Canvas() Canvas         { return g.canvas }

func (g *GridDisplay) WriteString(row, col int, text string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if row < 0 || row >= GridRows {
		return fmt.Errorf("display: row %d out of range", row)
	}
	if col < 0 || col+len(text) > GridCols {
		return fmt.Errorf("display: row %d: %d bytes at column %d exceed %d columns", row, len(text), col, GridCols)
	}
	for i := 0; i < len(text); i++ {
		g.cells[row][col+i] = text[i]
	}
	g.dirty[row] = true
	return nil
}

// Clear fills every cell with value and drops all marks.
func (g *GridDisplay) Clear(value byte) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	for r := range g.cells {
		for c := range g.cells[r] {
			g.cells[r][c] = value
		}
		g.marks[r] = false
		g.dirty[r] = true
	}
	return nil
}

func (g *GridDisplay) MarkRow(row int, on bool) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if row < 0 || row >= GridRows {
		return fmt.Errorf("display: row %d out of range", row)
	}
	if g.marks[row] != on {
		g.marks[row] = on
		g.dirty[row] = true
	}
	return nil
}

// Present redraws changed rows and flushes the canvas.
func (g *GridDisplay) Present() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.canvas == nil {
		return ErrNotConfigured
	}
	w, _ := g.canvas.Size()
	for r := 0; r < GridRows; r++ {
		if !g.dirty[r] {
			continue
		}
		y := int16(r * cellHeight)
		if err := g.canvas.FillRectangle(0, y, w, cellHeight, gridBG); err != nil {
			return err
		}
		for c := 0; c < GridCols; c++ {
			ch := g.cells[r][c]
			if ch == ' ' || ch == 0 {
				continue
			}
			tinyfont.DrawChar(g.canvas, g.font, int16(c*cellWidth), y+glyphOffset, rune(ch), gridFG)
		}
		if g.marks[r] {
			if err := g.canvas.FillRectangle(w-markWidth, y, markWidth, cellHeight, gridFG); err != nil {
				return err
			}
		}
		g.dirty[r] = false
	}
	return g.canvas.Display()
}

// Lines returns the current text of every row.
func (g *GridDisplay) Lines() []string {
	g.mu.Lock()
	defer g.mu.Unlock()

	out := make([]string, GridRows)
	for r := range g.cells {
		out[r] = string(g.cells[r][:])
	}
	return out
}

// Marked reports whether row carries the selection mark.
func (g *GridDisplay) Marked(row int) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if row < 0 || row >= GridRows {
		return false
	}
	return g.marks[row]
}
