// Package menu is the catalog navigation state machine. Each tick it takes
// one sensor sample, updates the active screen and renders it.
package menu

import (
	"fmt"
	"log/slog"
	"strings"

	"starterkit/firmware/screen"
	"starterkit/firmware/sensor"
)

const tickLogEvery = 1000

// state is one entry of the navigation stack. A detail state shows the
// action view for item of its screen.
type state struct {
	screen *Screen
	sel    Selection
	detail bool
	item   int
}

func (st *state) uses() sensor.Sensor {
	if st.detail {
		return sensor.SensorTouch
	}
	return st.screen.Uses()
}

// Machine owns the navigation stack. Only the top entry is active.
type Machine struct {
	stack   []*state
	r       *screen.Renderer
	log     *slog.Logger
	faulted sensor.Sensor
	ticks   uint64
	shown   screen.Frame
}

// New validates the menu tree and starts at root.
func New(root *Screen, r *screen.Renderer, log *slog.Logger) (*Machine, error) {
	if root == nil {
		return nil, fmt.Errorf("menu: no root screen")
	}
	if err := root.Validate(); err != nil {
		return nil, err
	}
	if r == nil {
		return nil, fmt.Errorf("menu: no renderer")
	}
	if log == nil {
		log = slog.Default()
	}
	return &Machine{
		stack: []*state{{screen: root, sel: NewSelection(len(root.Items))}},
		r:     r,
		log:   log.With("component", "menu"),
	}, nil
}

func (m *Machine) top() *state { return m.stack[len(m.stack)-1] }

// Screen returns the active screen.
func (m *Machine) Screen() *Screen { return m.top().screen }

// Selected returns the active selection index.
func (m *Machine) Selected() int { return m.top().sel.Index() }

// InDetail reports whether the action detail view is showing.
func (m *Machine) InDetail() bool { return m.top().detail }

// Depth is the stack depth; 1 at the root.
func (m *Machine) Depth() int { return len(m.stack) }

// Step runs one tick: fault check, back, select and navigate, render.
func (m *Machine) Step(s sensor.Sample) error {
	m.ticks++
	if m.ticks%tickLogEvery == 0 {
		m.log.Debug("tick", "n", m.ticks, "screen", m.Screen().Name, "depth", m.Depth())
	}

	st := m.top()
	if err := s.Err(st.uses()); err != nil {
		if faulted := s.Faulted() & st.uses(); faulted != m.faulted {
			m.log.Warn("sensor unavailable", "screen", st.screen.Name, "sensors", faulted.String(), "err", err)
			m.faulted = faulted
		}
		return m.renderFault(st, err)
	}
	if m.faulted != 0 {
		m.log.Info("sensor recovered", "sensors", m.faulted.String())
		m.faulted = 0
	}

	if st.detail {
		if s.Gesture == sensor.GestureLeftTap {
			m.pop()
		}
		return m.render()
	}

	if len(m.stack) > 1 && st.screen.Back.fired(s) {
		m.pop()
		return m.render()
	}

	// Dial and tilt screens track the current position before a select so
	// the press picks what is under it this tick.
	absolute := st.screen.Nav.absolute()
	if absolute {
		navigate(st, s)
	}
	if st.screen.Select.fired(s) {
		m.enter(st, s)
		return m.render()
	}
	if !absolute {
		navigate(st, s)
	}
	return m.render()
}

func navigate(st *state, s sensor.Sample) {
	switch st.screen.Nav {
	case NavDial:
		if s.Fault(sensor.SensorDial) == nil {
			st.sel.Set(st.screen.Bands.Index(s.Dial) - 1)
		}
	case NavTilt:
		if s.Fault(sensor.SensorTilt) == nil {
			st.sel.Set(s.TiltBand - 1)
		}
	case NavScroll:
		switch s.Gesture {
		case sensor.GestureScrollDown:
			st.sel.Move(1)
		case sensor.GestureScrollUp:
			st.sel.Move(-1)
		}
	case NavTaps:
		switch s.Gesture {
		case sensor.GestureRightTap:
			st.sel.Move(1)
		case sensor.GestureLeftTap:
			st.sel.Move(-1)
		}
	}
}

func (m *Machine) enter(from *state, s sensor.Sample) {
	idx := from.sel.Index()
	m.log.Info("select", "screen", from.screen.Name, "item", idx+1, "label", from.screen.Items[idx])

	child := from.screen.Children[idx]
	if child == nil {
		m.stack = append(m.stack, &state{screen: from.screen, detail: true, item: idx})
		m.log.Info("enter", "screen", from.screen.Name, "action", idx+1)
		return
	}

	next := &state{screen: child, sel: NewSelection(len(child.Items))}
	if child.Nav.absolute() {
		navigate(next, s)
	}
	m.stack = append(m.stack, next)
	m.log.Info("enter", "screen", child.Name)
}

func (m *Machine) pop() {
	left := m.top()
	m.stack = m.stack[:len(m.stack)-1]
	back := m.top()
	m.log.Info("back", "from", left.screen.Name, "to", back.screen.Name, "item", back.sel.Index()+1)
}

// flush presents the frame and logs it when it changed.
func (m *Machine) flush() error {
	if err := m.r.Flush(); err != nil {
		return err
	}
	if f := m.r.Frame(); f != m.shown {
		m.shown = f
		m.log.Debug("frame", "screen", m.Screen().Name, "text", f.String())
	}
	return nil
}

// window returns the first item shown for selection idx of n items.
func window(idx, n int) int {
	if n <= PageSize {
		return 0
	}
	start := (idx / PageSize) * PageSize
	if start > n-PageSize {
		start = n - PageSize
	}
	return start
}

func (m *Machine) render() error {
	st := m.top()
	rows := make([]string, 0, screen.Rows)
	rows = append(rows, st.screen.Title, "")

	if st.detail {
		rows = append(rows,
			"",
			"",
			fmt.Sprintf("Action %2d was pressed", st.item+1),
			"      press left",
			"      to go back",
		)
		if err := m.r.RenderRows(rows); err != nil {
			return err
		}
		if err := m.r.HighlightBand(0, 0); err != nil {
			return err
		}
		return m.flush()
	}

	idx, n := st.sel.Index(), len(st.screen.Items)
	start := window(idx, n)
	end := start + PageSize
	if end > n {
		end = n
	}
	rows = append(rows, st.screen.Items[start:end]...)
	if err := m.r.RenderRows(rows); err != nil {
		return err
	}
	first := 2 + idx - start
	if err := m.r.HighlightBand(first, first+1); err != nil {
		return err
	}
	return m.flush()
}

func (m *Machine) renderFault(st *state, err error) error {
	reason, _, _ := strings.Cut(err.Error(), "\n")
	if len(reason) > screen.Cols {
		reason = reason[:screen.Cols]
	}
	rows := []string{
		st.screen.Title,
		"",
		"sensor unavailable",
		reason,
		"",
		"retrying...",
	}
	if rerr := m.r.RenderRows(rows); rerr != nil {
		return rerr
	}
	if rerr := m.r.HighlightBand(0, 0); rerr != nil {
		return rerr
	}
	return m.flush()
}
