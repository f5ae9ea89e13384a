package menu

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"starterkit/firmware/screen"
	"starterkit/firmware/sensor"
	"starterkit/hal"
)

type fakeDisplay struct {
	rows  [screen.Rows]string
	marks [screen.Rows]bool
}

func (d *fakeDisplay) Size() (int, int)   { return screen.Rows, screen.Cols }
func (d *fakeDisplay) Clear(byte) error   { return nil }
func (d *fakeDisplay) Present() error     { return nil }
func (d *fakeDisplay) Canvas() hal.Canvas { return nil }

func (d *fakeDisplay) WriteString(row, col int, text string) error {
	d.rows[row] = text
	return nil
}

func (d *fakeDisplay) MarkRow(row int, on bool) error {
	d.marks[row] = on
	return nil
}

func (d *fakeDisplay) marked() []int {
	var out []int
	for i, on := range d.marks {
		if on {
			out = append(out, i)
		}
	}
	return out
}

type harness struct {
	t    *testing.T
	m    *Machine
	disp *fakeDisplay
	logs *bytes.Buffer
	// base is the resting sample; tick overrides fields from it.
	base sensor.Sample
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	disp := &fakeDisplay{}
	r, err := screen.NewRenderer(disp)
	require.NoError(t, err)

	logs := &bytes.Buffer{}
	log := slog.New(slog.NewTextHandler(logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	m, err := New(Catalog(sensor.MainBands, sensor.MenBands), r, log)
	require.NoError(t, err)

	return &harness{t: t, m: m, disp: disp, logs: logs, base: sensor.Sample{Dial: 900, TiltBand: 1}}
}

func (h *harness) tick(mod func(*sensor.Sample)) {
	h.t.Helper()
	s := h.base
	if mod != nil {
		mod(&s)
	}
	require.NoError(h.t, h.m.Step(s))
}

func (h *harness) press()                   { h.tick(func(s *sensor.Sample) { s.Pressed = true }) }
func (h *harness) gesture(g sensor.Gesture) { h.tick(func(s *sensor.Sample) { s.Gesture = g }) }

func (h *harness) row(i int) string { return strings.TrimRight(h.disp.rows[i], " ") }

// enterMain selects main item (1-based) by dial and button.
func (h *harness) enterMain(item int) {
	h.t.Helper()
	dial := map[int]uint16{1: 900, 2: 600, 3: 300, 4: 100}[item]
	h.base.Dial = dial
	h.tick(nil)
	h.press()
	require.Equal(h.t, 2, h.m.Depth())
}

func TestMainRendersAndFollowsDial(t *testing.T) {
	h := newHarness(t)
	h.tick(nil)

	assert.Equal(t, "Welcome To Amazon", h.row(0))
	assert.Equal(t, "", h.row(1))
	assert.Equal(t, "1 - Home&Kitchen", h.row(2))
	assert.Equal(t, "4 - Clothes", h.row(5))
	assert.Equal(t, 0, h.m.Selected(), "dial 900 is band 1")
	assert.Equal(t, []int{2}, h.disp.marked())

	h.base.Dial = 300
	h.tick(nil)
	assert.Equal(t, 2, h.m.Selected())
	assert.Equal(t, []int{4}, h.disp.marked())
}

func TestPressSelectsCurrentDialBand(t *testing.T) {
	h := newHarness(t)
	h.tick(nil)
	require.Equal(t, 0, h.m.Selected())

	h.tick(func(s *sensor.Sample) {
		s.Dial = 300
		s.Pressed = true
	})
	assert.Equal(t, "books", h.m.Screen().Name)
}

func TestMenPressSelectsCurrentDialBand(t *testing.T) {
	h := newHarness(t)
	h.enterMain(4)
	h.base.Dial = 1000
	h.press()
	require.Equal(t, "men", h.m.Screen().Name)
	require.Equal(t, 0, h.m.Selected())

	h.tick(func(s *sensor.Sample) {
		s.Dial = 200
		s.Pressed = true
	})
	require.True(t, h.m.InDetail())
	assert.Equal(t, "Action  5 was pressed", h.row(4))
}

func TestFrameLoggedOnChange(t *testing.T) {
	h := newHarness(t)
	h.tick(nil)
	h.tick(nil)
	assert.Equal(t, 1, strings.Count(h.logs.String(), "msg=frame"))

	h.base.Dial = 300
	h.tick(nil)
	assert.Equal(t, 2, strings.Count(h.logs.String(), "msg=frame"))
}

func TestMainSelectEntersSubmenus(t *testing.T) {
	names := []string{"homekitchen", "electronics", "books", "clothes"}
	titles := []string{"Home&Kitchen", "Electronics", "Books", "Clothes"}
	for i := range names {
		h := newHarness(t)
		h.enterMain(i + 1)
		assert.Equal(t, names[i], h.m.Screen().Name)
		assert.Equal(t, titles[i], h.row(0))
	}
}

func TestElectronicsScrollClamps(t *testing.T) {
	h := newHarness(t)
	h.enterMain(2)

	for i := 0; i < 16; i++ {
		h.gesture(sensor.GestureScrollDown)
	}
	assert.Equal(t, 15, h.m.Selected())
	assert.Equal(t, "11.Electronics Item11", h.row(2))
	assert.Equal(t, "16.Electronics Item16", h.row(7))
	assert.Equal(t, []int{7}, h.disp.marked())

	for i := 0; i < 20; i++ {
		h.gesture(sensor.GestureScrollUp)
	}
	assert.Equal(t, 0, h.m.Selected())
	assert.Equal(t, "1.Electronics Item1", h.row(2))
}

func TestElectronicsPaging(t *testing.T) {
	h := newHarness(t)
	h.enterMain(2)

	for i := 0; i < 6; i++ {
		h.gesture(sensor.GestureScrollDown)
	}
	assert.Equal(t, 6, h.m.Selected())
	assert.Equal(t, "7.Electronics Item7", h.row(2))
	assert.Equal(t, "12.Electronics Item12", h.row(7))
	assert.Equal(t, []int{2}, h.disp.marked())

	for i := 0; i < 6; i++ {
		h.gesture(sensor.GestureScrollDown)
	}
	assert.Equal(t, 12, h.m.Selected())
	assert.Equal(t, "11.Electronics Item11", h.row(2))
	assert.Equal(t, []int{4}, h.disp.marked(), "item 13 sits on row 4 of the anchored last page")
}

func TestElectronicsBackOnUpsideDown(t *testing.T) {
	h := newHarness(t)
	h.enterMain(2)

	h.tick(func(s *sensor.Sample) { s.Orientation = sensor.OrientationUpsideDown })
	assert.Equal(t, "main", h.m.Screen().Name)
	assert.Equal(t, 1, h.m.Depth())
}

func TestBooksTapsClampAtZero(t *testing.T) {
	h := newHarness(t)
	h.enterMain(3)

	h.gesture(sensor.GestureLeftTap)
	assert.Equal(t, 0, h.m.Selected())

	for i := 0; i < 6; i++ {
		h.gesture(sensor.GestureRightTap)
	}
	assert.Equal(t, 3, h.m.Selected())
	assert.Equal(t, []int{5}, h.disp.marked())

	h.gesture(sensor.GestureScrollUp)
	assert.Equal(t, "main", h.m.Screen().Name)
}

func TestActionDetailRoundTrip(t *testing.T) {
	h := newHarness(t)
	h.enterMain(3)
	h.gesture(sensor.GestureRightTap)
	h.gesture(sensor.GestureRightTap)
	require.Equal(t, 2, h.m.Selected())

	h.press()
	require.True(t, h.m.InDetail())
	assert.Equal(t, "Books", h.row(0))
	assert.Equal(t, "Action  3 was pressed", h.row(4))
	assert.Equal(t, "      press left", h.row(5))
	assert.Equal(t, "      to go back", h.row(6))
	assert.Empty(t, h.disp.marked())

	// Other inputs do nothing in the detail view.
	h.press()
	h.gesture(sensor.GestureRightTap)
	require.True(t, h.m.InDetail())

	h.gesture(sensor.GestureLeftTap)
	assert.False(t, h.m.InDetail())
	assert.Equal(t, "books", h.m.Screen().Name)
	assert.Equal(t, 2, h.m.Selected(), "selection survives the detail view")
}

func TestHomeKitchenOpensOnTiltBand(t *testing.T) {
	h := newHarness(t)
	h.base.TiltBand = 3
	h.enterMain(1)

	assert.Equal(t, 2, h.m.Selected())
	assert.Equal(t, []int{4}, h.disp.marked())

	h.base.TiltBand = 4
	h.tick(nil)
	assert.Equal(t, 3, h.m.Selected())

	h.gesture(sensor.GestureRightTap)
	require.True(t, h.m.InDetail())
	assert.Equal(t, "Action  4 was pressed", h.row(4))

	h.gesture(sensor.GestureLeftTap)
	h.gesture(sensor.GestureScrollUp)
	assert.Equal(t, "main", h.m.Screen().Name)
}

func TestClothesMenAndBack(t *testing.T) {
	h := newHarness(t)
	h.enterMain(4)

	h.base.Dial = 200
	h.press()
	require.Equal(t, "men", h.m.Screen().Name)
	assert.Equal(t, 4, h.m.Selected(), "dial 200 is the fifth Men band")
	assert.Equal(t, "6 - Accessories", h.row(7))

	h.base.Dial = 1000
	h.tick(nil)
	assert.Equal(t, 0, h.m.Selected())

	h.gesture(sensor.GestureScrollUp)
	assert.Equal(t, "clothes", h.m.Screen().Name)
	h.gesture(sensor.GestureScrollUp)
	assert.Equal(t, "main", h.m.Screen().Name)
}

func TestClothesOtherItemsShowAction(t *testing.T) {
	h := newHarness(t)
	h.enterMain(4)
	h.gesture(sensor.GestureRightTap)
	h.press()
	require.True(t, h.m.InDetail())
	assert.Equal(t, "Clothes", h.row(0))
	assert.Equal(t, "Action  2 was pressed", h.row(4))
}

func TestFaultRendersUnavailableAndKeepsState(t *testing.T) {
	h := newHarness(t)
	h.enterMain(2)
	h.gesture(sensor.GestureScrollDown)
	require.Equal(t, 1, h.m.Selected())

	touchFault := &sensor.Fault{Sensor: sensor.SensorTouch, Err: sensor.ErrSensorFault}
	for i := 0; i < 3; i++ {
		h.tick(func(s *sensor.Sample) {
			s.SetFault(sensor.SensorTouch, touchFault)
			s.Gesture = sensor.GestureScrollDown
		})
	}
	assert.Equal(t, "Electronics", h.row(0))
	assert.Equal(t, "sensor unavailable", h.row(2))
	assert.Equal(t, "touch: sensor fault", h.row(3))
	assert.Equal(t, 1, h.m.Selected())
	assert.Equal(t, 1, strings.Count(h.logs.String(), "sensor unavailable"), "one warning per episode")

	h.tick(nil)
	assert.Equal(t, "2.Electronics Item2", h.row(3))
	assert.Contains(t, h.logs.String(), "sensor recovered")
}

func TestUnusedSensorFaultDoesNotBlock(t *testing.T) {
	h := newHarness(t)
	h.base.SetFault(sensor.SensorTouch, &sensor.Fault{Sensor: sensor.SensorTouch, Err: sensor.ErrSensorFault})
	h.base.SetFault(sensor.SensorTilt, &sensor.Fault{Sensor: sensor.SensorTilt, Err: sensor.ErrTimeoutFault})

	h.base.Dial = 600
	h.tick(nil)
	assert.Equal(t, "Welcome To Amazon", h.row(0))
	assert.Equal(t, 1, h.m.Selected())
}

func TestValidateRejectsBadTrees(t *testing.T) {
	good := Catalog(sensor.MainBands, sensor.MenBands)
	require.NoError(t, good.Validate())

	bad := Catalog(sensor.Bands{500, 0}, sensor.MenBands)
	assert.Error(t, bad.Validate(), "band count must match items")

	wide := &Screen{Name: "wide", Title: "t", Items: []string{strings.Repeat("x", screen.Cols+1)}}
	assert.True(t, errors.Is(wide.Validate(), screen.ErrRowTooWide))

	orphan := &Screen{Name: "o", Items: []string{"a"}, Children: map[int]*Screen{3: wide}}
	assert.Error(t, orphan.Validate())
}

func TestWindow(t *testing.T) {
	assert.Equal(t, 0, window(3, 4))
	assert.Equal(t, 0, window(5, 16))
	assert.Equal(t, 6, window(6, 16))
	assert.Equal(t, 6, window(11, 16))
	assert.Equal(t, 10, window(12, 16))
	assert.Equal(t, 10, window(15, 16))
}

func TestSelectionClamp(t *testing.T) {
	s := NewSelection(4)
	s.Move(-1)
	assert.Equal(t, 0, s.Index())
	s.Set(10)
	assert.Equal(t, 3, s.Index())

	empty := NewSelection(0)
	empty.Move(1)
	assert.Equal(t, 0, empty.Index())
}
