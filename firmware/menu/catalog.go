package menu

import (
	"fmt"

	"starterkit/firmware/screen"
	"starterkit/firmware/sensor"
)

// PageSize is the number of item rows below the title.
const PageSize = 6

// Nav is how a screen moves its selection.
type Nav uint8

const (
	NavNone Nav = iota
	// NavDial sets the selection from the dial band.
	NavDial
	// NavTilt sets the selection from the tilt band.
	NavTilt
	// NavScroll steps with scroll-down (+1) and scroll-up (-1).
	NavScroll
	// NavTaps steps with right tap (+1) and left tap (-1).
	NavTaps
)

// absolute reports whether the selection is derived from a sensor position
// rather than stepped.
func (n Nav) absolute() bool { return n == NavDial || n == NavTilt }

// Trigger is an input event that selects or goes back.
type Trigger uint8

const (
	TriggerNone Trigger = iota
	TriggerButton
	TriggerLeftTap
	TriggerRightTap
	TriggerScrollUp
	TriggerUpsideDown
)

func (t Trigger) fired(s sensor.Sample) bool {
	switch t {
	case TriggerButton:
		return s.Pressed
	case TriggerLeftTap:
		return s.Gesture == sensor.GestureLeftTap
	case TriggerRightTap:
		return s.Gesture == sensor.GestureRightTap
	case TriggerScrollUp:
		return s.Gesture == sensor.GestureScrollUp
	case TriggerUpsideDown:
		return s.Orientation == sensor.OrientationUpsideDown
	}
	return false
}

func (t Trigger) uses() sensor.Sensor {
	switch t {
	case TriggerButton:
		return sensor.SensorButton
	case TriggerLeftTap, TriggerRightTap, TriggerScrollUp:
		return sensor.SensorTouch
	case TriggerUpsideDown:
		return sensor.SensorTilt
	}
	return 0
}

// Screen is one paged menu. Selecting item i enters Children[i], or the
// action detail view when there is none.
type Screen struct {
	Name     string
	Title    string
	Items    []string
	Nav      Nav
	Bands    sensor.Bands
	Select   Trigger
	Back     Trigger
	Children map[int]*Screen
}

// Uses is the set of sensors the screen reads.
func (s *Screen) Uses() sensor.Sensor {
	u := s.Select.uses() | s.Back.uses()
	switch s.Nav {
	case NavDial:
		u |= sensor.SensorDial
	case NavTilt:
		u |= sensor.SensorTilt
	case NavScroll, NavTaps:
		u |= sensor.SensorTouch
	}
	return u
}

// Validate checks s and every screen below it.
func (s *Screen) Validate() error {
	if len(s.Items) == 0 {
		return fmt.Errorf("menu %s: no items", s.Name)
	}
	if len(s.Title) > screen.Cols {
		return fmt.Errorf("menu %s: title: %w", s.Name, screen.ErrRowTooWide)
	}
	for i, item := range s.Items {
		if len(item) > screen.Cols {
			return fmt.Errorf("menu %s: item %d: %w", s.Name, i, screen.ErrRowTooWide)
		}
	}
	if s.Nav == NavDial {
		if err := s.Bands.Validate(); err != nil {
			return fmt.Errorf("menu %s: %w", s.Name, err)
		}
		if s.Bands.Len() != len(s.Items) {
			return fmt.Errorf("menu %s: %d dial bands for %d items", s.Name, s.Bands.Len(), len(s.Items))
		}
	}
	if s.Nav == NavTilt && len(s.Items) > 4 {
		return fmt.Errorf("menu %s: tilt navigation covers 4 items, have %d", s.Name, len(s.Items))
	}
	for i, c := range s.Children {
		if i < 0 || i >= len(s.Items) {
			return fmt.Errorf("menu %s: child for missing item %d", s.Name, i)
		}
		if err := c.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func numbered(names ...string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = fmt.Sprintf("%d - %s", i+1, n)
	}
	return out
}

func electronicsItems(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("%d.Electronics Item%d", i+1, i+1)
	}
	return out
}

// Catalog returns the store menu tree rooted at the welcome screen.
func Catalog(mainBands, menBands sensor.Bands) *Screen {
	men := &Screen{
		Name:   "men",
		Title:  "Men",
		Items:  numbered("Casual", "Shoes", "Pants", "T-Shirts", "Jackets", "Accessories"),
		Nav:    NavDial,
		Bands:  menBands,
		Select: TriggerButton,
		Back:   TriggerScrollUp,
	}
	homeKitchen := &Screen{
		Name:   "homekitchen",
		Title:  "Home&Kitchen",
		Items:  numbered("Furnitures", "Kitchen Tools", "Garden", "Other"),
		Nav:    NavTilt,
		Select: TriggerRightTap,
		Back:   TriggerScrollUp,
	}
	electronics := &Screen{
		Name:   "electronics",
		Title:  "Electronics",
		Items:  electronicsItems(16),
		Nav:    NavScroll,
		Select: TriggerButton,
		Back:   TriggerUpsideDown,
	}
	books := &Screen{
		Name:   "books",
		Title:  "Books",
		Items:  numbered("Romans", "Action", "Kids", "Cooking"),
		Nav:    NavTaps,
		Select: TriggerButton,
		Back:   TriggerScrollUp,
	}
	clothes := &Screen{
		Name:     "clothes",
		Title:    "Clothes",
		Items:    numbered("Men", "Women", "TRF", "Kids"),
		Nav:      NavTaps,
		Select:   TriggerButton,
		Back:     TriggerScrollUp,
		Children: map[int]*Screen{0: men},
	}
	return &Screen{
		Name:   "main",
		Title:  "Welcome To Amazon",
		Items:  numbered("Home&Kitchen", "Electronics", "Books", "Clothes"),
		Nav:    NavDial,
		Bands:  mainBands,
		Select: TriggerButton,
		Children: map[int]*Screen{
			0: homeKitchen,
			1: electronics,
			2: books,
			3: clothes,
		},
	}
}
