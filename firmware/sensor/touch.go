package sensor

import (
	"starterkit/hal"
)

// Gesture is the classified touch input of one tick.
type Gesture uint8

const (
	GestureNone Gesture = iota
	GestureScrollDown
	GestureScrollUp
	GestureLeftTap
	GestureRightTap
)

func (g Gesture) String() string {
	switch g {
	case GestureScrollDown:
		return "scroll-down"
	case GestureScrollUp:
		return "scroll-up"
	case GestureLeftTap:
		return "left-tap"
	case GestureRightTap:
		return "right-tap"
	}
	return "none"
}

// PadThreshold classifies one pad level. A rising pad is touched above Touch
// and released below Release; a falling pad is touched at or below Touch and
// released above Release. Levels in between are the dead band, which
// Touchpad treats as "no change" rather than a release.
type PadThreshold struct {
	Touch   uint16
	Release uint16
	Rising  bool
}

type padState uint8

const (
	padReleased padState = iota
	padTouched
	padDead
)

func (p PadThreshold) classify(level uint16) padState {
	if p.Rising {
		switch {
		case level > p.Touch:
			return padTouched
		case level < p.Release:
			return padReleased
		}
		return padDead
	}
	switch {
	case level <= p.Touch:
		return padTouched
	case level > p.Release:
		return padReleased
	}
	return padDead
}

// Thresholds holds one PadThreshold per pad channel.
type Thresholds struct {
	Right      PadThreshold
	ScrollUp   PadThreshold
	ScrollDown PadThreshold
	Left       PadThreshold
}

// DefaultThresholds matches the board's pad calibration.
var DefaultThresholds = Thresholds{
	Right:      PadThreshold{Touch: 800, Release: 800},
	ScrollUp:   PadThreshold{Touch: 965, Release: 960, Rising: true},
	ScrollDown: PadThreshold{Touch: 980, Release: 975, Rising: true},
	Left:       PadThreshold{Touch: 800, Release: 800},
}

// Classify maps raw levels, indexed by hal.Touch* channel, to a gesture.
// Any pad in its dead band yields GestureNone. Otherwise the first touched
// pad in the order scroll-down, scroll-up, left, right wins.
func Classify(levels [hal.TouchChannels]uint16, th Thresholds) Gesture {
	g, _ := classifyLevels(levels, th)
	return g
}

// classifyLevels is Classify that also reports whether a pad sat in its dead band.
func classifyLevels(levels [hal.TouchChannels]uint16, th Thresholds) (Gesture, bool) {
	order := [...]struct {
		ch int
		th PadThreshold
		g  Gesture
	}{
		{hal.TouchScrollDown, th.ScrollDown, GestureScrollDown},
		{hal.TouchScrollUp, th.ScrollUp, GestureScrollUp},
		{hal.TouchLeft, th.Left, GestureLeftTap},
		{hal.TouchRight, th.Right, GestureRightTap},
	}

	g := GestureNone
	for _, o := range order {
		switch o.th.classify(levels[o.ch]) {
		case padDead:
			return GestureNone, true
		case padTouched:
			if g == GestureNone {
				g = o.g
			}
		}
	}
	return g, false
}

// Touchpad reads the four pads and reports gestures. Unless Repeat is set a
// gesture is reported only on the tick it begins.
type Touchpad struct {
	dev        hal.Touch
	th         Thresholds
	Repeat     bool
	last       Gesture
	calibrated bool
}

func NewTouchpad(dev hal.Touch, th Thresholds) *Touchpad {
	return &Touchpad{dev: dev, th: th}
}

func (t *Touchpad) Read() (Gesture, error) {
	if t == nil || t.dev == nil {
		return GestureNone, newFault(SensorTouch, ErrSensorFault, hal.ErrNotConfigured)
	}
	if !t.calibrated {
		if err := t.dev.Calibrate(); err != nil {
			return GestureNone, newFault(SensorTouch, ErrSensorFault, err)
		}
		t.calibrated = true
	}

	var levels [hal.TouchChannels]uint16
	for ch := range levels {
		v, err := t.dev.ReadChannel(ch)
		if err != nil {
			// Recalibrate once the controller is back.
			t.calibrated = false
			t.last = GestureNone
			return GestureNone, newFault(SensorTouch, ErrSensorFault, err)
		}
		levels[ch] = v
	}

	g, dead := classifyLevels(levels, t.th)
	if dead {
		// The dead band holds the previous gesture.
		return GestureNone, nil
	}
	prev := t.last
	t.last = g
	if !t.Repeat && g == prev {
		return GestureNone, nil
	}
	return g, nil
}
