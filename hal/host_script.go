//go:build !tinygo

package hal

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/shlex"
)

// Board command ops.
const (
	OpDial     = "dial"
	OpPress    = "press"
	OpRelease  = "release"
	OpTap      = "tap"
	OpHold     = "hold"
	OpTilt     = "tilt"
	OpTiltBand = "tiltband"
	OpFault    = "fault"
	OpWait     = "wait"
	OpDump     = "dump"
)

// Command is one parsed script or bridge line.
type Command struct {
	Op     string
	Target string
	Value  int
	Line   int
}

// ParseScript reads one command per line. Blank lines and # comments are skipped.
func ParseScript(r io.Reader) ([]Command, error) {
	var cmds []Command
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		cmd, ok, err := ParseCommand(sc.Text())
		if err != nil {
			return nil, fmt.Errorf("script: line %d: %w", line, err)
		}
		if !ok {
			continue
		}
		cmd.Line = line
		cmds = append(cmds, cmd)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("script: %w", err)
	}
	return cmds, nil
}

// ParseCommand parses a single line. ok is false for blank and comment lines.
func ParseCommand(line string) (cmd Command, ok bool, err error) {
	fields, err := shlex.Split(line)
	if err != nil {
		return Command{}, false, err
	}
	if len(fields) == 0 {
		return Command{}, false, nil
	}
	for i := range fields {
		fields[i] = strings.ToLower(fields[i])
	}

	op, args := fields[0], fields[1:]
	switch op {
	case OpDial:
		if len(args) != 1 {
			return cmd, false, fmt.Errorf("dial: want 1 argument, got %d", len(args))
		}
		v, err := parseRange(args[0], 0, 1023)
		if err != nil {
			return cmd, false, fmt.Errorf("dial: %w", err)
		}
		return Command{Op: OpDial, Value: v}, true, nil

	case OpPress, OpRelease:
		if len(args) != 1 || !isInput(args[0]) {
			return cmd, false, fmt.Errorf("%s: want one of button|up|down|left|right", op)
		}
		return Command{Op: op, Target: args[0]}, true, nil

	case OpTap:
		if len(args) < 1 || len(args) > 2 || !isInput(args[0]) {
			return cmd, false, fmt.Errorf("tap: want <input> [ticks]")
		}
		ticks := 1
		if len(args) == 2 {
			if ticks, err = parseRange(args[1], 1, 1<<16); err != nil {
				return cmd, false, fmt.Errorf("tap: %w", err)
			}
		}
		return Command{Op: OpTap, Target: args[0], Value: ticks}, true, nil

	case OpHold:
		if len(args) != 2 || args[0] != "button" {
			return cmd, false, fmt.Errorf("hold: want button <ticks>")
		}
		ticks, err := parseRange(args[1], 1, 1<<16)
		if err != nil {
			return cmd, false, fmt.Errorf("hold: %w", err)
		}
		return Command{Op: OpHold, Target: "button", Value: ticks}, true, nil

	case OpTilt:
		switch {
		case len(args) == 1 && (args[0] == "normal" || args[0] == "upside"):
			return Command{Op: OpTilt, Target: args[0]}, true, nil
		case len(args) == 2 && args[0] == "band":
			band, err := parseRange(args[1], 1, len(simTiltX))
			if err != nil {
				return cmd, false, fmt.Errorf("tilt band: %w", err)
			}
			return Command{Op: OpTiltBand, Value: band}, true, nil
		}
		return cmd, false, fmt.Errorf("tilt: want normal|upside or band <1..4>")

	case OpFault:
		if len(args) != 2 {
			return cmd, false, fmt.Errorf("fault: want <sensor> <on|off>")
		}
		switch args[0] {
		case "dial", "touch", "tilt", "button":
		default:
			return cmd, false, fmt.Errorf("fault: unknown sensor %q", args[0])
		}
		switch args[1] {
		case "on":
			return Command{Op: OpFault, Target: args[0], Value: 1}, true, nil
		case "off":
			return Command{Op: OpFault, Target: args[0]}, true, nil
		}
		return cmd, false, fmt.Errorf("fault: want on|off, got %q", args[1])

	case OpWait:
		if len(args) != 1 {
			return cmd, false, fmt.Errorf("wait: want <ticks>")
		}
		ticks, err := parseRange(args[0], 0, 1<<20)
		if err != nil {
			return cmd, false, fmt.Errorf("wait: %w", err)
		}
		return Command{Op: OpWait, Value: ticks}, true, nil

	case OpDump:
		if len(args) != 0 {
			return cmd, false, fmt.Errorf("dump: takes no arguments")
		}
		return Command{Op: OpDump}, true, nil
	}
	return cmd, false, fmt.Errorf("unknown command %q", op)
}

func isInput(s string) bool {
	if s == "button" {
		return true
	}
	_, ok := padChannel(s)
	return ok
}

func parseRange(s string, lo, hi int) (int, error) {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	if v < lo || v > hi {
		return 0, fmt.Errorf("%d out of range %d..%d", v, lo, hi)
	}
	return v, nil
}
