//go:build !tinygo

package hal

import (
	"bytes"
	"strings"
	"testing"
)

func readAxis(t *testing.T, b *SimBoard, lsb, msb uint8) int16 {
	t.Helper()
	lo, err := b.ReadByte(lsb)
	if err != nil {
		t.Fatalf("ReadByte(0x%02x): %v", lsb, err)
	}
	hi, err := b.ReadByte(msb)
	if err != nil {
		t.Fatalf("ReadByte(0x%02x): %v", msb, err)
	}
	v := int16(uint16(hi)<<2 | uint16(lo)>>6)
	if v&0x200 != 0 {
		v -= 0x400
	}
	return v
}

func TestSimBoardAxisEncoding(t *testing.T) {
	b := newSimBoard()
	if got := readAxis(t, b, RegAccZLSB, RegAccZMSB); got != simZNormal {
		t.Fatalf("z = %d, want %d", got, simZNormal)
	}
	if err := b.Apply(Command{Op: OpTilt, Target: "upside"}); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if got := readAxis(t, b, RegAccZLSB, RegAccZMSB); got != simZUpside {
		t.Fatalf("z = %d, want %d", got, simZUpside)
	}
	if err := b.Apply(Command{Op: OpTiltBand, Value: 4}); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if got := readAxis(t, b, RegAccXLSB, RegAccXMSB); got != simTiltX[3] {
		t.Fatalf("x = %d, want %d", got, simTiltX[3])
	}
}

func TestSimBoardTapReleasesAfterTicks(t *testing.T) {
	b := newSimBoard()
	b.Load([]Command{{Op: OpTap, Target: "down", Value: 2}})

	level := func() uint16 {
		v, err := b.ReadChannel(TouchScrollDown)
		if err != nil {
			t.Fatalf("ReadChannel: %v", err)
		}
		return v
	}

	if err := b.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if got := level(); got != simScrollTouched {
		t.Fatalf("tick 1 level = %d, want touched", got)
	}
	_ = b.Step()
	if got := level(); got != simScrollTouched {
		t.Fatalf("tick 2 level = %d, want touched", got)
	}
	_ = b.Step()
	if got := level(); got != simScrollIdle {
		t.Fatalf("tick 3 level = %d, want idle", got)
	}
	if !b.Idle() {
		t.Fatal("expected board idle")
	}
}

func TestSimBoardButtonIsActiveLow(t *testing.T) {
	b := newSimBoard()
	pin := b.ButtonPin()
	if err := pin.Configure(GPIOModeInput, GPIOPullUp); err != nil {
		t.Fatalf("Configure: %v", err)
	}
	if level, _ := pin.Read(); !level {
		t.Fatal("released button should read high")
	}
	_ = b.Apply(Command{Op: OpPress, Target: "button"})
	if level, _ := pin.Read(); level {
		t.Fatal("pressed button should read low")
	}

	_ = b.Apply(Command{Op: OpFault, Target: "button", Value: 1})
	if _, err := pin.Read(); err == nil {
		t.Fatal("expected faulted button read to fail")
	}
}

func TestSimBoardDialFaultStallsConversion(t *testing.T) {
	b := newSimBoard()
	_ = b.Apply(Command{Op: OpDial, Value: 900})
	_ = b.StartConversion()
	if !b.IsConversionDone() {
		t.Fatal("expected conversion done")
	}
	if v, err := b.ReadResult(); err != nil || v != 900 {
		t.Fatalf("ReadResult = %d, %v; want 900", v, err)
	}

	_ = b.Apply(Command{Op: OpFault, Target: "dial", Value: 1})
	_ = b.StartConversion()
	if b.IsConversionDone() {
		t.Fatal("faulted dial should never complete")
	}
}

func TestSimBoardWaitAndDump(t *testing.T) {
	var out bytes.Buffer
	h := newHost(&out)
	_ = h.grid.WriteString(0, 0, "hello")
	h.board.Load([]Command{{Op: OpWait, Value: 2}, {Op: OpDump}})

	for i := 0; i < 2; i++ {
		_ = h.board.Step()
		h.board.EndTick()
		if out.Len() != 0 {
			t.Fatalf("tick %d: unexpected output %q", i, out.String())
		}
	}
	_ = h.board.Step()
	h.board.EndTick()
	if !strings.Contains(out.String(), "display 0 |hello") {
		t.Fatalf("dump output = %q", out.String())
	}
}
