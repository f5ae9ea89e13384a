//go:build !tinygo

package hal

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"go.bug.st/serial"
)

// BridgeConfig selects the serial port feeding the sensor bridge.
type BridgeConfig struct {
	Port string
	Baud int
}

// OpenBridge opens the serial port and returns a channel of parsed board
// commands plus a function that stops the reader and closes the port.
// Malformed lines are reported through onError and skipped.
func OpenBridge(cfg BridgeConfig, onError func(error)) (<-chan Command, func() error, error) {
	if cfg.Port == "" {
		return nil, nil, fmt.Errorf("bridge: %w: no port", ErrNotConfigured)
	}
	if cfg.Baud <= 0 {
		cfg.Baud = 115200
	}
	port, err := serial.Open(cfg.Port, &serial.Mode{BaudRate: cfg.Baud})
	if err != nil {
		return nil, nil, fmt.Errorf("bridge: open %s: %w", cfg.Port, err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	stop := func() error {
		cancel()
		return port.Close()
	}
	return ReadCommands(ctx, port, onError), stop, nil
}

// ReadCommands parses lines from r on a goroutine. The channel is closed
// when r is exhausted or ctx is done; a full channel does not outlive ctx.
func ReadCommands(ctx context.Context, r io.Reader, onError func(error)) <-chan Command {
	ch := make(chan Command, 16)
	go func() {
		defer close(ch)
		sc := bufio.NewScanner(r)
		line := 0
		for sc.Scan() {
			line++
			cmd, ok, err := ParseCommand(sc.Text())
			if err != nil {
				if onError != nil {
					onError(fmt.Errorf("bridge: line %d: %w", line, err))
				}
				continue
			}
			if !ok {
				continue
			}
			cmd.Line = line
			if ctx.Err() != nil {
				return
			}
			select {
			case ch <- cmd:
			case <-ctx.Done():
				return
			}
		}
		if err := sc.Err(); err != nil && ctx.Err() == nil && onError != nil {
			onError(fmt.Errorf("bridge: %w", err))
		}
	}()
	return ch
}

// ListPorts returns the serial ports visible to the host.
func ListPorts() ([]string, error) {
	return serial.GetPortsList()
}
