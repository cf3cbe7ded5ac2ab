package tui

import (
	"context"
	"io"
	"os"
	"time"

	"golang.org/x/term"
)

const (
	// IntervalStep is how much one key press slows down or speeds up a run.
	IntervalStep = 100 * time.Millisecond
	// MinInterval is the fastest pace reachable with the faster key.
	MinInterval = 100 * time.Millisecond
)

// Pacer is the part of runner.Runner the keyboard controls.
type Pacer interface {
	Interval() time.Duration
	SetInterval(d time.Duration)
}

// Controls maps key presses to runner actions:
// 's' slows down, 'a' speeds up, 'q' or Ctrl-C quits.
type Controls struct {
	Pacer Pacer
	Quit  func()
}

// Handle applies one key press. It reports whether the key asked to quit.
func (c *Controls) Handle(key byte) bool {
	switch key {
	case 's', 'S':
		c.Pacer.SetInterval(c.Pacer.Interval() + IntervalStep)
	case 'a', 'A':
		if cur := c.Pacer.Interval(); cur > MinInterval {
			c.Pacer.SetInterval(max(cur-IntervalStep, MinInterval))
		}
	case 'q', 'Q', 3:
		if c.Quit != nil {
			c.Quit()
		}
		return true
	}
	return false
}

// Listen reads key presses from in until a quit key, EOF or ctx is done.
// Reads are blocking, so a pending read outlives a cancelled ctx.
func (c *Controls) Listen(ctx context.Context, in io.Reader) {
	keys := make(chan byte)
	go func() {
		defer close(keys)
		buf := make([]byte, 1)
		for {
			n, err := in.Read(buf)
			if err != nil {
				return
			}
			if n == 1 {
				select {
				case keys <- buf[0]:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case key, ok := <-keys:
			if !ok || c.Handle(key) {
				return
			}
		}
	}
}

// RawMode puts f in raw mode so single key presses are delivered without Enter.
// It returns a function restoring the previous mode. When f is not a terminal,
// nothing changes and ok is false.
func RawMode(f *os.File) (restore func(), ok bool, err error) {
	fd := int(f.Fd())
	if !term.IsTerminal(fd) {
		return func() {}, false, nil
	}
	old, err := term.MakeRaw(fd)
	if err != nil {
		return nil, false, err
	}
	return func() { _ = term.Restore(fd, old) }, true, nil
}
