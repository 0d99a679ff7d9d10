package main

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/fatih/color"
)

// clearLine moves to the start of the line and erases it
const clearLine = "\r\x1b[K"

// Spinner provides a simple terminal loading animation while a page is polled.
// It is also an io.Writer: log lines written through it while it spins are
// put on a line of their own and the animation carries on below them.
// A Spinner with a nil writer does nothing.
type Spinner struct {
	out     io.Writer
	chars   []string
	delay   time.Duration
	message string
	ok      bool
	end     chan struct{}
	wg      sync.WaitGroup

	mu     sync.Mutex // guards writes to out and active
	active bool
}

func newSpinner(out io.Writer) *Spinner {
	return &Spinner{
		out:   out,
		chars: []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"},
		delay: 100 * time.Millisecond,
	}
}

func (s *Spinner) Start(message string) {
	if s == nil || s.out == nil {
		return
	}

	s.mu.Lock()
	s.active = true
	s.mu.Unlock()

	s.message = message
	s.end = make(chan struct{})
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		i := 0
		for {
			select {
			case <-s.end:
				mark := color.New(color.FgGreen).Sprint("✅")
				if !s.ok {
					mark = color.New(color.FgRed).Sprint("❌")
				}

				s.mu.Lock()
				fmt.Fprintf(s.out, "%s%s %s\n", clearLine, mark, s.message)
				s.active = false
				s.mu.Unlock()
				return
			default:
				s.mu.Lock()
				fmt.Fprintf(s.out, "\r%s %s", color.CyanString(s.chars[i%len(s.chars)]), s.message)
				s.mu.Unlock()
				i++
				time.Sleep(s.delay)
			}
		}
	}()
}

// Stop ends the animation and prints the final mark for ok
func (s *Spinner) Stop(ok bool) {
	if s == nil || s.out == nil || s.end == nil {
		return
	}

	s.ok = ok
	close(s.end)
	s.wg.Wait()
	s.end = nil
}

// Write clears the animation line, if any, before writing p to out
func (s *Spinner) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active {
		_, err := io.WriteString(s.out, clearLine)
		if err != nil {
			return 0, err
		}
	}

	return s.out.Write(p)
}
