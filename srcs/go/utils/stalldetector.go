package utils

import (
	"fmt"
	"os"
	"time"
)

type stallDetector struct {
	name    string
	tk      *time.Ticker
	stopped chan struct{}
}

// InstallStallDetector reports to stderr every period until Stop is called.
func InstallStallDetector(name string, period time.Duration) *stallDetector {
	s := &stallDetector{
		name:    name,
		tk:      time.NewTicker(period),
		stopped: make(chan struct{}),
	}
	go s.start()
	return s
}

func (s *stallDetector) start() {
	t0 := time.Now()
	var hasStalled bool
	defer func() {
		if hasStalled {
			fmt.Fprintf(os.Stderr, "%s recovered after %s\n", s.name, time.Since(t0))
		}
	}()
	for {
		select {
		case <-s.tk.C:
			hasStalled = true
			fmt.Fprintf(os.Stderr, "%s stalled for %s\n", s.name, time.Since(t0))
		case <-s.stopped:
			return
		}
	}
}

func (s *stallDetector) Stop() {
	s.tk.Stop()
	close(s.stopped)
}
