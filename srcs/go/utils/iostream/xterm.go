package iostream

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/lsds/kungfu-mpi/srcs/go/utils/xterm"
)

// lines from concurrent workers must not interleave
var termMu sync.Mutex

type XtermWriter struct {
	prefix string
	w      io.Writer
}

func (x XtermWriter) Write(bs []byte) (int, error) {
	termMu.Lock()
	defer termMu.Unlock()
	fmt.Fprintf(x.w, "[%s] %s", x.prefix, string(bs))
	return len(bs), nil
}

func NewXTermRedirector(name string, c xterm.Color) *StdWriters {
	if c == nil {
		c = xterm.NoColor
	}
	stderrTag := xterm.Warn.S("stderr")
	if c == xterm.NoColor {
		stderrTag = "stderr"
	}
	return &StdWriters{
		Stdout: &XtermWriter{
			prefix: c.S(name) + "::stdout",
			w:      os.Stdout,
		},
		Stderr: &XtermWriter{
			prefix: c.S(name) + "::" + stderrTag,
			w:      os.Stderr,
		},
	}
}
