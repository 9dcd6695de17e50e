package local

import (
	"context"
	"errors"
	"io"
	"os/exec"
	"path"
	"strings"
	"time"

	"github.com/lsds/kungfu-mpi/srcs/go/log"
	"github.com/lsds/kungfu-mpi/srcs/go/proc"
	"github.com/lsds/kungfu-mpi/srcs/go/utils/iostream"
	"github.com/lsds/kungfu-mpi/srcs/go/utils/xterm"
	"golang.org/x/sync/errgroup"
)

type Runner struct {
	Name          string
	Color         xterm.Color
	LogDir        string
	LogFilePrefix string
	VerboseLog    bool
}

func (r Runner) redirectors() []*iostream.StdWriters {
	var redirectors []*iostream.StdWriters
	if r.VerboseLog {
		redirectors = append(redirectors, iostream.NewXTermRedirector(r.Name, r.Color))
	}
	if len(r.LogDir) > 0 {
		redirectors = append(redirectors, iostream.NewFileRedirector(path.Join(r.LogDir, r.LogFilePrefix)))
	}
	return redirectors
}

// Run runs p until it exits, the process is killed when ctx is done.
func (r Runner) Run(ctx context.Context, p proc.Proc) error {
	cmd := p.Cmd()
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return err
	}
	defer stdout.Close()
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return err
	}
	defer stderr.Close()
	redirectors := r.redirectors()
	defer closeAll(redirectors)
	results := iostream.StdReaders{Stdout: stdout, Stderr: stderr}
	ioDone := results.Stream(redirectors...)
	if err := cmd.Start(); err != nil {
		return err
	}
	done := make(chan error, 1)
	go func() {
		ioDone.Wait() // call this before cmd.Wait!
		done <- cmd.Wait()
	}()
	select {
	case <-ctx.Done():
		cmd.Process.Kill()
		<-done
		return ctx.Err()
	case err := <-done:
		return err
	}
}

func closeAll(redirectors []*iostream.StdWriters) {
	for _, w := range redirectors {
		for _, f := range []io.Writer{w.Stdout, w.Stderr} {
			if c, ok := f.(io.Closer); ok {
				c.Close()
			}
		}
	}
}

// RunAll runs all ps in parallel, the first failure cancels the others and is returned.
func RunAll(ctx context.Context, ps []proc.Proc, verboseLog bool) error {
	colors := xterm.PeerColors()
	g, ctx := errgroup.WithContext(ctx)
	for i, p := range ps {
		r := &Runner{
			Name:          p.Name,
			Color:         colors.Choose(i),
			VerboseLog:    verboseLog,
			LogFilePrefix: strings.Replace(p.Name, "/", "-", -1),
			LogDir:        p.LogDir,
		}
		g.Go(func() error {
			t0 := time.Now()
			if err := r.Run(ctx, p); err != nil {
				if errors.Is(err, context.Canceled) {
					log.Debugf("#<%s> canceled, took %s", p.Name, time.Since(t0))
				} else {
					log.Errorf("#<%s> exited with error: %v, took %s", p.Name, err, time.Since(t0))
				}
				return &ProcError{Name: p.Name, Err: err}
			}
			log.Debugf("#<%s> finished successfully, took %s", p.Name, time.Since(t0))
			return nil
		})
	}
	return g.Wait()
}

// ProcError is the failure of a named process.
type ProcError struct {
	Name string
	Err  error
}

func (e *ProcError) Error() string {
	return "#<" + e.Name + ">: " + e.Err.Error()
}

func (e *ProcError) Unwrap() error { return e.Err }

// ExitCode returns the exit code carried by err, 0 for nil and 1 if unknown.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if code := exitErr.ExitCode(); code > 0 {
			return code
		}
	}
	return 1
}
