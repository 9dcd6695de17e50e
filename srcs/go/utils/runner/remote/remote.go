package remote

import (
	"context"
	"errors"
	"path"
	"time"

	"github.com/lsds/kungfu-mpi/srcs/go/log"
	"github.com/lsds/kungfu-mpi/srcs/go/proc"
	"github.com/lsds/kungfu-mpi/srcs/go/utils/iostream"
	"github.com/lsds/kungfu-mpi/srcs/go/utils/ssh"
	"github.com/lsds/kungfu-mpi/srcs/go/utils/xterm"
	xssh "golang.org/x/crypto/ssh"
	"golang.org/x/sync/errgroup"
)

// RunAll runs each proc on its Hostname over SSH, the first failure cancels the others.
func RunAll(ctx context.Context, user string, ps []proc.Proc, verboseLog bool, logDir string) error {
	colors := xterm.PeerColors()
	g, ctx := errgroup.WithContext(ctx)
	for i, p := range ps {
		color := colors.Choose(i)
		g.Go(func() error {
			t0 := time.Now()
			config := ssh.Config{
				Host: p.Hostname,
				User: user,
			}
			client, err := ssh.New(config)
			if err != nil {
				log.Errorf("#<%s> failed to new SSH Client with config: %v: %v", p.Name, config, err)
				return err
			}
			defer client.Close()
			var redirectors []*iostream.StdWriters
			if verboseLog {
				redirectors = append(redirectors, iostream.NewXTermRedirector(p.Name, color))
			}
			if len(logDir) > 0 {
				redirectors = append(redirectors, iostream.NewFileRedirector(path.Join(logDir, p.Name)))
			}
			if err := client.Watch(ctx, p.Script(), redirectors); err != nil {
				if !errors.Is(err, context.Canceled) {
					log.Errorf("#<%s> exited with error: %v, took %s", p.Name, err, time.Since(t0))
				}
				return err
			}
			log.Debugf("#<%s> finished successfully, took %s", p.Name, time.Since(t0))
			return nil
		})
	}
	return g.Wait()
}

// ExitCode returns the remote exit status carried by err, 0 for nil and 1 if unknown.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *xssh.ExitError
	if errors.As(err, &exitErr) {
		if code := exitErr.ExitStatus(); code > 0 {
			return code
		}
	}
	return 1
}
