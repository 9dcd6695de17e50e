package main

import (
	"context"
	"os"
	"time"

	"github.com/lsds/kungfu-mpi/srcs/go/log"
	"github.com/lsds/kungfu-mpi/srcs/go/mpi/runner"
	"github.com/lsds/kungfu-mpi/srcs/go/plan"
	"github.com/lsds/kungfu-mpi/srcs/go/utils"
)

var f runner.FlagSet

func main() {
	runner.Init(&f, os.Args)
	t0 := time.Now()
	defer func(prog string) { log.Infof("%s took %s", prog, time.Since(t0)) }(utils.ProgName())
	selfIPv4, err := runner.InferSelfIPv4(f.Self, f.NIC)
	if err != nil {
		utils.ExitErr(err)
	}
	log.Infof("Using self=%s", plan.FormatIPv4(selfIPv4))
	cluster, err := f.Cluster()
	if err != nil {
		utils.ExitErr(err)
	}
	j, err := f.Job(selfIPv4, *cluster)
	if err != nil {
		utils.ExitErr(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if f.Timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, f.Timeout)
		defer cancel()
	}
	utils.Trap(func(sig os.Signal) {
		log.Warnf("%s received, cancelling", sig)
		cancel()
	})
	if f.Remote {
		err = runner.RemoteRun(ctx, f.User, *cluster, *j, f.VerboseLog)
	} else {
		err = runner.SimpleRun(ctx, selfIPv4, *cluster, *j, f.VerboseLog)
	}
	if err != nil {
		log.Errorf("%v", err)
		log.Infof("%s took %s", utils.ProgName(), time.Since(t0))
		os.Exit(runner.ExitCode(err))
	}
}
