package runner

import (
	"context"

	"github.com/dustin/go-humanize"
	"github.com/lsds/kungfu-mpi/srcs/go/log"
	"github.com/lsds/kungfu-mpi/srcs/go/mpi/job"
	"github.com/lsds/kungfu-mpi/srcs/go/plan"
	"github.com/lsds/kungfu-mpi/srcs/go/utils"
	"github.com/lsds/kungfu-mpi/srcs/go/utils/runner/local"
	"github.com/lsds/kungfu-mpi/srcs/go/utils/runner/remote"
	"github.com/pkg/errors"
)

var errSelfNotInHostList = errors.New("self not in host list")

// Cluster generates the runners and workers described by the flags.
func (f *FlagSet) Cluster() (*plan.Cluster, error) {
	workers, err := f.HostList.GenPeerList(f.ClusterSize, f.PortRange)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create peers")
	}
	return &plan.Cluster{
		Runners: f.HostList.GenRunnerList(plan.DefaultRunnerPort),
		Workers: workers,
	}, nil
}

// Job creates the job run by the runner on selfIPv4.
func (f *FlagSet) Job(selfIPv4 uint32, cluster plan.Cluster) (*job.Job, error) {
	parent := plan.PeerID{IPv4: selfIPv4, Port: plan.DefaultRunnerPort}
	if !f.Remote && !cluster.Runners.Contains(parent) {
		return nil, errors.Wrapf(errSelfNotInHostList, "%s not in %s", plan.FormatIPv4(selfIPv4), f.HostList)
	}
	j := job.New(f.Prog, f.Args)
	j.Strategy = f.Strategy
	j.Parent = parent
	j.HostList = f.HostList
	j.PortRange = f.PortRange
	j.LogDir = f.LogDir
	return &j, nil
}

// SimpleRun runs the workers of cluster that are on selfIPv4.
func SimpleRun(ctx context.Context, selfIPv4 uint32, cluster plan.Cluster, j job.Job, verboseLog bool) error {
	procs := j.CreateProcs(cluster, selfIPv4)
	log.Infof("will parallel run %s of %s with %q, %s", utils.Pluralize(len(procs), "instance", "instances"), j.Prog, j.Args, j.DebugString())
	d, err := utils.Measure(func() error { return local.RunAll(ctx, procs, verboseLog) })
	log.Infof("all %d/%d local peers finished, took %s", len(procs), len(cluster.Workers), d)
	return err
}

// RemoteRun runs every worker of cluster on its host over ssh.
func RemoteRun(ctx context.Context, user string, cluster plan.Cluster, j job.Job, verboseLog bool) error {
	procs := j.CreateAllProcs(cluster)
	log.Infof("will run %s on %s over ssh, %s", humanize.Comma(int64(len(procs))), utils.Pluralize(len(cluster.Runners), "host", "hosts"), j.DebugString())
	d, err := utils.Measure(func() error { return remote.RunAll(ctx, user, procs, verboseLog, j.LogDir) })
	log.Infof("all %d remote peers finished, took %s", len(procs), d)
	return err
}

// ExitCode is the exit code the launcher reports for the error of a run.
func ExitCode(err error) int {
	if code := local.ExitCode(err); code != 1 {
		return code
	}
	return remote.ExitCode(err)
}
