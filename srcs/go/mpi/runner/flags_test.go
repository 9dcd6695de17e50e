package runner

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/lsds/kungfu-mpi/srcs/go/mpi/base"
	"github.com/lsds/kungfu-mpi/srcs/go/mpi/env"
	"github.com/lsds/kungfu-mpi/srcs/go/plan"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, args ...string) (*FlagSet, error) {
	var f FlagSet
	fs := flag.NewFlagSet("kungfu-mpirun", flag.ContinueOnError)
	f.Register(fs)
	require.NoError(t, fs.Parse(args))
	return &f, f.complete(fs.Args())
}

func Test_flag(t *testing.T) {
	f, err := parse(t, `-np`, `2`, `-port-range`, `8080-8088`, `-strategy`, `RING`, `./simple-mpi`, `-seed`, `1`)
	require.NoError(t, err)
	assert.Equal(t, plan.PortRange{Begin: 8080, End: 8088}, f.PortRange)
	assert.Equal(t, base.Ring, f.Strategy)
	assert.Equal(t, 2, f.ClusterSize)
	assert.Equal(t, `./simple-mpi`, f.Prog)
	assert.Equal(t, []string{`-seed`, `1`}, f.Args)
	assert.Equal(t, plan.DefaultHostList, f.HostList)
}

func Test_flagErrors(t *testing.T) {
	_, err := parse(t, `-np`, `2`)
	assert.ErrorIs(t, err, errMissingProgramName)

	_, err = parse(t, `-np`, `0`, `./mpi-hello`)
	assert.ErrorIs(t, err, errInvalidClusterSize)

	_, err = parse(t, `-H`, `not-an-ip:2`, `./mpi-hello`)
	assert.Error(t, err)
}

func Test_hostfile(t *testing.T) {
	name := filepath.Join(t.TempDir(), "hosts")
	require.NoError(t, os.WriteFile(name, []byte("10.0.0.1 slots=2\n10.0.0.2 slots=2 public_addr=node2\n"), 0o644))
	f, err := parse(t, `-hostfile`, name, `-np`, `4`, `-remote`, `./mpi-hello`)
	require.NoError(t, err)
	require.Len(t, f.HostList, 2)
	assert.Equal(t, "node2", f.HostList[1].PublicAddr)

	cluster, err := f.Cluster()
	require.NoError(t, err)
	assert.Len(t, cluster.Workers, 4)
	assert.Len(t, cluster.Runners, 2)

	j, err := f.Job(plan.MustParseIPv4(`192.168.0.9`), *cluster)
	require.NoError(t, err)
	procs := j.CreateAllProcs(*cluster)
	require.Len(t, procs, 4)
	assert.Equal(t, "10.0.0.1", procs[0].Hostname)
	assert.Equal(t, "node2", procs[3].Hostname)
	assert.Equal(t, "10.0.0.2:10001", procs[3].Envs[env.SelfSpecEnvKey])
	assert.Equal(t, j.ID, procs[0].Envs[env.JobIDEnvKey])
}

func Test_Job(t *testing.T) {
	f, err := parse(t, `-np`, `3`, `./mpi-hello`)
	require.NoError(t, err)
	cluster, err := f.Cluster()
	require.NoError(t, err)

	_, err = f.Job(plan.MustParseIPv4(`10.1.1.1`), *cluster)
	assert.ErrorIs(t, err, errSelfNotInHostList)

	j, err := f.Job(plan.MustParseIPv4(`127.0.0.1`), *cluster)
	require.NoError(t, err)
	procs := j.CreateProcs(*cluster, plan.MustParseIPv4(`127.0.0.1`))
	assert.Len(t, procs, 3)
	assert.Equal(t, "127.0.0.1.10000", procs[0].Name)

	f.ClusterSize = 5
	_, err = f.Cluster()
	assert.Error(t, err)
}

func Test_InferSelfIPv4(t *testing.T) {
	ipv4, err := InferSelfIPv4("", "")
	require.NoError(t, err)
	assert.Equal(t, plan.MustParseIPv4(`127.0.0.1`), ipv4)

	ipv4, err = InferSelfIPv4(`10.0.0.3`, "")
	require.NoError(t, err)
	assert.Equal(t, plan.MustParseIPv4(`10.0.0.3`), ipv4)

	_, err = InferSelfIPv4("", "no-such-nic0")
	assert.Error(t, err)
}

func Test_ExitCode(t *testing.T) {
	assert.Equal(t, 0, ExitCode(nil))
}
