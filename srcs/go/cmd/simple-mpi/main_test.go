package main

import (
	"bytes"
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"testing"

	"github.com/lsds/kungfu-mpi/srcs/go/kernel"
	"github.com/lsds/kungfu-mpi/srcs/go/mpi/job"
	"github.com/lsds/kungfu-mpi/srcs/go/plan"
	"github.com/lsds/kungfu-mpi/srcs/go/plan/plantest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

// runAsMainEnvKey makes the test binary run main instead of the tests.
const runAsMainEnvKey = `SIMPLE_MPI_TEST_RUN_AS_MAIN`

func TestMain(m *testing.M) {
	if os.Getenv(runAsMainEnvKey) == "1" {
		main()
		os.Exit(0)
	}
	os.Exit(m.Run())
}

const (
	testBlockSize = 8
	testGridSize  = 4
	testSeed      = 7
)

var testArgs = []string{
	"-block-size", strconv.Itoa(testBlockSize),
	"-grid-size", strconv.Itoa(testGridSize),
	"-seed", strconv.Itoa(testSeed),
}

// run starts np copies of main and returns the stdout of each rank.
func run(t *testing.T, np int) []string {
	var cmds []*exec.Cmd
	if np == 1 {
		cmd := exec.Command(os.Args[0], testArgs...)
		cmd.Env = append(os.Environ(), runAsMainEnvKey+"=1")
		cmds = append(cmds, cmd)
	} else {
		pl := plantest.LocalPeers(t, np)
		j := job.New(os.Args[0], testArgs)
		j.Parent = pl[0]
		for _, p := range j.CreateAllProcs(plan.Cluster{Workers: pl}) {
			p.Envs[runAsMainEnvKey] = "1"
			cmds = append(cmds, p.Cmd())
		}
	}
	outputs := make([]bytes.Buffer, np)
	g, _ := errgroup.WithContext(context.Background())
	for i, cmd := range cmds {
		cmd.Stdout = &outputs[i]
		cmd.Stderr = os.Stderr
		g.Go(cmd.Run)
	}
	require.NoError(t, g.Wait())
	var results []string
	for i := range outputs {
		results = append(results, outputs[i].String())
	}
	return results
}

// programLines drops the runtime's log lines.
func programLines(output string) []string {
	var lines []string
	for _, line := range strings.Split(strings.TrimSpace(output), "\n") {
		if !strings.HasPrefix(line, "[") {
			lines = append(lines, line)
		}
	}
	return lines
}

// expectedSums computes the per-rank sums of the scattered data locally.
func expectedSums(t *testing.T, np int) []string {
	n := testBlockSize * testGridSize
	rng := rand.New(rand.NewSource(testSeed))
	a := make([]float32, n*np)
	kernel.InitData(a, rng)
	b := make([]float32, n*np)
	kernel.InitData(b, rng)
	var sums []string
	for r := 0; r < np; r++ {
		chunk := a[r*n : (r+1)*n]
		require.NoError(t, kernel.Distance(context.Background(), chunk, b[r*n:(r+1)*n], testBlockSize, testGridSize))
		sums = append(sums, fmt.Sprintf("%.6g", float32(kernel.Sum(chunk))))
	}
	return sums
}

func Test_SimpleMPI(t *testing.T) {
	hostname, err := os.Hostname()
	require.NoError(t, err)
	for _, np := range []int{1, 3} {
		t.Run(fmt.Sprintf("np=%d", np), func(t *testing.T) {
			outputs := run(t, np)
			sums := expectedSums(t, np)
			fromPrefix := fmt.Sprintf("From %s, output is ", hostname)

			maxSum := 0.0
			for r, output := range outputs {
				lines := programLines(output)
				if r == 0 {
					require.Len(t, lines, 4, "%q", output)
					assert.Equal(t, fmt.Sprintf("Running on %d nodes", np), lines[0])
					assert.Equal(t, "PASSED", lines[3])
					lines = lines[1:2]
				} else {
					require.Len(t, lines, 1, "%q", output)
				}
				assert.Equal(t, fromPrefix+sums[r], lines[0])
				x, err := strconv.ParseFloat(sums[r], 32)
				require.NoError(t, err)
				maxSum = max(maxSum, x)
			}
			rootLines := programLines(outputs[0])
			assert.Equal(t, fmt.Sprintf("Maximum Euclidean distance is: %.6g", maxSum), rootLines[2])
		})
	}
}
