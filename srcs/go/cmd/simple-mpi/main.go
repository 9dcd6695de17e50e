// simple-mpi scatters random points from the root, computes their distance
// from the origin on every rank and reduces the per-rank sums with MAX.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/lsds/kungfu-mpi/srcs/go/kernel"
	"github.com/lsds/kungfu-mpi/srcs/go/log"
	"github.com/lsds/kungfu-mpi/srcs/go/mpi"
	"github.com/lsds/kungfu-mpi/srcs/go/mpi/base"
	"github.com/lsds/kungfu-mpi/srcs/go/utils"
)

var (
	blockSize = flag.Int("block-size", kernel.DefaultBlockSize, "elements per block")
	gridSize  = flag.Int("grid-size", kernel.DefaultGridSize, "blocks per node")
	seed      = flag.Int64("seed", 1, "random seed of the root")
)

func main() {
	flag.Parse()
	dataSizePerNode := *gridSize * *blockSize

	comm, err := mpi.Init()
	mpi.Check(comm, err, "mpi.Init()")

	commSize, commRank := comm.Size(), comm.Rank()
	dataSizeTotal := dataSizePerNode * commSize

	var dataRootA, dataRootB []float32
	if commRank == mpi.Root {
		fmt.Printf("Running on %d nodes\n", commSize)
		rng := rand.New(rand.NewSource(*seed))
		dataRootA = make([]float32, dataSizeTotal)
		kernel.InitData(dataRootA, rng)
		dataRootB = make([]float32, dataSizeTotal)
		kernel.InitData(dataRootB, rng)
		log.Debugf("generated 2 x %s on root", humanize.IBytes(uint64(dataSizeTotal*base.F32.Size())))
	}

	dataNodeA := make([]float32, dataSizePerNode)
	dataNodeB := make([]float32, dataSizePerNode)

	mpi.Check(comm, comm.ScatterF32(dataRootA, dataNodeA), "comm.ScatterF32(dataRootA, dataNodeA)")
	mpi.Check(comm, comm.ScatterF32(dataRootB, dataNodeB), "comm.ScatterF32(dataRootB, dataNodeB)")

	// root data is no longer needed
	dataRootA, dataRootB = nil, nil

	d, err := utils.Measure(func() error {
		return kernel.Distance(context.Background(), dataNodeA, dataNodeB, *blockSize, *gridSize)
	})
	mpi.Check(comm, err, "kernel.Distance(dataNodeA, dataNodeB)")
	log.Debugf("rank %d computed %s in %s (%s/s)", commRank, humanize.IBytes(uint64(dataSizePerNode*base.F32.Size())), d, humanize.IBytes(uint64(utils.Rate(int64(dataSizePerNode*base.F32.Size()), d))))

	sumNode := []float32{float32(kernel.Sum(dataNodeA))}
	hostname, _ := os.Hostname()
	fmt.Printf("From %s, output is %.6g\n", hostname, sumNode[0])

	sumRoot := make([]float32, 1)
	mpi.Check(comm, comm.ReduceF32(sumNode, sumRoot, base.MAX), "comm.ReduceF32(sumNode, sumRoot, MAX)")
	if commRank == mpi.Root {
		fmt.Printf("Maximum Euclidean distance is: %.6g\n", sumRoot[0])
	}

	mpi.Check(comm, comm.Finalize(), "comm.Finalize()")
	if commRank == mpi.Root {
		fmt.Println("PASSED")
	}
}
