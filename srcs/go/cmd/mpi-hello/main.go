package main

import (
	"fmt"
	"os"

	"github.com/lsds/kungfu-mpi/srcs/go/mpi"
)

func main() {
	hostname, _ := os.Hostname()
	comm, err := mpi.Init()
	mpi.Check(comm, err, "mpi.Init()")
	fmt.Printf("Hello from %s processor %d of %d\n", hostname, comm.Rank(), comm.Size())
	mpi.Check(comm, comm.Finalize(), "comm.Finalize()")
}
