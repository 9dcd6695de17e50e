package mpi

import "github.com/lsds/kungfu-mpi/srcs/go/mpi/base"

// ScatterF32 is Scatter on float32 slices, send is ignored on ranks other than Root.
func (c *Comm) ScatterF32(send, recv []float32) error {
	var sendBuf *base.Vector
	if c.Rank() == Root {
		sendBuf = base.F32Vector(send)
	}
	return c.Scatter(sendBuf, base.F32Vector(recv))
}

// ReduceF32 is Reduce on float32 slices, recv is only written at Root.
func (c *Comm) ReduceF32(send, recv []float32, op base.OP) error {
	var recvBuf *base.Vector
	if c.Rank() == Root {
		recvBuf = base.F32Vector(recv)
	}
	return c.Reduce(base.F32Vector(send), recvBuf, op)
}

func (c *Comm) AllReduceF32(send, recv []float32, op base.OP) error {
	return c.AllReduce(base.F32Vector(send), base.F32Vector(recv), op)
}
