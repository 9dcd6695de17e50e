package handler

import (
	"github.com/lsds/kungfu-mpi/srcs/go/rchannel/connection"
)

// PingHandler echoes every message back to the sender.
type PingHandler struct {
}

func (h *PingHandler) Handle(conn connection.Connection) (int, error) {
	return connection.Stream(conn, connection.Accept, h.echo)
}

func (h *PingHandler) echo(name string, msg *connection.Message, conn connection.Connection) {
	bs := []byte(name)
	mh := connection.MessageHeader{
		NameLength: uint32(len(bs)),
		Name:       bs,
	}
	if err := mh.WriteTo(conn.Conn()); err != nil {
		return
	}
	msg.WriteTo(conn.Conn())
}
