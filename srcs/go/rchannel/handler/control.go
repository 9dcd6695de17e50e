package handler

import (
	"encoding/binary"
	"os"

	"github.com/lsds/kungfu-mpi/srcs/go/log"
	"github.com/lsds/kungfu-mpi/srcs/go/rchannel/connection"
)

const AbortMessage = "abort"

type ControlHandler struct {
	// OnAbort is called with the code carried by an abort message, os.Exit by default.
	OnAbort func(code int)
}

func (h *ControlHandler) Handle(conn connection.Connection) (int, error) {
	return connection.Stream(conn, connection.Accept, h.handleControl)
}

func (h *ControlHandler) handleControl(name string, msg *connection.Message, conn connection.Connection) {
	switch name {
	case AbortMessage:
		code := DecodeAbortCode(msg.Data)
		log.Errorf("abort control message received from %s, exit code %d", conn.Src(), code)
		if h.OnAbort != nil {
			h.OnAbort(code)
			return
		}
		os.Exit(code)
	default:
		log.Errorf("unexpected control message: %q", name)
	}
}

func EncodeAbortCode(code int) []byte {
	bs := make([]byte, 4)
	binary.LittleEndian.PutUint32(bs, uint32(int32(code)))
	return bs
}

// DecodeAbortCode never returns 0, a malformed payload aborts with 1.
func DecodeAbortCode(bs []byte) int {
	if len(bs) != 4 {
		return 1
	}
	if code := int(int32(binary.LittleEndian.Uint32(bs))); code != 0 {
		return code
	}
	return 1
}
