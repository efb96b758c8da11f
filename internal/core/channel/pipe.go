package channel

import (
	"fmt"
	"net"
	"sync/atomic"

	"github.com/dep2p/go-duet/internal/core/wire"
)

var pipeSeq atomic.Uint64

// Pipe 返回一对相连的内存信道
//
// 两端拥有互为镜像的唯一地址，语义与 TCP 信道相同。
func Pipe(codec wire.Codec, opts ...Option) (*Conn, *Conn) {
	a, b := net.Pipe()
	seq := pipeSeq.Add(1)
	addrA := fmt.Sprintf("pipe:%d/a", seq)
	addrB := fmt.Sprintf("pipe:%d/b", seq)

	leftOpts := append(append([]Option{}, opts...), WithAddrs(addrA, addrB))
	rightOpts := append(append([]Option{}, opts...), WithAddrs(addrB, addrA))
	return New(a, codec, leftOpts...), New(b, codec, rightOpts...)
}
