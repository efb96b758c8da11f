package direct

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/dep2p/go-duet/internal/core/channel"
	"github.com/dep2p/go-duet/internal/core/wire"
	"github.com/dep2p/go-duet/internal/util/logger"
)

var log = logger.Logger("discovery.direct")

// Connect 连接 host:tcpPort，在 timeout 内建立信道
func Connect(ctx context.Context, host string, tcpPort int, timeout time.Duration, codec wire.Codec, opts ...channel.Option) (*channel.Conn, error) {
	addr := net.JoinHostPort(host, strconv.Itoa(tcpPort))
	log.Info("直连对端", "addr", addr, "timeout", timeout)

	dialer := net.Dialer{Timeout: timeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %v", ErrCancelled, ctx.Err())
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrConnectFailed, addr, err)
	}

	log.Info("直连成功", "remote", conn.RemoteAddr().String())
	return channel.New(conn, codec, opts...), nil
}

// Listen 在 tcpPort 上等待一个客户端，超时返回 ErrNoClient
//
// 接受第一个客户端后立即关闭监听套接字。
func Listen(ctx context.Context, tcpPort int, timeout time.Duration, codec wire.Codec, opts ...channel.Option) (*channel.Conn, error) {
	var lc net.ListenConfig
	l, err := lc.Listen(ctx, "tcp", net.JoinHostPort("", strconv.Itoa(tcpPort)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrListenFailed, err)
	}
	return accept(ctx, l.(*net.TCPListener), timeout, codec, opts...)
}

func accept(ctx context.Context, l *net.TCPListener, timeout time.Duration, codec wire.Codec, opts ...channel.Option) (*channel.Conn, error) {
	defer l.Close()

	log.Info("等待客户端", "addr", l.Addr().String(), "timeout", timeout)
	if err := l.SetDeadline(time.Now().Add(timeout)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrListenFailed, err)
	}

	stop := context.AfterFunc(ctx, func() { _ = l.Close() })
	defer stop()

	conn, err := l.Accept()
	if err != nil {
		switch {
		case ctx.Err() != nil:
			return nil, fmt.Errorf("%w: %v", ErrCancelled, ctx.Err())
		case errors.Is(err, os.ErrDeadlineExceeded):
			return nil, ErrNoClient
		default:
			return nil, fmt.Errorf("%w: %v", ErrNoClient, err)
		}
	}

	log.Info("客户端已连入", "remote", conn.RemoteAddr().String())
	return channel.New(conn, codec, opts...), nil
}
