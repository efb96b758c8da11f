package discovery

import (
	"errors"
	"fmt"
)

var (
	// ErrDiscoveryTimeout 后台协程未在超时内退出
	ErrDiscoveryTimeout = errors.New("discovery: timed out joining workers")

	// ErrAlreadyStarted 服务已启动
	ErrAlreadyStarted = errors.New("discovery: already started")

	// ErrNotStarted 服务未启动
	ErrNotStarted = errors.New("discovery: not started")

	// ErrNilBeacon 信标为空
	ErrNilBeacon = errors.New("discovery: nil beacon")

	// ErrInvalidConfig 无效配置
	ErrInvalidConfig = errors.New("discovery: invalid config")
)

// 故障来源
const (
	OpBroadcast = "broadcast"
	OpListen    = "listen"
	OpAccept    = "accept"
)

// FaultError 后台协程故障
type FaultError struct {
	Op  string
	Err error
}

// Error 实现 error 接口
func (e *FaultError) Error() string {
	return fmt.Sprintf("discovery: %s: %v", e.Op, e.Err)
}

// Unwrap 返回底层错误
func (e *FaultError) Unwrap() error {
	return e.Err
}

// Faults 后台协程记录的故障，nil 表示该协程无故障
type Faults struct {
	Broadcast error
	Listen    error
	Accept    error
}

// Any 是否有任何故障
func (f Faults) Any() bool {
	return f.Broadcast != nil || f.Listen != nil || f.Accept != nil
}
