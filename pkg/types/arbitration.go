package types

import "fmt"

// ============================================================================
//                              Side - 对局方
// ============================================================================

// Side 对局方
type Side int

const (
	// SideLocal 本方
	SideLocal Side = iota
	// SideRemote 对方
	SideRemote
)

// Opposite 返回另一方
func (s Side) Opposite() Side {
	if s == SideLocal {
		return SideRemote
	}
	return SideLocal
}

// String 返回对局方名称
func (s Side) String() string {
	if s == SideLocal {
		return "local"
	}
	return "remote"
}

// Arbitration 仲裁结果
//
// 双方各自计算，结果互补：一方 FirstMover 为 SideLocal，另一方必为 SideRemote。
type Arbitration struct {
	Local      Identity
	Remote     Identity
	FirstMover Side
}

// String 返回仲裁结果摘要
func (a Arbitration) String() string {
	return fmt.Sprintf("local=%s remote=%s first=%s", a.Local, a.Remote, a.FirstMover)
}
