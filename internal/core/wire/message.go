package wire

import (
	"fmt"

	"github.com/dep2p/go-duet/pkg/types"
)

// Kind 消息种类，数值即 byte 编码的操作码
type Kind byte

const (
	// KindIdentify 自我介绍
	KindIdentify Kind = 1
	// KindJoin 邀请 / 接受
	KindJoin Kind = 2
	// KindPickIdentity 仲裁取值
	KindPickIdentity Kind = 3
	// KindMove 落子
	KindMove Kind = 4
	// KindQuit 退出
	KindQuit Kind = 5
)

var kindNames = map[Kind]string{
	KindIdentify:     "Identify",
	KindJoin:         "Join",
	KindPickIdentity: "PickIdentity",
	KindMove:         "Move",
	KindQuit:         "Quit",
}

// String 返回线上名称
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", byte(k))
}

// Valid 是否为已知种类
func (k Kind) Valid() bool {
	_, ok := kindNames[k]
	return ok
}

// ParseKind 从线上名称解析种类
func ParseKind(name string) (Kind, bool) {
	for k, n := range kindNames {
		if n == name {
			return k, true
		}
	}
	return 0, false
}

// Message 协议消息
type Message interface {
	Kind() Kind
}

// Identify 自我介绍：主机名和用户名
type Identify struct {
	Hostname string
	Username string
}

// Kind 实现 Message
func (*Identify) Kind() Kind { return KindIdentify }

// Join 邀请对方，或接受对方的邀请
type Join struct{}

// Kind 实现 Message
func (*Join) Kind() Kind { return KindJoin }

// PickIdentity 一次仲裁尝试
type PickIdentity struct {
	Identity types.Identity
	Tiebreak int
}

// Kind 实现 Message
func (*PickIdentity) Kind() Kind { return KindPickIdentity }

// Value 返回取值
func (m *PickIdentity) Value() types.PickValue {
	return types.PickValue{Identity: m.Identity, Tiebreak: m.Tiebreak}
}

// Move 落子，坐标为发送方视角
type Move struct {
	Cell types.Cell
}

// Kind 实现 Message
func (*Move) Kind() Kind { return KindMove }

// Quit 退出对局
type Quit struct{}

// Kind 实现 Message
func (*Quit) Kind() Kind { return KindQuit }

// Describe 返回便于日志输出的消息摘要
func Describe(msg Message) string {
	switch m := msg.(type) {
	case nil:
		return "<nil>"
	case *Identify:
		return fmt.Sprintf("Identify(%s@%s)", m.Username, m.Hostname)
	case *PickIdentity:
		return fmt.Sprintf("PickIdentity(%s)", m.Value())
	case *Move:
		return fmt.Sprintf("Move%s", m.Cell)
	default:
		return msg.Kind().String()
	}
}
