package types

import "fmt"

// ============================================================================
//                              Identity - 对局身份
// ============================================================================

// Identity 对局身份（颜色），线上以单个 ASCII 字节表示
type Identity byte

const (
	// IdentityNone 未分配
	IdentityNone Identity = 0
	// IdentityRed 红
	IdentityRed Identity = 'r'
	// IdentityGreen 绿
	IdentityGreen Identity = 'g'
	// IdentityBlue 蓝
	IdentityBlue Identity = 'b'
)

// DefaultIdentities 默认身份集合
var DefaultIdentities = []Identity{IdentityRed, IdentityGreen, IdentityBlue}

// Valid 是否为可打印 ASCII 身份
func (id Identity) Valid() bool {
	return id > ' ' && id < 0x7f
}

// String 返回身份名称
func (id Identity) String() string {
	switch id {
	case IdentityNone:
		return "none"
	case IdentityRed:
		return "red"
	case IdentityGreen:
		return "green"
	case IdentityBlue:
		return "blue"
	default:
		if id.Valid() {
			return string(rune(id))
		}
		return fmt.Sprintf("0x%02x", byte(id))
	}
}

// ParseIdentity 从单字符或颜色名解析身份
func ParseIdentity(s string) (Identity, error) {
	switch s {
	case "red":
		return IdentityRed, nil
	case "green":
		return IdentityGreen, nil
	case "blue":
		return IdentityBlue, nil
	}
	if len(s) == 1 && Identity(s[0]).Valid() {
		return Identity(s[0]), nil
	}
	return IdentityNone, fmt.Errorf("%w: %q", ErrInvalidIdentity, s)
}

// ============================================================================
//                              PickValue - 仲裁取值
// ============================================================================

// PickValue 一次仲裁尝试：身份 + 随机决胜数
type PickValue struct {
	Identity Identity
	Tiebreak int
}

// String 返回 "身份:决胜数"
func (p PickValue) String() string {
	return fmt.Sprintf("%s:%d", p.Identity, p.Tiebreak)
}

// CollidesWith 身份或决胜数相同即为冲突
func (p PickValue) CollidesWith(other PickValue) bool {
	return p.Identity == other.Identity || p.Tiebreak == other.Tiebreak
}
