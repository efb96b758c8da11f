package wire

import (
	"fmt"
	"unicode/utf8"

	"github.com/dep2p/go-duet/pkg/types"
)

// byteMaxTiebreak byte 编码的决胜数上限
const byteMaxTiebreak = 255

// ByteCodec 紧凑编码：1 字节操作码 + 定长负载
//
//	Identify     [1][len][hostname][len][username]
//	Join         [2]
//	PickIdentity [3][tiebreak][identity]
//	Move         [4][column][row]
//	Quit         [5]
type ByteCodec struct{}

// byteOp 单个操作码的编解码函数
type byteOp struct {
	encode func(msg Message) ([]byte, error)
	// decode 返回 (nil, 0, nil) 表示负载不完整
	decode func(payload []byte) (Message, int, error)
}

var byteOps = map[Kind]byteOp{
	KindIdentify: {
		encode: func(msg Message) ([]byte, error) {
			m := msg.(*Identify)
			host := truncate(m.Hostname)
			user := truncate(m.Username)
			out := make([]byte, 0, 2+len(host)+len(user))
			out = append(out, byte(len(host)))
			out = append(out, host...)
			out = append(out, byte(len(user)))
			out = append(out, user...)
			return out, nil
		},
		decode: func(p []byte) (Message, int, error) {
			host, n1, ok := readShortString(p)
			if !ok {
				return nil, 0, nil
			}
			user, n2, ok := readShortString(p[n1:])
			if !ok {
				return nil, 0, nil
			}
			return &Identify{Hostname: host, Username: user}, n1 + n2, nil
		},
	},
	KindJoin: {
		encode: func(Message) ([]byte, error) { return nil, nil },
		decode: func([]byte) (Message, int, error) { return &Join{}, 0, nil },
	},
	KindPickIdentity: {
		encode: func(msg Message) ([]byte, error) {
			m := msg.(*PickIdentity)
			if m.Tiebreak < 0 || m.Tiebreak > byteMaxTiebreak {
				return nil, fmt.Errorf("%w: tiebreak %d", ErrFieldOverflow, m.Tiebreak)
			}
			return []byte{byte(m.Tiebreak), byte(m.Identity)}, nil
		},
		decode: func(p []byte) (Message, int, error) {
			if len(p) < 2 {
				return nil, 0, nil
			}
			return &PickIdentity{Identity: types.Identity(p[1]), Tiebreak: int(p[0])}, 2, nil
		},
	},
	KindMove: {
		encode: func(msg Message) ([]byte, error) {
			m := msg.(*Move)
			if !fitsByte(m.Cell.Column) || !fitsByte(m.Cell.Row) {
				return nil, fmt.Errorf("%w: cell %s", ErrFieldOverflow, m.Cell)
			}
			return []byte{byte(m.Cell.Column), byte(m.Cell.Row)}, nil
		},
		decode: func(p []byte) (Message, int, error) {
			if len(p) < 2 {
				return nil, 0, nil
			}
			return &Move{Cell: types.Cell{Column: int(p[0]), Row: int(p[1])}}, 2, nil
		},
	},
	KindQuit: {
		encode: func(Message) ([]byte, error) { return nil, nil },
		decode: func([]byte) (Message, int, error) { return &Quit{}, 0, nil },
	},
}

// Name 实现 Codec
func (ByteCodec) Name() string { return CodecByte }

// MaxTiebreak 实现 Codec
func (ByteCodec) MaxTiebreak() int { return byteMaxTiebreak }

// Encode 实现 Codec
func (ByteCodec) Encode(msg Message) ([]byte, error) {
	if msg == nil {
		return nil, ErrNilMessage
	}
	op, ok := byteOps[msg.Kind()]
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrUnknownOpcode, msg)
	}
	payload, err := op.encode(msg)
	if err != nil {
		return nil, err
	}
	return append([]byte{byte(msg.Kind())}, payload...), nil
}

// Decode 实现 Codec
func (ByteCodec) Decode(buf []byte) (Message, int, error) {
	if len(buf) == 0 {
		return nil, 0, nil
	}
	op, ok := byteOps[Kind(buf[0])]
	if !ok {
		return nil, 0, decodeErr(CodecByte, fmt.Errorf("%w: 0x%02x", ErrUnknownOpcode, buf[0]))
	}
	msg, n, err := op.decode(buf[1:])
	if err != nil || msg == nil {
		return nil, 0, err
	}
	return msg, 1 + n, nil
}

func fitsByte(v int) bool {
	return v >= 0 && v <= 0xff
}

// truncate 截断到 255 字节，不拆开多字节字符
func truncate(s string) string {
	if len(s) <= 0xff {
		return s
	}
	n := 0xff
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func readShortString(p []byte) (string, int, bool) {
	if len(p) < 1 {
		return "", 0, false
	}
	n := int(p[0])
	if len(p) < 1+n {
		return "", 0, false
	}
	return string(p[1 : 1+n]), 1 + n, true
}
