package wire

import (
	"encoding/binary"
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/dep2p/go-duet/pkg/types"
)

// protoMaxTiebreak proto 编码的决胜数上限
const protoMaxTiebreak = 999

// protobuf 字段编号
const (
	fieldKind     protowire.Number = 1
	fieldHostname protowire.Number = 2
	fieldUsername protowire.Number = 3
	fieldIdentity protowire.Number = 4
	fieldTiebreak protowire.Number = 5
	fieldColumn   protowire.Number = 6
	fieldRow      protowire.Number = 7
)

// ProtoCodec protobuf 线格式编码：uvarint 长度前缀 + 字段
type ProtoCodec struct{}

// Name 实现 Codec
func (ProtoCodec) Name() string { return CodecProto }

// MaxTiebreak 实现 Codec
func (ProtoCodec) MaxTiebreak() int { return protoMaxTiebreak }

// Encode 实现 Codec
func (ProtoCodec) Encode(msg Message) ([]byte, error) {
	if msg == nil {
		return nil, ErrNilMessage
	}

	var body []byte
	body = protowire.AppendTag(body, fieldKind, protowire.VarintType)
	body = protowire.AppendVarint(body, uint64(msg.Kind()))

	switch m := msg.(type) {
	case *Identify:
		body = protowire.AppendTag(body, fieldHostname, protowire.BytesType)
		body = protowire.AppendString(body, m.Hostname)
		body = protowire.AppendTag(body, fieldUsername, protowire.BytesType)
		body = protowire.AppendString(body, m.Username)
	case *Join, *Quit:
	case *PickIdentity:
		if m.Tiebreak < 0 {
			return nil, fmt.Errorf("%w: tiebreak %d", ErrFieldOverflow, m.Tiebreak)
		}
		body = protowire.AppendTag(body, fieldIdentity, protowire.VarintType)
		body = protowire.AppendVarint(body, uint64(m.Identity))
		body = protowire.AppendTag(body, fieldTiebreak, protowire.VarintType)
		body = protowire.AppendVarint(body, uint64(m.Tiebreak))
	case *Move:
		if m.Cell.Column < 0 || m.Cell.Row < 0 {
			return nil, fmt.Errorf("%w: cell %s", ErrFieldOverflow, m.Cell)
		}
		body = protowire.AppendTag(body, fieldColumn, protowire.VarintType)
		body = protowire.AppendVarint(body, uint64(m.Cell.Column))
		body = protowire.AppendTag(body, fieldRow, protowire.VarintType)
		body = protowire.AppendVarint(body, uint64(m.Cell.Row))
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownOpcode, msg)
	}

	if len(body) > MaxFrameSize {
		return nil, ErrFrameTooLarge
	}
	out := binary.AppendUvarint(make([]byte, 0, len(body)+3), uint64(len(body)))
	return append(out, body...), nil
}

// Decode 实现 Codec
func (ProtoCodec) Decode(buf []byte) (Message, int, error) {
	length, n := binary.Uvarint(buf)
	switch {
	case n == 0:
		return nil, 0, nil
	case n < 0 || length > MaxFrameSize:
		return nil, 0, decodeErr(CodecProto, ErrFrameTooLarge)
	}
	total := n + int(length)
	if len(buf) < total {
		return nil, 0, nil
	}

	msg, err := decodeProtoBody(buf[n:total])
	if err != nil {
		return nil, 0, decodeErr(CodecProto, err)
	}
	return msg, total, nil
}

// protoFields 解析出的字段
type protoFields struct {
	kind               Kind
	hostname, username string
	identity, tiebreak uint64
	column, row        uint64
	seen               map[protowire.Number]bool
}

func decodeProtoBody(body []byte) (Message, error) {
	f := protoFields{seen: make(map[protowire.Number]bool)}

	for len(body) > 0 {
		num, typ, n := protowire.ConsumeTag(body)
		if n < 0 {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, protowire.ParseError(n))
		}
		body = body[n:]

		switch typ {
		case protowire.VarintType:
			v, m := protowire.ConsumeVarint(body)
			if m < 0 {
				return nil, fmt.Errorf("%w: %v", ErrMalformed, protowire.ParseError(m))
			}
			body = body[m:]
			switch num {
			case fieldKind:
				f.kind = Kind(v)
			case fieldIdentity:
				f.identity = v
			case fieldTiebreak:
				f.tiebreak = v
			case fieldColumn:
				f.column = v
			case fieldRow:
				f.row = v
			}
		case protowire.BytesType:
			v, m := protowire.ConsumeString(body)
			if m < 0 {
				return nil, fmt.Errorf("%w: %v", ErrMalformed, protowire.ParseError(m))
			}
			body = body[m:]
			switch num {
			case fieldHostname:
				f.hostname = v
			case fieldUsername:
				f.username = v
			}
		default:
			m := protowire.ConsumeFieldValue(num, typ, body)
			if m < 0 {
				return nil, fmt.Errorf("%w: %v", ErrMalformed, protowire.ParseError(m))
			}
			body = body[m:]
		}
		f.seen[num] = true
	}

	switch f.kind {
	case KindIdentify:
		return &Identify{Hostname: f.hostname, Username: f.username}, nil
	case KindJoin:
		return &Join{}, nil
	case KindQuit:
		return &Quit{}, nil
	case KindPickIdentity:
		if !f.seen[fieldIdentity] || !f.seen[fieldTiebreak] || f.identity > 0xff || f.tiebreak > MaxFrameSize {
			return nil, fmt.Errorf("%w: PickIdentity fields", ErrMalformed)
		}
		return &PickIdentity{Identity: types.Identity(f.identity), Tiebreak: int(f.tiebreak)}, nil
	case KindMove:
		if !f.seen[fieldColumn] || !f.seen[fieldRow] || f.column > MaxFrameSize || f.row > MaxFrameSize {
			return nil, fmt.Errorf("%w: Move fields", ErrMalformed)
		}
		return &Move{Cell: types.Cell{Column: int(f.column), Row: int(f.row)}}, nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownOpcode, f.kind)
	}
}
