package wire

import (
	"encoding/binary"
	"encoding/json"
	"fmt"

	"github.com/dep2p/go-duet/pkg/types"
)

// jsonMaxTiebreak json 编码的决胜数上限
const jsonMaxTiebreak = 999

// JSONCodec 结构化编码：4 字节大端长度前缀 + JSON 对象
type JSONCodec struct{}

// jsonFrame 线上 JSON 对象
type jsonFrame struct {
	Type     string  `json:"type"`
	Hostname string  `json:"hostname,omitempty"`
	Username string  `json:"username,omitempty"`
	Identity string  `json:"identity,omitempty"`
	Tiebreak *int    `json:"tiebreak,omitempty"`
	Cell     *[2]int `json:"cell,omitempty"`
}

// Name 实现 Codec
func (JSONCodec) Name() string { return CodecJSON }

// MaxTiebreak 实现 Codec
func (JSONCodec) MaxTiebreak() int { return jsonMaxTiebreak }

// Encode 实现 Codec
func (JSONCodec) Encode(msg Message) ([]byte, error) {
	if msg == nil {
		return nil, ErrNilMessage
	}

	frame := jsonFrame{Type: msg.Kind().String()}
	switch m := msg.(type) {
	case *Identify:
		frame.Hostname = m.Hostname
		frame.Username = m.Username
	case *Join, *Quit:
	case *PickIdentity:
		tiebreak := m.Tiebreak
		frame.Identity = string([]byte{byte(m.Identity)})
		frame.Tiebreak = &tiebreak
	case *Move:
		frame.Cell = &[2]int{m.Cell.Column, m.Cell.Row}
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownOpcode, msg)
	}

	body, err := json.Marshal(frame)
	if err != nil {
		return nil, err
	}
	if len(body) > MaxFrameSize {
		return nil, ErrFrameTooLarge
	}

	out := make([]byte, 4+len(body))
	binary.BigEndian.PutUint32(out, uint32(len(body)))
	copy(out[4:], body)
	return out, nil
}

// Decode 实现 Codec
func (JSONCodec) Decode(buf []byte) (Message, int, error) {
	if len(buf) < 4 {
		return nil, 0, nil
	}
	length := binary.BigEndian.Uint32(buf)
	if length > MaxFrameSize {
		return nil, 0, decodeErr(CodecJSON, ErrFrameTooLarge)
	}
	total := 4 + int(length)
	if len(buf) < total {
		return nil, 0, nil
	}

	var frame jsonFrame
	if err := json.Unmarshal(buf[4:total], &frame); err != nil {
		return nil, 0, decodeErr(CodecJSON, fmt.Errorf("%w: %v", ErrMalformed, err))
	}

	kind, ok := ParseKind(frame.Type)
	if !ok {
		return nil, 0, decodeErr(CodecJSON, fmt.Errorf("%w: %q", ErrUnknownOpcode, frame.Type))
	}

	var msg Message
	switch kind {
	case KindIdentify:
		msg = &Identify{Hostname: frame.Hostname, Username: frame.Username}
	case KindJoin:
		msg = &Join{}
	case KindQuit:
		msg = &Quit{}
	case KindPickIdentity:
		if len(frame.Identity) != 1 || frame.Tiebreak == nil {
			return nil, 0, decodeErr(CodecJSON, fmt.Errorf("%w: PickIdentity fields", ErrMalformed))
		}
		msg = &PickIdentity{Identity: types.Identity(frame.Identity[0]), Tiebreak: *frame.Tiebreak}
	case KindMove:
		if frame.Cell == nil {
			return nil, 0, decodeErr(CodecJSON, fmt.Errorf("%w: Move without cell", ErrMalformed))
		}
		msg = &Move{Cell: types.Cell{Column: frame.Cell[0], Row: frame.Cell[1]}}
	}
	return msg, total, nil
}
