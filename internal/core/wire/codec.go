package wire

import (
	"fmt"
	"sort"
)

// MaxFrameSize 单帧负载上限
const MaxFrameSize = 64 * 1024

// Codec 消息编解码器
type Codec interface {
	// Name 返回编码名称
	Name() string

	// Encode 把消息编码为一个完整帧
	Encode(msg Message) ([]byte, error)

	// Decode 从缓冲区头部解码一帧，返回消息和消耗的字节数
	//
	// 缓冲区不足一帧时返回 (nil, 0, nil)。
	Decode(buf []byte) (Message, int, error)

	// MaxTiebreak 返回编码可承载的最大决胜数
	MaxTiebreak() int
}

// 编码名称
const (
	CodecJSON  = "json"
	CodecByte  = "byte"
	CodecProto = "proto"
)

var codecs = map[string]Codec{
	CodecJSON:  JSONCodec{},
	CodecByte:  ByteCodec{},
	CodecProto: ProtoCodec{},
}

// DefaultCodec 默认编码
const DefaultCodec = CodecJSON

// Lookup 按名称查找编码
func Lookup(name string) (Codec, error) {
	c, ok := codecs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCodec, name)
	}
	return c, nil
}

// Names 返回所有编码名称（已排序）
func Names() []string {
	names := make([]string, 0, len(codecs))
	for name := range codecs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
