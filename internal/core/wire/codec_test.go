package wire

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-duet/pkg/types"
)

func allMessages() []Message {
	return []Message{
		&Identify{Hostname: "alpha", Username: "ann"},
		&Join{},
		&PickIdentity{Identity: types.IdentityRed, Tiebreak: 42},
		&Move{Cell: types.Cell{Column: 2, Row: 3}},
		&Quit{},
	}
}

// TestLookup 测试编解码表
func TestLookup(t *testing.T) {
	for _, name := range []string{CodecJSON, CodecByte, CodecProto} {
		c, err := Lookup(name)
		require.NoError(t, err)
		assert.Equal(t, name, c.Name())
	}

	_, err := Lookup("xml")
	assert.ErrorIs(t, err, ErrUnknownCodec)
	assert.Equal(t, []string{"byte", "json", "proto"}, Names())
}

// TestCodecs_EncodeDecode 测试每种编码对每种消息的往返
func TestCodecs_EncodeDecode(t *testing.T) {
	for _, name := range Names() {
		codec, err := Lookup(name)
		require.NoError(t, err)

		t.Run(name, func(t *testing.T) {
			for _, msg := range allMessages() {
				frame, err := codec.Encode(msg)
				require.NoError(t, err, msg.Kind().String())

				got, n, err := codec.Decode(frame)
				require.NoError(t, err)
				assert.Equal(t, len(frame), n)
				assert.Equal(t, msg, got)
			}
		})
	}
}

// TestCodecs_PartialFrame 测试不完整帧
func TestCodecs_PartialFrame(t *testing.T) {
	for _, name := range Names() {
		codec, _ := Lookup(name)
		frame, err := codec.Encode(&Identify{Hostname: "host", Username: "user"})
		require.NoError(t, err)

		for i := 0; i < len(frame); i++ {
			msg, n, err := codec.Decode(frame[:i])
			require.NoError(t, err, "%s prefix %d", name, i)
			assert.Nil(t, msg)
			assert.Zero(t, n)
		}
	}
}

// TestCodecs_Stream 测试多帧连续解码
func TestCodecs_Stream(t *testing.T) {
	for _, name := range Names() {
		codec, _ := Lookup(name)

		var stream []byte
		for _, msg := range allMessages() {
			frame, err := codec.Encode(msg)
			require.NoError(t, err)
			stream = append(stream, frame...)
		}

		var got []Message
		for len(stream) > 0 {
			msg, n, err := codec.Decode(stream)
			require.NoError(t, err)
			require.NotNil(t, msg)
			got = append(got, msg)
			stream = stream[n:]
		}
		assert.Equal(t, allMessages(), got, name)
	}
}

// TestByteCodec_Layout 测试紧凑编码的字节布局
func TestByteCodec_Layout(t *testing.T) {
	codec := ByteCodec{}

	frame, err := codec.Encode(&Move{Cell: types.Cell{Column: 2, Row: 3}})
	require.NoError(t, err)
	assert.Equal(t, []byte{4, 2, 3}, frame)

	frame, err = codec.Encode(&PickIdentity{Identity: types.IdentityRed, Tiebreak: 42})
	require.NoError(t, err)
	assert.Equal(t, []byte{3, 42, 'r'}, frame)

	frame, err = codec.Encode(&Join{})
	require.NoError(t, err)
	assert.Equal(t, []byte{2}, frame)

	frame, err = codec.Encode(&Identify{Hostname: "h", Username: "uu"})
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 1, 'h', 2, 'u', 'u'}, frame)
}

// TestByteCodec_Overflow 测试字段溢出
func TestByteCodec_Overflow(t *testing.T) {
	codec := ByteCodec{}

	_, err := codec.Encode(&PickIdentity{Identity: types.IdentityRed, Tiebreak: 256})
	assert.ErrorIs(t, err, ErrFieldOverflow)

	_, err = codec.Encode(&Move{Cell: types.Cell{Column: 300, Row: 0}})
	assert.ErrorIs(t, err, ErrFieldOverflow)

	_, err = codec.Encode(&Move{Cell: types.Cell{Column: -1, Row: 0}})
	assert.ErrorIs(t, err, ErrFieldOverflow)
}

// TestByteCodec_Truncate 测试过长的主机名被截断
func TestByteCodec_Truncate(t *testing.T) {
	codec := ByteCodec{}
	long := make([]byte, 300)
	for i := range long {
		long[i] = 'x'
	}

	frame, err := codec.Encode(&Identify{Hostname: string(long), Username: "u"})
	require.NoError(t, err)

	msg, _, err := codec.Decode(frame)
	require.NoError(t, err)
	assert.Len(t, msg.(*Identify).Hostname, 255)
}

// TestByteCodec_TruncateRuneBoundary 测试截断不拆开多字节字符
func TestByteCodec_TruncateRuneBoundary(t *testing.T) {
	codec := ByteCodec{}
	// 第 255 字节落在第 128 个 "é" 中间
	name := strings.Repeat("é", 130)

	frame, err := codec.Encode(&Identify{Hostname: name, Username: "u"})
	require.NoError(t, err)

	msg, _, err := codec.Decode(frame)
	require.NoError(t, err)
	host := msg.(*Identify).Hostname
	assert.True(t, utf8.ValidString(host))
	assert.Len(t, host, 254)
	assert.True(t, strings.HasPrefix(name, host))
}

// TestByteCodec_UnknownOpcode 测试未知操作码
func TestByteCodec_UnknownOpcode(t *testing.T) {
	_, _, err := ByteCodec{}.Decode([]byte{9, 1, 2})
	assert.ErrorIs(t, err, ErrUnknownOpcode)

	var decErr *DecodeError
	require.ErrorAs(t, err, &decErr)
	assert.Equal(t, CodecByte, decErr.Codec)
}

// TestJSONCodec_Layout 测试 JSON 对象形状
func TestJSONCodec_Layout(t *testing.T) {
	frame, err := JSONCodec{}.Encode(&Move{Cell: types.Cell{Column: 2, Row: 3}})
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 0, 0, 28}, frame[:4])
	assert.JSONEq(t, `{"type":"Move","cell":[2,3]}`, string(frame[4:]))

	frame, err = JSONCodec{}.Encode(&PickIdentity{Identity: types.IdentityBlue, Tiebreak: 0})
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"PickIdentity","identity":"b","tiebreak":0}`, string(frame[4:]))
}

// TestJSONCodec_Malformed 测试格式错误
func TestJSONCodec_Malformed(t *testing.T) {
	frame := func(body string) []byte {
		out := []byte{0, 0, 0, byte(len(body))}
		return append(out, body...)
	}

	_, _, err := JSONCodec{}.Decode(frame(`{not json`))
	assert.ErrorIs(t, err, ErrMalformed)

	_, _, err = JSONCodec{}.Decode(frame(`{"type":"Dance"}`))
	assert.ErrorIs(t, err, ErrUnknownOpcode)

	_, _, err = JSONCodec{}.Decode(frame(`{"type":"Move"}`))
	assert.ErrorIs(t, err, ErrMalformed)

	_, _, err = JSONCodec{}.Decode([]byte{0xff, 0xff, 0xff, 0xff})
	assert.ErrorIs(t, err, ErrFrameTooLarge)
}

// TestProtoCodec_Malformed 测试 proto 格式错误
func TestProtoCodec_Malformed(t *testing.T) {
	_, _, err := ProtoCodec{}.Decode([]byte{2, 0x08, 0x09})
	assert.ErrorIs(t, err, ErrUnknownOpcode)

	_, _, err = ProtoCodec{}.Decode([]byte{2, 0x08, 0x04})
	assert.ErrorIs(t, err, ErrMalformed)

	_, _, err = ProtoCodec{}.Decode([]byte{1, 0xff})
	assert.ErrorIs(t, err, ErrMalformed)
}

// TestCodec_MaxTiebreak 测试决胜数上限
func TestCodec_MaxTiebreak(t *testing.T) {
	assert.Equal(t, 999, JSONCodec{}.MaxTiebreak())
	assert.Equal(t, 255, ByteCodec{}.MaxTiebreak())
	assert.Equal(t, 999, ProtoCodec{}.MaxTiebreak())
}

// TestDescribe 测试日志摘要
func TestDescribe(t *testing.T) {
	assert.Equal(t, "Move(2,3)", Describe(&Move{Cell: types.Cell{Column: 2, Row: 3}}))
	assert.Equal(t, "PickIdentity(red:42)", Describe(&PickIdentity{Identity: types.IdentityRed, Tiebreak: 42}))
	assert.Equal(t, "Quit", Describe(&Quit{}))
	assert.Equal(t, "Kind(9)", Kind(9).String())
}
