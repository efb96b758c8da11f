package addrutil

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsLANIP(t *testing.T) {
	assert.True(t, IsLANIP(net.ParseIP("192.168.1.10")))
	assert.True(t, IsLANIP(net.ParseIP("10.0.0.2")))
	assert.True(t, IsLANIP(net.ParseIP("fe80::1")))
	assert.False(t, IsLANIP(net.ParseIP("127.0.0.1")))
	assert.False(t, IsLANIP(net.ParseIP("8.8.8.8")))
	assert.False(t, IsLANIP(net.ParseIP("100.64.1.1")))
	assert.False(t, IsLANIP(nil))
}

func TestScoreLANIP(t *testing.T) {
	assert.Greater(t, scoreLANIP(net.ParseIP("192.168.1.1")), scoreLANIP(net.ParseIP("10.1.1.1")))
	assert.Greater(t, scoreLANIP(net.ParseIP("10.1.1.1")), scoreLANIP(net.ParseIP("172.16.0.1")))
	assert.Zero(t, scoreLANIP(net.ParseIP("1.1.1.1")))
}

// TestPairKey 测试两端计算出相同的键
func TestPairKey(t *testing.T) {
	a := PairKey("10.0.0.1:5000", "10.0.0.2:8223")
	b := PairKey("10.0.0.2:8223", "10.0.0.1:5000")
	assert.Equal(t, a, b)
	assert.Equal(t, "10.0.0.1:5000|10.0.0.2:8223", a)
}

func TestHostIP(t *testing.T) {
	assert.Equal(t, "10.0.0.1", HostIP("10.0.0.1:8223").String())
	assert.Equal(t, "::1", HostIP("[::1]:8223").String())
	assert.True(t, IsLoopbackAddr("127.0.0.1:1"))
	assert.Nil(t, HostIP("pipe:1/a"))
	assert.Equal(t, "10.0.0.1:8223", JoinHostPort(net.ParseIP("10.0.0.1"), 8223))
}

func TestIsVirtualInterface(t *testing.T) {
	assert.True(t, IsVirtualInterface("docker0"))
	assert.True(t, IsVirtualInterface("utun3"))
	assert.False(t, IsVirtualInterface("eth0"))
	assert.False(t, IsVirtualInterface("en0"))
}
