package broadcast

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// advertPrefix 数据报前缀（协议名/版本）
const advertPrefix = "DUET/1"

// ErrBadAdvert 无法解析的数据报
var ErrBadAdvert = errors.New("broadcast: bad advert")

// FormatAdvert 编码广告数据报
func FormatAdvert(nonce string, tcpPort int) []byte {
	return []byte(fmt.Sprintf("%s %s %d", advertPrefix, nonce, tcpPort))
}

// ParseAdvert 解析广告数据报
func ParseAdvert(b []byte) (nonce string, tcpPort int, err error) {
	fields := strings.Fields(string(b))
	if len(fields) != 3 || fields[0] != advertPrefix {
		return "", 0, ErrBadAdvert
	}
	port, err := strconv.Atoi(fields[2])
	if err != nil || port <= 0 || port > 65535 {
		return "", 0, ErrBadAdvert
	}
	return fields[1], port, nil
}
