// Package addrutil 提供地址解析与局域网地址选择工具
package addrutil

import (
	"net"
	"sort"
	"strconv"
	"strings"
)

// ============================================================================
//                              IP 类型判断工具
// ============================================================================

// HostIP 从 host:port 字符串中提取 IP
func HostIP(addr string) net.IP {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		host = addr
	}
	return net.ParseIP(strings.Trim(host, "[]"))
}

// IsLoopbackAddr 判断 host:port 是否是回环地址
func IsLoopbackAddr(addr string) bool {
	ip := HostIP(addr)
	return ip != nil && ip.IsLoopback()
}

// IsLANIP 判断是否为局域网可达 IP（RFC1918/ULA/链路本地）
//
// 已知的 VPN/隧道/CGNAT 地址段即使是私网也被排除。
func IsLANIP(ip net.IP) bool {
	if ip == nil || ip.IsLoopback() || ip.IsUnspecified() {
		return false
	}
	if isNonRoutableIP(ip) {
		return false
	}
	return ip.IsPrivate() || ip.IsLinkLocalUnicast()
}

// JoinHostPort 拼接 IP 和端口
func JoinHostPort(ip net.IP, port int) string {
	return net.JoinHostPort(ip.String(), strconv.Itoa(port))
}

// PairKey 返回一条连接两端地址的有序组合
//
// 连接两端各自计算的结果相同，可用作全局可比较的键。
func PairKey(local, remote string) string {
	if remote < local {
		local, remote = remote, local
	}
	return local + "|" + remote
}

// ============================================================================
//                              本机地址
// ============================================================================

// LANIPs 返回本机可用于广告的局域网 IPv4 地址（按优先级排序）
//
// 跳过回环、未启用和虚拟网卡；192.168.x > 10.x > 172.16-31.x。
func LANIPs() ([]net.IP, error) {
	type scoredIP struct {
		ip    net.IP
		score int
	}
	var scored []scoredIP

	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, err
	}

	for _, iface := range ifaces {
		if iface.Flags&net.FlagLoopback != 0 || iface.Flags&net.FlagUp == 0 {
			continue
		}
		if IsVirtualInterface(iface.Name) {
			continue
		}

		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}
		for _, addr := range addrs {
			ipNet, ok := addr.(*net.IPNet)
			if !ok {
				continue
			}
			ip4 := ipNet.IP.To4()
			if ip4 == nil {
				continue
			}
			if score := scoreLANIP(ip4); score > 0 {
				scored = append(scored, scoredIP{ip: ip4, score: score})
			}
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})

	ips := make([]net.IP, len(scored))
	for i, s := range scored {
		ips[i] = s.ip
	}
	return ips, nil
}

// scoreLANIP 局域网 IP 优先级，0 表示不可用
func scoreLANIP(ip net.IP) int {
	if !IsLANIP(ip) {
		return 0
	}
	ip4 := ip.To4()
	switch {
	case ip4 == nil:
		return 1
	case ip4[0] == 192 && ip4[1] == 168:
		return 4
	case ip4[0] == 10:
		return 3
	case ip4[0] == 172 && ip4[1] >= 16 && ip4[1] <= 31:
		return 2
	default:
		return 1
	}
}

// ============================================================================
//                              网卡和地址过滤
// ============================================================================

// virtualInterfacePrefixes 虚拟网卡前缀
var virtualInterfacePrefixes = []string{
	"utun", "ipsec", "awdl", "llw", "bridge",
	"docker", "br-", "veth", "virbr", "vboxnet", "vmnet",
	"tun", "tap", "dummy", "tailscale", "wg",
}

// IsVirtualInterface 判断网卡是否为虚拟网卡（VPN、容器、虚拟机等）
func IsVirtualInterface(name string) bool {
	lower := strings.ToLower(name)
	for _, prefix := range virtualInterfacePrefixes {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	return false
}

// nonRoutableCIDRs VPN、CGNAT、测试网段
var nonRoutableCIDRs = []string{
	"198.18.0.0/15",
	"198.51.100.0/24",
	"203.0.113.0/24",
	"100.64.0.0/10",
}

var parsedNonRoutableCIDRs []*net.IPNet

func init() {
	for _, cidr := range nonRoutableCIDRs {
		if _, ipNet, err := net.ParseCIDR(cidr); err == nil {
			parsedNonRoutableCIDRs = append(parsedNonRoutableCIDRs, ipNet)
		}
	}
}

func isNonRoutableIP(ip net.IP) bool {
	for _, ipNet := range parsedNonRoutableCIDRs {
		if ipNet.Contains(ip) {
			return true
		}
	}
	return false
}
