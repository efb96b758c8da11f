package rendezvous

import (
	"os"
	"os/user"

	"github.com/dep2p/go-duet/internal/core/wire"
)

// LocalIdentify 用本机主机名和登录用户构造 Identify
func LocalIdentify() wire.Identify {
	id := wire.Identify{Hostname: "unknown", Username: "player"}
	if h, err := os.Hostname(); err == nil && h != "" {
		id.Hostname = h
	}
	if u, err := user.Current(); err == nil && u.Username != "" {
		id.Username = u.Username
	} else if name := os.Getenv("USER"); name != "" {
		id.Username = name
	}
	return id
}
