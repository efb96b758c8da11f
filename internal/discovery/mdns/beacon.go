package mdns

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/hashicorp/mdns"

	"github.com/dep2p/go-duet/internal/util/addrutil"
	"github.com/dep2p/go-duet/internal/util/logger"
	pkgif "github.com/dep2p/go-duet/pkg/interfaces"
)

var log = logger.Logger("discovery.mdns")

// Beacon mDNS 信标
type Beacon struct {
	cfg   Config
	nonce string

	mu     sync.Mutex
	server *mdns.Server
	closed bool
}

var _ pkgif.Beacon = (*Beacon)(nil)

// New 创建 mDNS 信标
func New(cfg Config, opts ...ConfigOption) (*Beacon, error) {
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Clock == nil {
		cfg.Clock = DefaultConfig().Clock
	}
	if cfg.Domain == "" {
		cfg.Domain = DefaultDomain
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Beacon{
		cfg:   cfg,
		nonce: uuid.NewString(),
	}, nil
}

// Nonce 返回本进程标识
func (b *Beacon) Nonce() string {
	return b.nonce
}

// Announce 注册服务实例直到 ctx 取消
func (b *Beacon) Announce(ctx context.Context) error {
	ips, err := addrutil.LANIPs()
	if err != nil {
		return fmt.Errorf("list local addresses: %w", err)
	}
	if len(ips) == 0 {
		log.Debug("未找到局域网地址，由 mdns 库解析主机名")
		ips = nil
	}

	instance := "duet-" + b.nonce[:8]
	service, err := mdns.NewMDNSService(
		instance,
		b.cfg.ServiceTag,
		b.cfg.Domain,
		"",
		b.cfg.TCPPort,
		ips,
		[]string{NonceTXTPrefix + b.nonce},
	)
	if err != nil {
		return fmt.Errorf("create mdns service: %w", err)
	}

	server, err := mdns.NewServer(&mdns.Config{Zone: service})
	if err != nil {
		return fmt.Errorf("start mdns server: %w", err)
	}

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		_ = server.Shutdown()
		return nil
	}
	b.server = server
	b.mu.Unlock()

	log.Info("mDNS 服务已注册", "instance", instance, "port", b.cfg.TCPPort)

	<-ctx.Done()
	return b.shutdownServer()
}

// Listen 每 QueryInterval 查询一次同类服务
func (b *Beacon) Listen(ctx context.Context, found func(pkgif.Sighting)) error {
	ticker := b.cfg.Clock.Ticker(b.cfg.QueryInterval)
	defer ticker.Stop()

	for {
		if err := b.query(ctx, found); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// Close 注销服务实例（幂等）
func (b *Beacon) Close() error {
	b.mu.Lock()
	b.closed = true
	b.mu.Unlock()
	return b.shutdownServer()
}

func (b *Beacon) shutdownServer() error {
	b.mu.Lock()
	server := b.server
	b.server = nil
	b.mu.Unlock()

	if server == nil {
		return nil
	}
	return server.Shutdown()
}

// query 执行一次查询
func (b *Beacon) query(ctx context.Context, found func(pkgif.Sighting)) error {
	entries := make(chan *mdns.ServiceEntry, 16)
	done := make(chan struct{})

	go func() {
		defer close(done)
		for entry := range entries {
			if ctx.Err() != nil {
				continue
			}
			if s, ok := b.sightingFrom(entry); ok {
				found(s)
			}
		}
	}()

	err := mdns.Query(&mdns.QueryParam{
		Service:     b.cfg.ServiceTag,
		Domain:      strings.TrimSuffix(b.cfg.Domain, "."),
		Timeout:     b.cfg.QueryTimeout,
		Entries:     entries,
		DisableIPv6: true,
	})
	close(entries)
	<-done

	if err != nil {
		return fmt.Errorf("mdns query: %w", err)
	}
	return nil
}

// sightingFrom 从服务条目提取外部广告
func (b *Beacon) sightingFrom(entry *mdns.ServiceEntry) (pkgif.Sighting, bool) {
	if entry == nil || entry.AddrV4 == nil || entry.Port <= 0 {
		return pkgif.Sighting{}, false
	}

	nonce := nonceFromTXT(entry.InfoFields)
	if nonce == "" || nonce == b.nonce {
		return pkgif.Sighting{}, false
	}

	return pkgif.Sighting{IP: entry.AddrV4, Port: entry.Port, Nonce: nonce}, true
}

// nonceFromTXT 从 TXT 字段中取出 nonce
func nonceFromTXT(fields []string) string {
	for _, f := range fields {
		if strings.HasPrefix(f, NonceTXTPrefix) {
			return strings.TrimPrefix(f, NonceTXTPrefix)
		}
	}
	return ""
}
