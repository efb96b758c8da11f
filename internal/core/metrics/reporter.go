package metrics

import "time"

// Reporter 记录和检索信道流量
type Reporter interface {
	// LogSent 记录一帧出站数据
	LogSent(size int64, kind string, remote string)

	// LogRecv 记录一帧入站数据
	LogRecv(size int64, kind string, remote string)

	// GetBandwidthForRemote 获取单个对端的带宽统计
	GetBandwidthForRemote(remote string) Stats

	// GetBandwidthForKind 获取单种消息的带宽统计
	GetBandwidthForKind(kind string) Stats

	// GetBandwidthTotals 获取总带宽统计
	GetBandwidthTotals() Stats

	// GetBandwidthByRemote 获取所有对端的带宽统计
	GetBandwidthByRemote() map[string]Stats

	// GetBandwidthByKind 获取所有消息种类的带宽统计
	GetBandwidthByKind() map[string]Stats

	// Reset 重置所有统计
	Reset()

	// TrimIdle 清理 since 之后无活动的统计
	TrimIdle(since time.Time)
}

var _ Reporter = (*BandwidthCounter)(nil)
