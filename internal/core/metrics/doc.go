// Package metrics 统计信道流量
//
// BandwidthCounter 按对端地址和消息种类累计入站/出站字节，
// 并用 60 秒滑动窗口计算速率。信道在每次写出和解码一帧后调用 Reporter。
//
//	reporter := metrics.NewBandwidthCounter()
//	ch := channel.New(conn, codec, channel.WithReporter(reporter))
//	reporter.GetBandwidthForRemote(ch.RemoteAddr())
package metrics
