// Package direct 实现按地址直连的会合方式
//
// 一方 Listen 等待恰好一个客户端，另一方 Connect 到已知地址。
// 两者都只产生一个信道或失败，不经过候选选择。
// Joiner 把这两个阻塞调用放到后台，轮询线程通过 Poll 取结果。
package direct
