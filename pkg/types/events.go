package types

import (
	"time"
)

// ============================================================================
//                              Event - 事件接口
// ============================================================================

// Event 基础事件接口
type Event interface {
	// Type 返回事件类型
	Type() string

	// Timestamp 返回事件时间戳
	Timestamp() time.Time
}

// BaseEvent 基础事件实现
type BaseEvent struct {
	EventType string
	Time      time.Time
}

// Type 返回事件类型
func (e BaseEvent) Type() string {
	return e.EventType
}

// Timestamp 返回事件时间戳
func (e BaseEvent) Timestamp() time.Time {
	return e.Time
}

// NewBaseEvent 创建基础事件
func NewBaseEvent(eventType string) BaseEvent {
	return BaseEvent{
		EventType: eventType,
		Time:      time.Now(),
	}
}

// 事件类型常量
const (
	EventTypeCandidateChanged = "rendezvous.candidate_changed"
	EventTypeSelected         = "rendezvous.selected"
	EventTypeDiscoveryFault   = "discovery.fault"
	EventTypeTurnChanged      = "session.turn_changed"
	EventTypeSessionEnded     = "session.ended"
	EventTypePhaseChanged     = "app.phase_changed"
)

// ============================================================================
//                              会合事件
// ============================================================================

// EvtCandidateChanged 候选连接状态变化
type EvtCandidateChanged struct {
	BaseEvent
	CandidateID string
	RemoteAddr  string
	RemoteUser  string
	RemoteHost  string
	State       CandidateState
}

// EvtSelected 唯一信道已选定
type EvtSelected struct {
	BaseEvent
	CandidateID string
	RemoteAddr  string
	RemoteUser  string
}

// EvtDiscoveryFault 发现服务后台故障
type EvtDiscoveryFault struct {
	BaseEvent
	Op  string
	Err error
}

// ============================================================================
//                              对局事件
// ============================================================================

// EvtTurnChanged 回合切换
type EvtTurnChanged struct {
	BaseEvent
	State string
	Moves int
	// Cell 触发切换的落子（本方视角）
	Cell Cell
	By   Side
}

// EvtSessionEnded 对局结束
type EvtSessionEnded struct {
	BaseEvent
	Reason EndReason
	Err    error
}

// EvtPhaseChanged 应用阶段变化
type EvtPhaseChanged struct {
	BaseEvent
	From Phase
	To   Phase
}
