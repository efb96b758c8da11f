package types

// ============================================================================
//                              CandidateState - 候选连接状态
// ============================================================================

// CandidateState 候选连接状态
type CandidateState int

const (
	// CandidateConnecting 已建立连接，尚未收到对方 Identify
	CandidateConnecting CandidateState = iota
	// CandidateIdentified 已收到对方 Identify
	CandidateIdentified
	// CandidateInvited 本方已发出邀请，等待对方 Join
	CandidateInvited
	// CandidateInvitedMe 对方已发出邀请
	CandidateInvitedMe
	// CandidateSelected 已被选为唯一信道
	CandidateSelected
	// CandidateClosed 信道已关闭
	CandidateClosed
	// CandidateFailed 协议错误
	CandidateFailed
)

// String 返回状态名称
func (s CandidateState) String() string {
	switch s {
	case CandidateConnecting:
		return "connecting"
	case CandidateIdentified:
		return "identified"
	case CandidateInvited:
		return "invited"
	case CandidateInvitedMe:
		return "invited-me"
	case CandidateSelected:
		return "selected"
	case CandidateClosed:
		return "closed"
	case CandidateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Live 是否仍需轮询
func (s CandidateState) Live() bool {
	return s < CandidateSelected
}

// ============================================================================
//                              EndReason - 对局结束原因
// ============================================================================

// EndReason 对局结束原因
type EndReason int

const (
	// EndNone 尚未结束
	EndNone EndReason = iota
	// EndLocalQuit 本方主动退出
	EndLocalQuit
	// EndOpponentQuit 对方退出
	EndOpponentQuit
	// EndChannelLost 信道关闭
	EndChannelLost
	// EndProtocolError 协议错误
	EndProtocolError
)

// String 返回结束原因
func (r EndReason) String() string {
	switch r {
	case EndNone:
		return "none"
	case EndLocalQuit:
		return "local-quit"
	case EndOpponentQuit:
		return "opponent-quit"
	case EndChannelLost:
		return "channel-lost"
	case EndProtocolError:
		return "protocol-error"
	default:
		return "unknown"
	}
}

// ============================================================================
//                              Phase - 应用阶段
// ============================================================================

// Phase 应用阶段
type Phase int

const (
	// PhaseJoining 寻找对手
	PhaseJoining Phase = iota
	// PhaseArbitrating 仲裁先手与身份
	PhaseArbitrating
	// PhasePlaying 对局中
	PhasePlaying
	// PhaseFinished 已结束
	PhaseFinished
)

// String 返回阶段名称
func (p Phase) String() string {
	switch p {
	case PhaseJoining:
		return "joining"
	case PhaseArbitrating:
		return "arbitrating"
	case PhasePlaying:
		return "playing"
	case PhaseFinished:
		return "finished"
	default:
		return "unknown"
	}
}
