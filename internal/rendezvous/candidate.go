package rendezvous

import (
	"github.com/dep2p/go-duet/internal/util/addrutil"
	pkgif "github.com/dep2p/go-duet/pkg/interfaces"
	"github.com/dep2p/go-duet/pkg/types"
)

// Candidate 一个候选连接
type Candidate struct {
	ID      string
	Channel pkgif.Channel

	RemoteUser string
	RemoteHost string

	IdentitySent     bool
	IdentityReceived bool
	IInvitedThem     bool
	TheyInvitedMe    bool

	State types.CandidateState
	Err   error

	// key 两端一致的排序键
	key   string
	ready bool
}

func newCandidate(id string, ch pkgif.Channel) *Candidate {
	return &Candidate{
		ID:      id,
		Channel: ch,
		State:   types.CandidateConnecting,
		key:     addrutil.PairKey(ch.LocalAddr(), ch.RemoteAddr()),
	}
}

// view 返回快照
func (c *Candidate) view() CandidateView {
	return CandidateView{
		ID:            c.ID,
		RemoteAddr:    c.Channel.RemoteAddr(),
		RemoteUser:    c.RemoteUser,
		RemoteHost:    c.RemoteHost,
		State:         c.State,
		IInvitedThem:  c.IInvitedThem,
		TheyInvitedMe: c.TheyInvitedMe,
		Key:           c.key,
	}
}

// CandidateView 候选快照（供界面使用）
type CandidateView struct {
	ID            string
	RemoteAddr    string
	RemoteUser    string
	RemoteHost    string
	State         types.CandidateState
	IInvitedThem  bool
	TheyInvitedMe bool

	// Key 两端一致的连接排序键
	Key string
}

// Invitable 是否可以邀请或接受
func (v CandidateView) Invitable() bool {
	switch v.State {
	case types.CandidateIdentified, types.CandidateInvitedMe:
		return true
	default:
		return false
	}
}

// Label 返回界面显示文本
func (v CandidateView) Label() string {
	who := v.RemoteUser + " on " + v.RemoteHost
	switch v.State {
	case types.CandidateConnecting:
		return "Connected to " + v.RemoteAddr
	case types.CandidateIdentified:
		return who + " (invite)"
	case types.CandidateInvited:
		return "Waiting for " + who + " to accept"
	case types.CandidateInvitedMe:
		return who + " wants to play (accept)"
	case types.CandidateSelected:
		return who + " accepted!"
	case types.CandidateFailed:
		return "Connection to " + v.RemoteAddr + " failed"
	default:
		return "Connection to " + v.RemoteAddr + " closed"
	}
}
