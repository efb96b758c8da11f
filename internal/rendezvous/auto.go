package rendezvous

import (
	"github.com/samber/lo"

	"github.com/dep2p/go-duet/pkg/types"
)

// AutoPick 无人值守时选择要邀请或接受的候选
//
// 两端按同一个排序键比较候选，最终在同一条连接上汇合：
//   - 尚未邀请任何人时，优先接受对方的邀请，否则邀请键最小的已识别候选
//   - 已邀请 X 时，只接受键小于 X 的邀请
func AutoPick(views []CandidateView) (string, bool) {
	invited, hasInvited := lo.Find(views, func(v CandidateView) bool {
		return v.State == types.CandidateInvited
	})

	invitedMe := lo.Filter(views, func(v CandidateView, _ int) bool {
		return v.State == types.CandidateInvitedMe
	})
	if len(invitedMe) > 0 {
		best := lo.MinBy(invitedMe, func(a, b CandidateView) bool { return a.Key < b.Key })
		if !hasInvited || best.Key < invited.Key {
			return best.ID, true
		}
	}
	if hasInvited {
		return "", false
	}

	identified := lo.Filter(views, func(v CandidateView, _ int) bool {
		return v.State == types.CandidateIdentified
	})
	if len(identified) == 0 {
		return "", false
	}
	best := lo.MinBy(identified, func(a, b CandidateView) bool { return a.Key < b.Key })
	return best.ID, true
}

// AutoInvite 按 AutoPick 的策略邀请或接受一个候选
//
// 没有合适的候选时返回空 id。
func (c *Controller) AutoInvite() (string, error) {
	if c.Done() {
		return "", nil
	}
	id, ok := AutoPick(c.Candidates())
	if !ok {
		return "", nil
	}
	return id, c.Invite(id)
}
