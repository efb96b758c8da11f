package rendezvous

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dep2p/go-duet/internal/core/wire"
	"github.com/dep2p/go-duet/pkg/types"
)

func view(id, key string, state types.CandidateState) CandidateView {
	return CandidateView{ID: id, Key: key, State: state}
}

// TestAutoPick 测试无人值守策略
func TestAutoPick(t *testing.T) {
	tests := []struct {
		name   string
		views  []CandidateView
		wantID string
		wantOK bool
	}{
		{
			name:  "没有候选",
			views: nil,
		},
		{
			name:  "只有未识别的连接",
			views: []CandidateView{view("c1", "a", types.CandidateConnecting)},
		},
		{
			name: "邀请键最小的已识别候选",
			views: []CandidateView{
				view("c1", "b", types.CandidateIdentified),
				view("c2", "a", types.CandidateIdentified),
			},
			wantID: "c2", wantOK: true,
		},
		{
			name: "优先接受邀请",
			views: []CandidateView{
				view("c1", "a", types.CandidateIdentified),
				view("c2", "z", types.CandidateInvitedMe),
			},
			wantID: "c2", wantOK: true,
		},
		{
			name: "已邀请时接受更小键的邀请",
			views: []CandidateView{
				view("c1", "m", types.CandidateInvited),
				view("c2", "c", types.CandidateInvitedMe),
			},
			wantID: "c2", wantOK: true,
		},
		{
			name: "已邀请时忽略更大键的邀请",
			views: []CandidateView{
				view("c1", "m", types.CandidateInvited),
				view("c2", "x", types.CandidateInvitedMe),
				view("c3", "a", types.CandidateIdentified),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := AutoPick(tt.views)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantID, id)
		})
	}
}

// TestController_AutoInvite 测试两个无人值守的控制器汇合
func TestController_AutoInvite(t *testing.T) {
	srcA, srcB := &fakeSource{}, &fakeSource{}
	a := NewController(srcA, alice)
	b := NewController(srcB, bob)

	for i := 0; i < 3; i++ {
		endA, endB := testPipe(wire.JSONCodec{})
		t.Cleanup(func() {
			_ = endA.Close()
			_ = endB.Close()
		})
		srcA.add(endA)
		srcB.add(endB)
	}

	tickUntil(t, func() bool {
		_, _ = a.AutoInvite()
		_, _ = b.AutoInvite()
		return a.Done() && b.Done()
	}, a, b)

	chA, okA := a.Selected()
	chB, okB := b.Selected()
	assert.True(t, okA)
	assert.True(t, okB)
	assert.Equal(t, chA.LocalAddr(), chB.RemoteAddr())
}
