package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestIdentity_String 测试身份名称
func TestIdentity_String(t *testing.T) {
	assert.Equal(t, "red", IdentityRed.String())
	assert.Equal(t, "green", IdentityGreen.String())
	assert.Equal(t, "blue", IdentityBlue.String())
	assert.Equal(t, "y", Identity('y').String())
	assert.Equal(t, "none", IdentityNone.String())
}

// TestParseIdentity 测试身份解析
func TestParseIdentity(t *testing.T) {
	id, err := ParseIdentity("red")
	require.NoError(t, err)
	assert.Equal(t, IdentityRed, id)

	id, err = ParseIdentity("b")
	require.NoError(t, err)
	assert.Equal(t, IdentityBlue, id)

	_, err = ParseIdentity("")
	assert.ErrorIs(t, err, ErrInvalidIdentity)

	_, err = ParseIdentity("purple")
	assert.ErrorIs(t, err, ErrInvalidIdentity)
}

// TestPickValue_CollidesWith 测试冲突判定
func TestPickValue_CollidesWith(t *testing.T) {
	red42 := PickValue{Identity: IdentityRed, Tiebreak: 42}

	assert.False(t, red42.CollidesWith(PickValue{Identity: IdentityBlue, Tiebreak: 17}))
	assert.True(t, red42.CollidesWith(PickValue{Identity: IdentityRed, Tiebreak: 9}))
	assert.True(t, red42.CollidesWith(PickValue{Identity: IdentityGreen, Tiebreak: 42}))
}

func TestSide_Opposite(t *testing.T) {
	assert.Equal(t, SideRemote, SideLocal.Opposite())
	assert.Equal(t, SideLocal, SideRemote.Opposite())
}

func TestEnums_String(t *testing.T) {
	assert.Equal(t, "invited-me", CandidateInvitedMe.String())
	assert.True(t, CandidateIdentified.Live())
	assert.False(t, CandidateClosed.Live())
	assert.Equal(t, "opponent-quit", EndOpponentQuit.String())
	assert.Equal(t, "arbitrating", PhaseArbitrating.String())
}
