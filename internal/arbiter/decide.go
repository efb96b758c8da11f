package arbiter

import "github.com/dep2p/go-duet/pkg/types"

// Decide 根据双方取值得出仲裁结果
//
// 冲突返回 ErrCollision。本方决胜数较大时本方先手。
func Decide(local, remote types.PickValue) (types.Arbitration, error) {
	if local.CollidesWith(remote) {
		return types.Arbitration{}, ErrCollision
	}

	first := types.SideRemote
	if local.Tiebreak > remote.Tiebreak {
		first = types.SideLocal
	}
	return types.Arbitration{
		Local:      local.Identity,
		Remote:     remote.Identity,
		FirstMover: first,
	}, nil
}

// ResolveLocal 在进程内为本方与本地对手仲裁
//
// 两个取值来源轮流取值直到不冲突，超过 maxAttempts 次返回 ErrTooManyCollisions。
func ResolveLocal(local, remote Picker, maxAttempts int) (types.Arbitration, error) {
	for i := 0; i < maxAttempts; i++ {
		result, err := Decide(local(), remote())
		if err == nil {
			return result, nil
		}
	}
	return types.Arbitration{}, ErrTooManyCollisions
}
