package voltnet

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedFetch 按调用顺序返回预置结果
type scriptedFetch struct {
	states []*LotteryState
	vaults []uint64
	errs   []error
	calls  int
}

func (s *scriptedFetch) fetch(ctx context.Context) (*LotteryState, uint64, error) {
	i := s.calls
	s.calls++
	if i < len(s.errs) && s.errs[i] != nil {
		return nil, 0, s.errs[i]
	}
	return s.states[i], s.vaults[i], nil
}

func TestSnapshotLastFetchWins(t *testing.T) {
	script := &scriptedFetch{
		states: []*LotteryState{{Epoch: 1}, {Epoch: 2}},
		vaults: []uint64{100, 250},
	}
	cache := &SnapshotCache{interval: time.Second, fetch: script.fetch}

	cache.Refresh(context.Background())
	snap := cache.Latest()
	require.NotNil(t, snap.State)
	assert.Equal(t, uint64(1), snap.State.Epoch)
	assert.Equal(t, uint64(100), snap.VaultLamports)

	// 第二次刷新整个覆盖 没有合并
	cache.Refresh(context.Background())
	snap = cache.Latest()
	assert.Equal(t, uint64(2), snap.State.Epoch)
	assert.Equal(t, uint64(250), snap.VaultLamports)
	assert.Empty(t, snap.Err)
}

func TestSnapshotKeepsLastGoodOnError(t *testing.T) {
	script := &scriptedFetch{
		states: []*LotteryState{{Epoch: 3}, nil},
		vaults: []uint64{500, 0},
		errs:   []error{nil, errors.New("rpc unreachable")},
	}
	cache := &SnapshotCache{interval: time.Second, fetch: script.fetch}

	cache.Refresh(context.Background())
	cache.Refresh(context.Background())

	snap := cache.Latest()
	// 错误只标记 不清掉上一次成功的数据
	assert.Equal(t, "rpc unreachable", snap.Err)
	require.NotNil(t, snap.State)
	assert.Equal(t, uint64(3), snap.State.Epoch)
	assert.Equal(t, uint64(500), snap.VaultLamports)
}

func TestSnapshotOptimisticBumpDiscardedOnRefresh(t *testing.T) {
	script := &scriptedFetch{
		states: []*LotteryState{{Epoch: 1}, {Epoch: 1}},
		vaults: []uint64{100, 100},
	}
	cache := &SnapshotCache{interval: time.Second, fetch: script.fetch}

	cache.Refresh(context.Background())
	cache.BumpVault(42)
	assert.Equal(t, uint64(142), cache.Latest().VaultLamports)

	// 乐观更新只活到下一轮刷新
	cache.Refresh(context.Background())
	assert.Equal(t, uint64(100), cache.Latest().VaultLamports)
}
