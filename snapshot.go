package voltnet

import (
	"context"
	"sync"
	"time"

	"github.com/go-enols/go-log"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

// Snapshot 仪表盘展示用的状态快照
// Err非空表示上一轮刷新失败 此时State还是上一次成功的数据
type Snapshot struct {
	State         *LotteryState `json:"state"`
	VaultLamports uint64        `json:"vaultLamports"`
	FetchedAt     time.Time     `json:"fetchedAt"`
	Err           string        `json:"err,omitempty"`
}

// SnapshotCache 定时刷新的展示层缓存
// 覆盖写 后到的为准 没有任何合并逻辑
type SnapshotCache struct {
	mu       sync.RWMutex
	cur      Snapshot
	interval time.Duration
	fetch    func(ctx context.Context) (*LotteryState, uint64, error)
}

// NewSnapshotCache 构建指向链上状态的快照缓存
func NewSnapshotCache(client *rpc.Client, programID solana.PublicKey, interval time.Duration) *SnapshotCache {
	return &SnapshotCache{
		interval: interval,
		fetch: func(ctx context.Context) (*LotteryState, uint64, error) {
			state, err := FetchLotteryState(ctx, client, programID)
			if err != nil {
				return nil, 0, err
			}
			out, err := client.GetBalance(ctx, state.Vault, rpc.CommitmentConfirmed)
			if err != nil {
				return nil, 0, err
			}
			return state, out.Value, nil
		},
	}
}

// Run 周期刷新直到ctx取消 进场先刷一次
func (c *SnapshotCache) Run(ctx context.Context) {
	c.Refresh(ctx)
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.Refresh(ctx)
		}
	}
}

// Refresh 拉取一次并覆盖当前快照
// 失败只记录错误状态 保留上一次成功的数据 进程不会因此退出
func (c *SnapshotCache) Refresh(ctx context.Context) {
	state, vault, err := c.fetch(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		log.Printf("刷新快照失败 | %s", err)
		c.cur.Err = err.Error()
		return
	}
	c.cur = Snapshot{
		State:         state,
		VaultLamports: vault,
		FetchedAt:     time.Now(),
	}
}

// Latest 读取当前快照
func (c *SnapshotCache) Latest() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cur
}

// BumpVault 购票后的乐观更新 只改本地展示
// 下一轮刷新会用链上数据整个覆盖掉
func (c *SnapshotCache) BumpVault(lamports uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cur.VaultLamports += lamports
}
