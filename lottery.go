package voltnet

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-enols/go-log"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

var ErrDrawClosed = errors.New("draw is closed")

// sender 提交通道的最小接口 测试时替换成假实现
type sender interface {
	SendInstructions(ctx context.Context, instruction []solana.Instruction) (solana.Signature, error)
}

// Lottery 把地址推导+状态读取+指令构造+提交串成一条直线流程
// 没有状态机也没有并发 每次调用都从新鲜输入推导所需的一切
type Lottery struct {
	cfg    *Config
	wallet *Wallet
	send   sender
	client *rpc.Client
}

func NewLottery(cfg *Config, wallet *Wallet) *Lottery {
	return &Lottery{
		cfg:    cfg,
		wallet: wallet,
		send:   wallet,
		client: wallet.GetClient(),
	}
}

// InitializeParams initialize的全部参数 中奖/滚存分成不开放配置
type InitializeParams struct {
	TicketPriceLamports uint64
	PlatformFeeBps      uint16
	RakeBps             uint16
	WithdrawalFeeBps    uint16
}

// Initialize 创建彩票的全局状态和金库账户
func (l *Lottery) Initialize(ctx context.Context, params InitializeParams) (solana.Signature, error) {
	if l.cfg.Treasury.IsZero() {
		return solana.Signature{}, fmt.Errorf("%w: VOLTNET_TREASURY is required for initialize", ErrConfig)
	}
	state, _, err := FindStateAddress(l.cfg.ProgramID)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("derive state address: %w", err)
	}
	vault, _, err := FindVaultAddress(l.cfg.ProgramID)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("derive vault address: %w", err)
	}

	inst := NewInitializeInstruction(
		l.cfg.ProgramID,
		l.wallet.PublicKey(),
		l.cfg.Treasury,
		state,
		vault,
		&InitializeData{
			TicketPriceLamports: params.TicketPriceLamports,
			PlatformFeeBps:      params.PlatformFeeBps,
			RakeBps:             params.RakeBps,
			WithdrawalFeeBps:    params.WithdrawalFeeBps,
			WinnerBps:           WinnerShareBps,
			RolloverBps:         RolloverShareBps,
		},
	)
	log.Printf("开始初始化 | state=%s | vault=%s | 票价=%d lamports", state, vault, params.TicketPriceLamports)
	return l.send.SendInstructions(ctx, []solana.Instruction{inst})
}

// BuyTickets 购票
// 先实时读链上状态 拿到当前期数和国库地址再推导购票记录账户
// 期数绝不能假定为0 滚动之后旧地址就废了
func (l *Lottery) BuyTickets(ctx context.Context, count uint64) (solana.Signature, error) {
	state, err := FetchLotteryState(ctx, l.client, l.cfg.ProgramID)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("fetch lottery state: %w", err)
	}
	return l.buyWithState(ctx, state, count)
}

func (l *Lottery) buyWithState(ctx context.Context, state *LotteryState, count uint64) (solana.Signature, error) {
	if !state.DrawOpen {
		return solana.Signature{}, ErrDrawClosed
	}
	total, fee, toVault, err := state.PreviewCost(count)
	if err != nil {
		return solana.Signature{}, err
	}
	// 仅展示用的预估 真正的扣费由链上程序计算
	log.Printf("费用预估 | 张数=%d | 总计=%d | 平台费=%d | 入奖池=%d", count, total, fee, toVault)

	stateAddr, _, err := FindStateAddress(l.cfg.ProgramID)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("derive state address: %w", err)
	}
	vault, _, err := FindVaultAddress(l.cfg.ProgramID)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("derive vault address: %w", err)
	}
	userTickets, _, err := FindUserTicketsAddress(l.cfg.ProgramID, l.wallet.PublicKey(), state.Epoch)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("derive user_tickets address: %w", err)
	}

	data := &BuyTicketsData{Count: count}
	inst := NewBuyTicketsInstruction(
		l.cfg.ProgramID,
		l.wallet.PublicKey(),
		state.Treasury,
		stateAddr,
		vault,
		userTickets,
		data,
	)
	sig, primaryErr := l.send.SendInstructions(ctx, []solana.Instruction{inst})
	if primaryErr == nil {
		return sig, nil
	}
	// 兜底一次: 用手工拼好的原始指令重发 历史上编码器路径出过类型封送问题
	log.Printf("购票主路径失败 改用原始指令重试 | %s", primaryErr)
	raw, err := data.Encode()
	if err != nil {
		return solana.Signature{}, errors.Join(primaryErr, err)
	}
	rawInst := solana.NewInstruction(l.cfg.ProgramID, inst.Accounts(), raw)
	sig, fallbackErr := l.send.SendInstructions(ctx, []solana.Instruction{rawInst})
	if fallbackErr != nil {
		return solana.Signature{}, fmt.Errorf("buy_tickets failed on both paths: %w", errors.Join(primaryErr, fallbackErr))
	}
	return sig, nil
}

// SetTicketPrice 更新票价
// 指令名在程序侧没定论 按候选顺序逐个试 单个被拒不算失败
// 全部被拒才返回汇总错误
func (l *Lottery) SetTicketPrice(ctx context.Context, newPriceLamports uint64) (solana.Signature, error) {
	state, _, err := FindStateAddress(l.cfg.ProgramID)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("derive state address: %w", err)
	}

	var errs []error
	for _, name := range SetTicketPriceCandidates {
		inst := NewSetTicketPriceInstruction(
			l.cfg.ProgramID,
			l.wallet.PublicKey(),
			state,
			&SetTicketPriceData{Name: name, NewPriceLamports: newPriceLamports},
		)
		sig, err := l.send.SendInstructions(ctx, []solana.Instruction{inst})
		if err == nil {
			log.Printf("价格更新成功 | 指令名=%s | 新票价=%d", name, newPriceLamports)
			return sig, nil
		}
		log.Printf("候选指令被拒 继续尝试下一个 | %s | %s", name, err)
		errs = append(errs, fmt.Errorf("%s: %w", name, err))
	}
	return solana.Signature{}, fmt.Errorf("all %d price-update candidates rejected: %w",
		len(SetTicketPriceCandidates), errors.Join(errs...))
}
