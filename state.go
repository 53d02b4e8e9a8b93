package voltnet

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

var (
	ErrAccountNotFound  = errors.New("account not found")
	ErrBadDiscriminator = errors.New("unexpected account discriminator")
)

// LotteryState 链上全局状态的本地镜像
// 字段顺序和宽度照抄程序的账户布局 任何改动都会导致反序列化错位
// 客户端只读 所有字段以链上为准
type LotteryState struct {
	Admin               solana.PublicKey
	Treasury            solana.PublicKey
	Vault               solana.PublicKey
	TicketPriceLamports uint64
	PlatformFeeBps      uint16
	RakeBps             uint16
	WithdrawalFeeBps    uint16
	WinnerBps           uint16
	RolloverBps         uint16
	Epoch               uint64
	DrawOpen            bool
}

// UserTickets 用户单期购票记录的镜像
type UserTickets struct {
	User  solana.PublicKey
	Epoch uint64
	Count uint64
}

// decodeAccount 校验8字节判别码后用borsh解出账户数据
func decodeAccount(name string, data []byte, out interface{}) error {
	if len(data) < 8 {
		return fmt.Errorf("%w: %s needs at least 8 bytes, got %d", ErrBadDiscriminator, name, len(data))
	}
	if !bytes.Equal(data[:8], AccountSighash(name)) {
		return fmt.Errorf("%w: %s", ErrBadDiscriminator, name)
	}
	if err := bin.NewBorshDecoder(data[8:]).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}

// DecodeLotteryState 从账户原始字节解出状态镜像
func DecodeLotteryState(data []byte) (*LotteryState, error) {
	s := new(LotteryState)
	if err := decodeAccount("LotteryState", data, s); err != nil {
		return nil, err
	}
	return s, nil
}

// DecodeUserTickets 从账户原始字节解出购票记录
func DecodeUserTickets(data []byte) (*UserTickets, error) {
	t := new(UserTickets)
	if err := decodeAccount("UserTickets", data, t); err != nil {
		return nil, err
	}
	return t, nil
}

// PreviewCost 客户端侧的费用预览 仅用于展示 不具权威性
// 实际扣费以链上程序的计算为准
func (s *LotteryState) PreviewCost(count uint64) (total, fee, toVault uint64, err error) {
	if count == 0 {
		return 0, 0, 0, fmt.Errorf("%w: ticket count must be positive", ErrValueOutOfRange)
	}
	if s.TicketPriceLamports != 0 && count > ^uint64(0)/s.TicketPriceLamports {
		return 0, 0, 0, fmt.Errorf("%w: %d tickets overflows total cost", ErrValueOutOfRange, count)
	}
	total = s.TicketPriceLamports * count
	// 和链上一致: fee = total * bps / 10000 整数截断
	fee = total * uint64(s.PlatformFeeBps) / MaxBps
	toVault = total - fee
	return total, fee, toVault, nil
}

func fetchAccountData(ctx context.Context, client *rpc.Client, addr solana.PublicKey) ([]byte, error) {
	out, err := client.GetAccountInfoWithOpts(ctx, addr, &rpc.GetAccountInfoOpts{
		Commitment: rpc.CommitmentConfirmed,
	})
	if err != nil {
		return nil, fmt.Errorf("get account %s: %w", addr, err)
	}
	if out == nil || out.Value == nil {
		return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, addr)
	}
	return out.Value.Data.GetBinary(), nil
}

// FetchLotteryState 读取并解码链上全局状态
func FetchLotteryState(ctx context.Context, client *rpc.Client, programID solana.PublicKey) (*LotteryState, error) {
	addr, _, err := FindStateAddress(programID)
	if err != nil {
		return nil, fmt.Errorf("derive state address: %w", err)
	}
	data, err := fetchAccountData(ctx, client, addr)
	if err != nil {
		return nil, err
	}
	return DecodeLotteryState(data)
}

// FetchUserTickets 读取用户在指定期数的购票记录
// epoch要传链上实时读到的值 通常先FetchLotteryState再用state.Epoch调这里
func FetchUserTickets(ctx context.Context, client *rpc.Client, programID, user solana.PublicKey, epoch uint64) (*UserTickets, error) {
	addr, _, err := FindUserTicketsAddress(programID, user, epoch)
	if err != nil {
		return nil, fmt.Errorf("derive user_tickets address: %w", err)
	}
	data, err := fetchAccountData(ctx, client, addr)
	if err != nil {
		return nil, err
	}
	return DecodeUserTickets(data)
}
