package voltnet

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
)

var (
	ErrValueOutOfRange        = errors.New("value out of range")
	ErrInvalidInstructionData = errors.New("invalid instruction data")
	ErrUnknownSelector        = errors.New("unknown instruction selector")
)

// 分成比例固定各占一半 链上程序要求两者之和恰好是10000
const (
	MaxBps           = 10000
	WinnerShareBps   = 5000
	RolloverShareBps = 5000
)

// CheckBps 把外部输入(CLI参数/环境变量)收敛成合法的基点值
// 超出[0,10000]直接报错 绝不静默截断
func CheckBps(name string, v int64) (uint16, error) {
	if v < 0 || v > MaxBps {
		return 0, fmt.Errorf("%w: %s=%d, bps must be within [0,%d]", ErrValueOutOfRange, name, v, MaxBps)
	}
	return uint16(v), nil
}

// CheckCount 把外部输入收敛成合法的购票数量
func CheckCount(v int64) (uint64, error) {
	if v <= 0 {
		return 0, fmt.Errorf("%w: ticket count must be positive, got %d", ErrValueOutOfRange, v)
	}
	return uint64(v), nil
}

// DataCoder 指令数据编码接口
// 支持自定义数据序列化逻辑
type DataCoder interface {
	Encode() ([]byte, error)
	Decode([]byte) error
}

// BaseInstruction 基础指令实现
// 通过组合模式实现扩展性 满足solana.Instruction接口
type BaseInstruction struct {
	programID solana.PublicKey
	accounts  []*solana.AccountMeta
	dataCoder DataCoder
}

// ProgramID 实现Instruction接口
func (bi *BaseInstruction) ProgramID() solana.PublicKey {
	return bi.programID
}

// Accounts 实现Instruction接口
func (bi *BaseInstruction) Accounts() []*solana.AccountMeta {
	return bi.accounts
}

// Data 实现Instruction接口
func (bi *BaseInstruction) Data() ([]byte, error) {
	return bi.dataCoder.Encode()
}

// InitializeData initialize指令的参数
// 布局: 选择器(8) + 票价u64(8) + 平台费u16(2) + 抽成u16(2) + 提现费u16(2) + 中奖分成u16(2) + 滚存分成u16(2) = 26字节
type InitializeData struct {
	TicketPriceLamports uint64
	PlatformFeeBps      uint16
	RakeBps             uint16
	WithdrawalFeeBps    uint16
	WinnerBps           uint16
	RolloverBps         uint16
}

func (d *InitializeData) validate() error {
	if d.TicketPriceLamports == 0 {
		return fmt.Errorf("%w: ticket price must be positive", ErrValueOutOfRange)
	}
	for _, f := range []struct {
		name string
		v    uint16
	}{
		{"platform_fee_bps", d.PlatformFeeBps},
		{"rake_bps", d.RakeBps},
		{"withdrawal_fee_bps", d.WithdrawalFeeBps},
		{"winner_bps", d.WinnerBps},
		{"rollover_bps", d.RolloverBps},
	} {
		if f.v > MaxBps {
			return fmt.Errorf("%w: %s=%d exceeds %d", ErrValueOutOfRange, f.name, f.v, MaxBps)
		}
	}
	// 程序端的require同款校验 提前在客户端挡掉
	if int(d.WinnerBps)+int(d.RolloverBps) != MaxBps {
		return fmt.Errorf("%w: winner_bps+rollover_bps must equal %d, got %d",
			ErrValueOutOfRange, MaxBps, int(d.WinnerBps)+int(d.RolloverBps))
	}
	return nil
}

func (d *InitializeData) Encode() ([]byte, error) {
	if err := d.validate(); err != nil {
		return nil, err
	}
	buf := make([]byte, 26)
	copy(buf[0:8], Sighash("initialize"))
	binary.LittleEndian.PutUint64(buf[8:16], d.TicketPriceLamports)
	binary.LittleEndian.PutUint16(buf[16:18], d.PlatformFeeBps)
	binary.LittleEndian.PutUint16(buf[18:20], d.RakeBps)
	binary.LittleEndian.PutUint16(buf[20:22], d.WithdrawalFeeBps)
	binary.LittleEndian.PutUint16(buf[22:24], d.WinnerBps)
	binary.LittleEndian.PutUint16(buf[24:26], d.RolloverBps)
	return buf, nil
}

func (d *InitializeData) Decode(data []byte) error {
	if len(data) != 26 {
		return fmt.Errorf("%w: initialize expects 26 bytes, got %d", ErrInvalidInstructionData, len(data))
	}
	if !bytes.Equal(data[0:8], Sighash("initialize")) {
		return ErrUnknownSelector
	}
	d.TicketPriceLamports = binary.LittleEndian.Uint64(data[8:16])
	d.PlatformFeeBps = binary.LittleEndian.Uint16(data[16:18])
	d.RakeBps = binary.LittleEndian.Uint16(data[18:20])
	d.WithdrawalFeeBps = binary.LittleEndian.Uint16(data[20:22])
	d.WinnerBps = binary.LittleEndian.Uint16(data[22:24])
	d.RolloverBps = binary.LittleEndian.Uint16(data[24:26])
	return nil
}

// BuyTicketsData buy_tickets指令的参数
// 布局: 选择器(8) + 数量u64(8) = 16字节
type BuyTicketsData struct {
	Count uint64
}

func (d *BuyTicketsData) Encode() ([]byte, error) {
	if d.Count == 0 {
		return nil, fmt.Errorf("%w: ticket count must be positive", ErrValueOutOfRange)
	}
	buf := make([]byte, 16)
	copy(buf[0:8], Sighash("buy_tickets"))
	binary.LittleEndian.PutUint64(buf[8:16], d.Count)
	return buf, nil
}

func (d *BuyTicketsData) Decode(data []byte) error {
	if len(data) != 16 {
		return fmt.Errorf("%w: buy_tickets expects 16 bytes, got %d", ErrInvalidInstructionData, len(data))
	}
	if !bytes.Equal(data[0:8], Sighash("buy_tickets")) {
		return ErrUnknownSelector
	}
	d.Count = binary.LittleEndian.Uint64(data[8:16])
	return nil
}

// SetTicketPriceData 价格更新指令的参数
// 选择器由候选名字现算 见SetTicketPriceCandidates
// 布局: 选择器(8) + 新票价u64(8) = 16字节
type SetTicketPriceData struct {
	Name             string
	NewPriceLamports uint64
}

func (d *SetTicketPriceData) Encode() ([]byte, error) {
	if d.Name == "" {
		return nil, fmt.Errorf("%w: candidate name is empty", ErrInvalidInstructionData)
	}
	if d.NewPriceLamports == 0 {
		return nil, fmt.Errorf("%w: ticket price must be positive", ErrValueOutOfRange)
	}
	buf := make([]byte, 16)
	copy(buf[0:8], Sighash(d.Name))
	binary.LittleEndian.PutUint64(buf[8:16], d.NewPriceLamports)
	return buf, nil
}

func (d *SetTicketPriceData) Decode(data []byte) error {
	if len(data) != 16 {
		return fmt.Errorf("%w: expects 16 bytes, got %d", ErrInvalidInstructionData, len(data))
	}
	if d.Name == "" || !bytes.Equal(data[0:8], Sighash(d.Name)) {
		return ErrUnknownSelector
	}
	d.NewPriceLamports = binary.LittleEndian.Uint64(data[8:16])
	return nil
}

// NewInitializeInstruction 构造initialize指令
// 账户顺序必须和链上程序的Accounts结构体一致: admin签名 国库 状态 金库 系统程序
func NewInitializeInstruction(programID, admin, treasury, state, vault solana.PublicKey, data *InitializeData) *BaseInstruction {
	return &BaseInstruction{
		programID: programID,
		accounts: []*solana.AccountMeta{
			{PublicKey: admin, IsSigner: true, IsWritable: true},
			{PublicKey: treasury, IsSigner: false, IsWritable: true},
			{PublicKey: state, IsSigner: false, IsWritable: true},
			{PublicKey: vault, IsSigner: false, IsWritable: true},
			{PublicKey: SystemProgramID, IsSigner: false, IsWritable: false},
		},
		dataCoder: data,
	}
}

// NewBuyTicketsInstruction 构造buy_tickets指令
// 账户顺序: 用户签名 国库 状态 金库 用户购票记录 系统程序
func NewBuyTicketsInstruction(programID, user, treasury, state, vault, userTickets solana.PublicKey, data *BuyTicketsData) *BaseInstruction {
	return &BaseInstruction{
		programID: programID,
		accounts: []*solana.AccountMeta{
			{PublicKey: user, IsSigner: true, IsWritable: true},
			{PublicKey: treasury, IsSigner: false, IsWritable: true},
			{PublicKey: state, IsSigner: false, IsWritable: true},
			{PublicKey: vault, IsSigner: false, IsWritable: true},
			{PublicKey: userTickets, IsSigner: false, IsWritable: true},
			{PublicKey: SystemProgramID, IsSigner: false, IsWritable: false},
		},
		dataCoder: data,
	}
}

// NewSetTicketPriceInstruction 构造价格更新指令
// 只有管理员和状态账户参与
func NewSetTicketPriceInstruction(programID, admin, state solana.PublicKey, data *SetTicketPriceData) *BaseInstruction {
	return &BaseInstruction{
		programID: programID,
		accounts: []*solana.AccountMeta{
			{PublicKey: admin, IsSigner: true, IsWritable: true},
			{PublicKey: state, IsSigner: false, IsWritable: true},
		},
		dataCoder: data,
	}
}
