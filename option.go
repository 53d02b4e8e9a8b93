package voltnet

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/big"
	"net/http"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/gagliardetto/solana-go/rpc/jsonrpc"
	"github.com/gagliardetto/solana-go/rpc/ws"
	"github.com/shopspring/decimal"
)

var ErrConfig = errors.New("config error")

// rawConfig 环境变量的原始形态 只在LoadConfig内部出现
type rawConfig struct {
	RpcUrl           string        `env:"VOLTNET_RPC_URL"`
	WsUrl            string        `env:"VOLTNET_WS_URL"`
	Pkey             string        `env:"VOLTNET_PRIVATE_KEY"`
	ProgramID        string        `env:"VOLTNET_PROGRAM_ID"`
	Treasury         string        `env:"VOLTNET_TREASURY"`
	TicketPriceSol   string        `env:"VOLTNET_TICKET_PRICE_SOL" envDefault:"0.1"`
	PlatformFeeBps   int64         `env:"VOLTNET_PLATFORM_FEE_BPS" envDefault:"500"`
	RakeBps          int64         `env:"VOLTNET_RAKE_BPS" envDefault:"500"`
	WithdrawalFeeBps int64         `env:"VOLTNET_WITHDRAWAL_FEE_BPS" envDefault:"200"`
	TicketCount      int64         `env:"VOLTNET_TICKET_COUNT" envDefault:"1"`
	RefreshInterval  time.Duration `env:"VOLTNET_REFRESH_INTERVAL" envDefault:"10s"`
	ListenAddr       string        `env:"VOLTNET_LISTEN" envDefault:":8080"`
}

// Config 进程启动时构建一次 之后按值传给需要的地方
// 业务代码不允许再碰环境变量
type Config struct {
	RpcUrl string
	WsUrl  string
	// base58格式的私钥 只读操作可以为空
	Pkey string

	ProgramID solana.PublicKey
	// 国库地址 只有initialize用得到 其余操作以链上状态里的为准
	Treasury solana.PublicKey

	TicketPriceLamports uint64
	PlatformFeeBps      uint16
	RakeBps             uint16
	WithdrawalFeeBps    uint16
	TicketCount         uint64

	RefreshInterval time.Duration
	ListenAddr      string
}

// LoadConfig 读取环境变量并一次性完成全部校验
// 任何一项不合法都在这里报错 不会带病发起网络请求
func LoadConfig() (*Config, error) {
	raw := rawConfig{}
	if err := env.Parse(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfig, err)
	}

	cfg := &Config{
		RpcUrl:          raw.RpcUrl,
		WsUrl:           raw.WsUrl,
		Pkey:            raw.Pkey,
		ProgramID:       DefaultProgramID,
		RefreshInterval: raw.RefreshInterval,
		ListenAddr:      raw.ListenAddr,
	}
	if cfg.RpcUrl == "" {
		cfg.RpcUrl = rpc.DevNet_RPC
	}
	if cfg.WsUrl == "" {
		cfg.WsUrl = rpc.DevNet_WS
	}
	if raw.ProgramID != "" {
		pk, err := solana.PublicKeyFromBase58(raw.ProgramID)
		if err != nil {
			return nil, fmt.Errorf("%w: VOLTNET_PROGRAM_ID: %v", ErrConfig, err)
		}
		cfg.ProgramID = pk
	}
	if raw.Treasury != "" {
		pk, err := solana.PublicKeyFromBase58(raw.Treasury)
		if err != nil {
			return nil, fmt.Errorf("%w: VOLTNET_TREASURY: %v", ErrConfig, err)
		}
		cfg.Treasury = pk
	}

	price, err := SolToLamports(raw.TicketPriceSol)
	if err != nil {
		return nil, fmt.Errorf("%w: VOLTNET_TICKET_PRICE_SOL: %v", ErrConfig, err)
	}
	cfg.TicketPriceLamports = price

	if cfg.PlatformFeeBps, err = CheckBps("VOLTNET_PLATFORM_FEE_BPS", raw.PlatformFeeBps); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfig, err)
	}
	if cfg.RakeBps, err = CheckBps("VOLTNET_RAKE_BPS", raw.RakeBps); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfig, err)
	}
	if cfg.WithdrawalFeeBps, err = CheckBps("VOLTNET_WITHDRAWAL_FEE_BPS", raw.WithdrawalFeeBps); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfig, err)
	}
	if cfg.TicketCount, err = CheckCount(raw.TicketCount); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfig, err)
	}
	if cfg.RefreshInterval <= 0 {
		return nil, fmt.Errorf("%w: VOLTNET_REFRESH_INTERVAL must be positive", ErrConfig)
	}
	return cfg, nil
}

// SolToLamports 把整币单位的票价换算成lamports
// 用decimal精确换算 拒绝负数和低于1 lamport精度的残余 绝不四舍五入
func SolToLamports(s string) (uint64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("malformed amount %q: %w", s, err)
	}
	if d.Sign() <= 0 {
		return 0, fmt.Errorf("%w: amount must be positive, got %s", ErrValueOutOfRange, s)
	}
	lam := d.Mul(decimal.New(1, 9))
	if !lam.IsInteger() {
		return 0, fmt.Errorf("%w: %s SOL has sub-lamport precision", ErrValueOutOfRange, s)
	}
	bi := lam.BigInt()
	if bi.Cmp(new(big.Int).SetUint64(math.MaxUint64)) > 0 {
		return 0, fmt.Errorf("%w: %s SOL exceeds uint64 lamports", ErrValueOutOfRange, s)
	}
	return bi.Uint64(), nil
}

// Option 网络客户端的注入项 不传就按Config现场新建
type Option struct {
	RpcClient  *rpc.Client
	WsClient   *ws.Client
	HTTPClient *http.Client
	Headers    map[string]string
	TimeOut    time.Duration
}

// NewDefaultOption 构建一个新的配置项
func NewDefaultOption(ctx context.Context, cfg *Config, option ...Option) (Option, error) {
	result := Option{
		Headers: make(map[string]string),
	}
	if len(option) > 0 {
		result = option[0]
	}
	if result.Headers == nil {
		result.Headers = map[string]string{}
	}
	if result.HTTPClient == nil {
		result.HTTPClient = &http.Client{}
	}
	if result.TimeOut == 0 {
		result.TimeOut = 15 * time.Second
	}
	// 单次请求的超时 确认轮询的存活时间由调用方的ctx控制
	result.HTTPClient.Timeout = result.TimeOut

	if result.RpcClient == nil {
		result.RpcClient = rpc.NewWithCustomRPCClient(jsonrpc.NewClientWithOpts(cfg.RpcUrl, &jsonrpc.RPCClientOpts{
			HTTPClient:    result.HTTPClient,
			CustomHeaders: result.Headers,
		}))
	}
	if result.WsClient == nil {
		wsClient, err := ws.Connect(ctx, cfg.WsUrl)
		if err != nil {
			return Option{}, fmt.Errorf("connect ws %s: %w", cfg.WsUrl, err)
		}
		result.WsClient = wsClient
	}
	return result, nil
}
