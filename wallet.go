package voltnet

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-enols/go-log"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/gagliardetto/solana-go/rpc/ws"
)

type Wallet struct {
	rpc        *rpc.Client
	wsRpc      *ws.Client
	HTTPClient *http.Client
	Address    string
	Base58Pkey string // base58格式的私钥
	HashPkey   string // hash格式的私钥

	*solana.Wallet
}

// NewWallet 按配置构建钱包 配置里没有私钥就报配置错误
// 只读场景(仪表盘/查状态)不需要钱包 直接用Option里的RpcClient即可
func NewWallet(ctx context.Context, cfg *Config, option ...Option) (*Wallet, error) {
	if cfg.Pkey == "" {
		return nil, fmt.Errorf("%w: VOLTNET_PRIVATE_KEY is required for signing operations", ErrConfig)
	}
	op, err := NewDefaultOption(ctx, cfg, option...)
	if err != nil {
		return nil, err
	}
	wall, err := solana.WalletFromPrivateKeyBase58(cfg.Pkey)
	if err != nil {
		return nil, fmt.Errorf("%w: VOLTNET_PRIVATE_KEY: %v", ErrConfig, err)
	}

	log.Printf("成功加载Solana钱包 | %s", wall.PublicKey())
	return &Wallet{
		rpc:        op.RpcClient,
		wsRpc:      op.WsClient,
		HTTPClient: op.HTTPClient,
		Address:    wall.PublicKey().String(),
		Base58Pkey: wall.PrivateKey.String(),
		HashPkey:   hexutil.Encode(wall.PrivateKey),
		Wallet:     wall,
	}, nil
}

func (w *Wallet) GetClient() *rpc.Client {
	return w.rpc
}

func (w *Wallet) GetWsClient() *ws.Client {
	return w.wsRpc
}

// SendInstructions 构造交易 签名 广播 并等待确认
// 返回链上签名 任何一步失败都原样带上下文返回给调用方
func (w *Wallet) SendInstructions(ctx context.Context, instruction []solana.Instruction) (solana.Signature, error) {
	recentBlockHash, err := w.GetClient().GetLatestBlockhash(ctx, rpc.CommitmentFinalized)
	if err != nil {
		log.Printf("获取Hash失败 | %s", err)
		return solana.Signature{}, fmt.Errorf("get latest blockhash: %w", err)
	}
	// 构造交易
	tx, err := solana.NewTransaction(
		instruction,
		recentBlockHash.Value.Blockhash,
		solana.TransactionPayer(w.PublicKey()),
	)
	if err != nil {
		log.Printf("构建交易失败 | %s", err)
		return solana.Signature{}, fmt.Errorf("build transaction: %w", err)
	}

	// 签名交易
	if _, err = tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		if key.Equals(w.PublicKey()) {
			return &w.Wallet.PrivateKey
		}
		return nil
	}); err != nil {
		log.Printf("签名交易失败 | %s", err)
		return solana.Signature{}, fmt.Errorf("sign transaction: %w", err)
	}

	sig, err := w.GetClient().SendTransactionWithOpts(
		ctx,
		tx,
		rpc.TransactionOpts{
			SkipPreflight:       false,
			PreflightCommitment: rpc.CommitmentProcessed,
		},
	)
	if err != nil {
		log.Printf("发送交易失败 | %s", err)
		return solana.Signature{}, fmt.Errorf("send transaction: %w", err)
	}
	log.Printf("交易已广播 | %s", sig)

	if err := w.WaitConfirm(ctx, sig); err != nil {
		return sig, err
	}
	return sig, nil
}

// WaitConfirm 订阅签名状态直到确认或ctx取消
// 放弃等待不会撤回交易 链上该落地还是会落地
//
// sig: 交易广播返回的签名
func (w *Wallet) WaitConfirm(ctx context.Context, sig solana.Signature, option ...rpc.CommitmentType) error {
	// 默认使用最快的确认等级 即被单个节点确认
	var commitment = rpc.CommitmentProcessed
	if len(option) > 0 {
		commitment = option[0]
	}
	sub, err := w.GetWsClient().SignatureSubscribe(
		sig,
		commitment,
	)
	if err != nil {
		log.Printf("订阅签名状态失败 | %s", err)
		return fmt.Errorf("subscribe signature %s: %w", sig, err)
	}
	defer sub.Unsubscribe()

	got, err := sub.Recv(ctx)
	if err != nil {
		log.Printf("接收签名状态失败 | %s", err)
		return fmt.Errorf("recv signature status %s: %w", sig, err)
	}
	if got.Value.Err != nil {
		log.Printf("交易执行失败 | %s | %v", sig, got.Value.Err)
		return fmt.Errorf("transaction %s failed: %v", sig, got.Value.Err)
	}
	log.Printf("Transaction confirmed | %s", sig)
	return nil
}

// GetLamports 查询账户余额
func (w *Wallet) GetLamports(ctx context.Context, addr solana.PublicKey) (uint64, error) {
	out, err := w.GetClient().GetBalance(ctx, addr, rpc.CommitmentConfirmed)
	if err != nil {
		return 0, fmt.Errorf("get balance %s: %w", addr, err)
	}
	return out.Value, nil
}
