package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-enols/go-log"

	"github.com/gagliardetto/solana-go"
	"github.com/spf13/cobra"

	voltnet "github.com/deathland/voltnet-lottery"
)

func main() {
	root := &cobra.Command{
		Use:           "voltctl",
		Short:         "voltnet彩票程序的管理工具",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		initializeCmd(),
		buyCmd(),
		setPriceCmd(),
		stateCmd(),
		dashboardCmd(),
	)
	if err := root.Execute(); err != nil {
		log.Errorf("执行失败 | %s", err)
		os.Exit(1)
	}
}

// 每个子命令只做一件事然后退出 成功打印签名 失败走非零退出码

func initializeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "initialize",
		Short: "创建彩票全局状态和金库账户",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := voltnet.LoadConfig()
			if err != nil {
				return err
			}
			wallet, err := voltnet.NewWallet(ctx, cfg)
			if err != nil {
				return err
			}
			sig, err := voltnet.NewLottery(cfg, wallet).Initialize(ctx, voltnet.InitializeParams{
				TicketPriceLamports: cfg.TicketPriceLamports,
				PlatformFeeBps:      cfg.PlatformFeeBps,
				RakeBps:             cfg.RakeBps,
				WithdrawalFeeBps:    cfg.WithdrawalFeeBps,
			})
			if err != nil {
				return err
			}
			fmt.Printf("初始化完成\n票价: %d lamports\n平台费: %dbps 抽成: %dbps 提现费: %dbps\n签名: %s\n",
				cfg.TicketPriceLamports, cfg.PlatformFeeBps, cfg.RakeBps, cfg.WithdrawalFeeBps, sig)
			return nil
		},
	}
}

func buyCmd() *cobra.Command {
	var count int64
	cmd := &cobra.Command{
		Use:   "buy",
		Short: "购买当期彩票",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := voltnet.LoadConfig()
			if err != nil {
				return err
			}
			n := cfg.TicketCount
			if cmd.Flags().Changed("count") {
				if n, err = voltnet.CheckCount(count); err != nil {
					return err
				}
			}
			wallet, err := voltnet.NewWallet(ctx, cfg)
			if err != nil {
				return err
			}
			sig, err := voltnet.NewLottery(cfg, wallet).BuyTickets(ctx, n)
			if err != nil {
				return err
			}
			fmt.Printf("购票完成\n张数: %d\n签名: %s\n", n, sig)
			return nil
		},
	}
	cmd.Flags().Int64Var(&count, "count", 1, "购票张数 不传则用VOLTNET_TICKET_COUNT")
	return cmd
}

func setPriceCmd() *cobra.Command {
	var priceSol string
	cmd := &cobra.Command{
		Use:   "set-price",
		Short: "更新票价(按候选指令名逐个尝试)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := voltnet.LoadConfig()
			if err != nil {
				return err
			}
			price := cfg.TicketPriceLamports
			if cmd.Flags().Changed("price-sol") {
				if price, err = voltnet.SolToLamports(priceSol); err != nil {
					return err
				}
			}
			wallet, err := voltnet.NewWallet(ctx, cfg)
			if err != nil {
				return err
			}
			sig, err := voltnet.NewLottery(cfg, wallet).SetTicketPrice(ctx, price)
			if err != nil {
				return err
			}
			fmt.Printf("票价已更新\n新票价: %d lamports\n签名: %s\n", price, sig)
			return nil
		},
	}
	cmd.Flags().StringVar(&priceSol, "price-sol", "", "新票价 整币单位 不传则用VOLTNET_TICKET_PRICE_SOL")
	return cmd
}

func stateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "state",
		Short: "打印链上状态镜像",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := voltnet.LoadConfig()
			if err != nil {
				return err
			}
			// 查状态不需要私钥 直接建RPC客户端
			op, err := voltnet.NewDefaultOption(ctx, cfg)
			if err != nil {
				return err
			}
			client := op.RpcClient
			state, err := voltnet.FetchLotteryState(ctx, client, cfg.ProgramID)
			if err != nil {
				return err
			}
			fmt.Printf("期数: %d 开奖窗口: %v\n票价: %d lamports\n管理员: %s\n国库: %s\n金库: %s\n平台费: %dbps 抽成: %dbps 提现费: %dbps 中奖: %dbps 滚存: %dbps\n",
				state.Epoch, state.DrawOpen, state.TicketPriceLamports,
				state.Admin, state.Treasury, state.Vault,
				state.PlatformFeeBps, state.RakeBps, state.WithdrawalFeeBps, state.WinnerBps, state.RolloverBps)

			if cfg.Pkey != "" {
				w, err := solana.WalletFromPrivateKeyBase58(cfg.Pkey)
				if err != nil {
					return err
				}
				// 用实时期数查本人当期购票 账户不存在说明还没买过
				ut, err := voltnet.FetchUserTickets(ctx, client, cfg.ProgramID, w.PublicKey(), state.Epoch)
				if err != nil {
					log.Printf("本期暂无购票记录 | %s", err)
					return nil
				}
				fmt.Printf("本期已购: %d张 (%s)\n", ut.Count, ut.User)
			}
			return nil
		},
	}
}

func dashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "启动只读仪表盘",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			cfg, err := voltnet.LoadConfig()
			if err != nil {
				return err
			}
			op, err := voltnet.NewDefaultOption(ctx, cfg)
			if err != nil {
				return err
			}
			cache := voltnet.NewSnapshotCache(op.RpcClient, cfg.ProgramID, cfg.RefreshInterval)
			go cache.Run(ctx)
			return voltnet.ServeDashboard(ctx, cfg, cache)
		},
	}
}
