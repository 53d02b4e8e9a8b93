package voltnet

import (
	"testing"
	"time"

	"github.com/gagliardetto/solana-go/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, rpc.DevNet_RPC, cfg.RpcUrl)
	assert.Equal(t, rpc.DevNet_WS, cfg.WsUrl)
	assert.Equal(t, DefaultProgramID, cfg.ProgramID)
	// 默认票价0.1 SOL
	assert.Equal(t, uint64(100_000_000), cfg.TicketPriceLamports)
	assert.Equal(t, uint16(500), cfg.PlatformFeeBps)
	assert.Equal(t, uint16(500), cfg.RakeBps)
	assert.Equal(t, uint16(200), cfg.WithdrawalFeeBps)
	assert.Equal(t, uint64(1), cfg.TicketCount)
	assert.Equal(t, 10*time.Second, cfg.RefreshInterval)
}

func TestLoadConfigOverrides(t *testing.T) {
	admin := "BPFLoaderUpgradeab1e11111111111111111111111"
	t.Setenv("VOLTNET_PROGRAM_ID", admin)
	t.Setenv("VOLTNET_TREASURY", admin)
	t.Setenv("VOLTNET_TICKET_PRICE_SOL", "2.5")
	t.Setenv("VOLTNET_PLATFORM_FEE_BPS", "300")
	t.Setenv("VOLTNET_TICKET_COUNT", "5")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, admin, cfg.ProgramID.String())
	assert.Equal(t, admin, cfg.Treasury.String())
	assert.Equal(t, uint64(2_500_000_000), cfg.TicketPriceLamports)
	assert.Equal(t, uint16(300), cfg.PlatformFeeBps)
	assert.Equal(t, uint64(5), cfg.TicketCount)
}

func TestLoadConfigRejectsMalformedValues(t *testing.T) {
	cases := map[string]string{
		"VOLTNET_PROGRAM_ID":       "not-base58!!",
		"VOLTNET_TREASURY":         "also bad",
		"VOLTNET_TICKET_PRICE_SOL": "-1",
		"VOLTNET_PLATFORM_FEE_BPS": "70000",
		"VOLTNET_TICKET_COUNT":     "-1",
	}
	for key, val := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, val)
			_, err := LoadConfig()
			require.ErrorIs(t, err, ErrConfig)
		})
	}
}

func TestSolToLamports(t *testing.T) {
	got, err := SolToLamports("0.1")
	require.NoError(t, err)
	assert.Equal(t, uint64(100_000_000), got)

	got, err = SolToLamports("1")
	require.NoError(t, err)
	assert.Equal(t, uint64(1_000_000_000), got)

	// 精确到1 lamport
	got, err = SolToLamports("0.000000001")
	require.NoError(t, err)
	assert.Equal(t, uint64(1), got)
}

func TestSolToLamportsRejectsBadInput(t *testing.T) {
	for _, s := range []string{"abc", "", "0", "-0.5", "0.0000000001", "99999999999999999999"} {
		t.Run(s, func(t *testing.T) {
			_, err := SolToLamports(s)
			require.Error(t, err, "input %q must be rejected", s)
		})
	}
}
