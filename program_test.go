package voltnet

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindStateAddressDeterministic(t *testing.T) {
	a1, bump1, err := FindStateAddress(DefaultProgramID)
	require.NoError(t, err)
	a2, bump2, err := FindStateAddress(DefaultProgramID)
	require.NoError(t, err)
	assert.Equal(t, a1, a2)
	assert.Equal(t, bump1, bump2)
	assert.False(t, a1.IsZero())
}

func TestFindVaultAddressTracksProgramID(t *testing.T) {
	otherProgram := solana.NewWallet().PublicKey()

	v1, _, err := FindVaultAddress(DefaultProgramID)
	require.NoError(t, err)
	v2, _, err := FindVaultAddress(otherProgram)
	require.NoError(t, err)
	assert.NotEqual(t, v1, v2)

	// 金库种子必须用同一programID现场推导出的状态地址
	for _, programID := range []solana.PublicKey{DefaultProgramID, otherProgram} {
		state, _, err := FindStateAddress(programID)
		require.NoError(t, err)
		want, _, err := solana.FindProgramAddress(
			[][]byte{[]byte("vault"), state.Bytes()},
			programID,
		)
		require.NoError(t, err)
		got, _, err := FindVaultAddress(programID)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestFindUserTicketsAddressVariesWithEpoch(t *testing.T) {
	user := solana.NewWallet().PublicKey()

	a0, _, err := FindUserTicketsAddress(DefaultProgramID, user, 0)
	require.NoError(t, err)
	a1, _, err := FindUserTicketsAddress(DefaultProgramID, user, 1)
	require.NoError(t, err)
	assert.NotEqual(t, a0, a1, "epoch must change the derived address")

	again, _, err := FindUserTicketsAddress(DefaultProgramID, user, 1)
	require.NoError(t, err)
	assert.Equal(t, a1, again)
}

func TestFindUserTicketsAddressVariesWithUser(t *testing.T) {
	u1 := solana.NewWallet().PublicKey()
	u2 := solana.NewWallet().PublicKey()

	a1, _, err := FindUserTicketsAddress(DefaultProgramID, u1, 7)
	require.NoError(t, err)
	a2, _, err := FindUserTicketsAddress(DefaultProgramID, u2, 7)
	require.NoError(t, err)
	assert.NotEqual(t, a1, a2)
}
