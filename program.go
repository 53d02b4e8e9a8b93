package voltnet

import (
	"encoding/binary"

	"github.com/gagliardetto/solana-go"
)

// 链上彩票程序的默认地址 可以通过配置覆盖
var (
	DefaultProgramID = solana.MustPublicKeyFromBase58("5JJV9foQ27twoVKKqcKhm1tKZhQQXgLCLykrde37rzaK")
	SystemProgramID  = solana.SystemProgramID
)

// PDA种子前缀 必须和链上程序的seeds保持一字不差
var (
	stateSeedPrefix       = []byte("state")
	vaultSeedPrefix       = []byte("vault")
	userTicketsSeedPrefix = []byte("user_tickets")
)

// FindStateAddress 推导全局状态账户地址
// 纯函数 相同的programID永远得到相同的地址
func FindStateAddress(programID solana.PublicKey) (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress(
		[][]byte{stateSeedPrefix},
		programID,
	)
}

// FindVaultAddress 推导奖池金库地址
// 金库的种子依赖状态账户地址 所以这里总是用同一个programID现场推导状态地址
// 绝不能把别处缓存的状态地址混进来
func FindVaultAddress(programID solana.PublicKey) (solana.PublicKey, uint8, error) {
	state, _, err := FindStateAddress(programID)
	if err != nil {
		return solana.PublicKey{}, 0, err
	}
	return solana.FindProgramAddress(
		[][]byte{vaultSeedPrefix, state.Bytes()},
		programID,
	)
}

// FindUserTicketsAddress 推导用户在某一期的购票记录地址
//
// epoch必须是链上实时读到的当前期数 不要假定是0
// 期数滚动之后用旧期数推导出来的地址就不再是程序写入的那个账户了
func FindUserTicketsAddress(programID, user solana.PublicKey, epoch uint64) (solana.PublicKey, uint8, error) {
	var epochBytes [8]byte
	binary.LittleEndian.PutUint64(epochBytes[:], epoch)
	return solana.FindProgramAddress(
		[][]byte{userTicketsSeedPrefix, user.Bytes(), epochBytes[:]},
		programID,
	)
}
