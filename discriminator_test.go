package voltnet

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSighashKnownValues(t *testing.T) {
	// Anchor生态里initialize的选择器是公开常量 可以交叉验证
	assert.Equal(t, []byte{175, 175, 109, 31, 13, 152, 155, 237}, Sighash("initialize"))

	assert.Len(t, Sighash("buy_tickets"), 8)
	assert.NotEqual(t, Sighash("initialize"), Sighash("buy_tickets"))
}

func TestSighashStable(t *testing.T) {
	assert.Equal(t, Sighash("initialize"), Sighash("initialize"))
	assert.Equal(t, Sighash("buy_tickets"), Sighash("buy_tickets"))
}

func TestSighashCaseSensitive(t *testing.T) {
	// 大小写或命名风格不同就是另一个选择器 程序端会拒收
	assert.NotEqual(t, Sighash("set_ticket_price"), Sighash("setTicketPrice"))
}

func TestAccountSighashDistinctFromInstruction(t *testing.T) {
	assert.NotEqual(t, Sighash("LotteryState"), AccountSighash("LotteryState"))
	assert.NotEqual(t, AccountSighash("LotteryState"), AccountSighash("UserTickets"))
}

func TestSetTicketPriceCandidatesOrder(t *testing.T) {
	// 顺序就是协议 snake_case优先
	assert.Equal(t, "set_ticket_price", SetTicketPriceCandidates[0])
	assert.Len(t, SetTicketPriceCandidates, 4)
}
