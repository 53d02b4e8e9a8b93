package voltnet

import "crypto/sha256"

// Anchor的指令分发约定: 指令数据前8字节是sha256("global:<指令名>")的前8字节
// 账户数据前8字节是sha256("account:<结构名>")的前8字节
// 名字写错(大小写或下划线风格不对)程序会直接当作未知指令拒绝 客户端无法提前校验
const (
	instructionSighashPrefix = "global:"
	accountSighashPrefix     = "account:"
)

// Sighash 计算指令的8字节选择器
func Sighash(name string) []byte {
	h := sha256.Sum256([]byte(instructionSighashPrefix + name))
	return h[:8]
}

// AccountSighash 计算账户结构的8字节判别码
func AccountSighash(name string) []byte {
	h := sha256.Sum256([]byte(accountSighashPrefix + name))
	return h[:8]
}

// SetTicketPriceCandidates 价格更新指令的候选名字
// 链上程序这条指令的命名到现在没有定论 属于接口层面的遗留问题
// 客户端按这个顺序逐个尝试 优先Anchor惯用的snake_case
// TODO: 程序方确定最终命名后把这里收敛成单个名字
var SetTicketPriceCandidates = []string{
	"set_ticket_price",
	"update_ticket_price",
	"setTicketPrice",
	"update_price",
}
