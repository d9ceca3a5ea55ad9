// Package submission 实现订阅提交的状态机：校验 → 抓取 → 解析 → 写入。
//
// 状态转换由纯函数 Transition 完成，它返回新状态和需要执行的副作用；
// Machine 负责执行副作用，并把结果作为新事件送回 Transition。
package submission

// Phase 表示一次提交所处的阶段。
type Phase int

const (
	// PhaseIdle 空闲，等待提交。
	PhaseIdle Phase = iota
	// PhaseValidating 正在校验地址。
	PhaseValidating
	// PhaseSending 正在抓取、解析并写入。
	PhaseSending
	// PhaseFinished 提交成功。
	PhaseFinished
	// PhaseFailed 提交失败。
	PhaseFailed
)

var phaseNames = [...]string{
	"Idle",
	"Validating",
	"Sending",
	"Finished",
	"Failed",
}

func (p Phase) String() string {
	if int(p) >= 0 && int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return "Unknown"
}

// AcceptsSubmit 返回该阶段能否接受新的提交。
func (p Phase) AcceptsSubmit() bool {
	return p == PhaseIdle || p == PhaseFailed
}

// State 是当前提交的状态，只能通过 Transition 修改。
type State struct {
	Phase Phase
	URL   string
	Err   error
	// Valid 为 false 表示最近一次校验未通过。
	Valid bool
}

// InitialState 返回空闲状态。
func InitialState() State {
	return State{Phase: PhaseIdle, Valid: true}
}
