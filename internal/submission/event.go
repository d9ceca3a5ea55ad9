package submission

import "github.com/iabetor/rssreader/internal/rss"

// Event 驱动状态转换的事件。
type Event interface{ isEvent() }

// Submitted 用户提交了表单。
type Submitted struct{ URL string }

// Validated 校验完成，Err 为 nil 表示通过。
type Validated struct{ Err error }

// Fetched 抓取完成。
type Fetched struct {
	Content string
	Err     error
}

// Parsed 解析完成。
type Parsed struct {
	Result rss.Parsed
	Err    error
}

// Committed 写入存储完成。
type Committed struct{ Err error }

// Settled 结果已展示给用户，可以回到空闲。
type Settled struct{}

func (Submitted) isEvent() {}
func (Validated) isEvent() {}
func (Fetched) isEvent() {}
func (Parsed) isEvent() {}
func (Committed) isEvent() {}
func (Settled) isEvent() {}

// Effect 由 Transition 返回、由 Machine 执行的副作用。
type Effect interface{ isEffect() }

// MessageKind 提示信息的类型。
type MessageKind int

const (
	MessageSuccess MessageKind = iota
	MessageDanger
)

func (k MessageKind) String() string {
	if k == MessageSuccess {
		return "success"
	}
	return "danger"
}

type (
	// Validate 校验地址。
	Validate struct{ URL string }
	// Fetch 通过代理抓取地址。
	Fetch struct{ URL string }
	// Parse 解析抓取到的内容。
	Parse struct{ Content string }
	// Commit 写入存储。
	Commit struct {
		URL    string
		Result rss.Parsed
	}
	// LockForm 禁用提交按钮并将输入框设为只读。
	LockForm struct{}
	// UnlockForm 恢复提交按钮和输入框。
	UnlockForm struct{}
	// MarkInput 标记输入框是否有效。
	MarkInput struct{ Invalid bool }
	// ClearInput 清空输入框。
	ClearInput struct{}
	// ShowMessage 显示提示信息，Key 为文案 key。
	ShowMessage struct {
		Key  string
		Kind MessageKind
	}
	// Render 根据存储重新渲染订阅源和文章列表。
	Render struct{}
	// Settle 通知状态机回到空闲。
	Settle struct{}
)

func (Validate) isEffect() {}
func (Fetch) isEffect() {}
func (Parse) isEffect() {}
func (Commit) isEffect() {}
func (LockForm) isEffect() {}
func (UnlockForm) isEffect() {}
func (MarkInput) isEffect() {}
func (ClearInput) isEffect() {}
func (ShowMessage) isEffect() {}
func (Render) isEffect() {}
func (Settle) isEffect() {}
