package submission

import (
	"context"
	"errors"
	"sync"

	"github.com/iabetor/rssreader/internal/i18n"
	"github.com/iabetor/rssreader/internal/logger"
	"github.com/iabetor/rssreader/internal/rss"
)

// ErrBusy 上一次提交尚未结束。
var ErrBusy = errors.New("submission in progress")

// UI 是状态机驱动的界面，由渲染层实现。
type UI interface {
	LockForm()
	UnlockForm()
	MarkInput(invalid bool)
	ClearInput()
	ShowMessage(kind MessageKind, text string)
	Render(feeds []rss.Feed, posts []rss.Post)
}

// Deps 状态机依赖的组件。
type Deps struct {
	Store   rss.Store
	Fetcher rss.Fetcher
	Parser  rss.FeedParser
	UI      UI
	Lookup  i18n.Lookup
}

// Outcome 一次提交的最终结果。
type Outcome struct {
	Phase   Phase // PhaseFinished 或 PhaseFailed
	URL     string
	Err     error
	Message string
}

// Machine 持有提交状态并执行 Transition 返回的副作用。
// 同一时间只处理一次提交，进行中的提交无法取消。
type Machine struct {
	mu       sync.Mutex
	state    State
	deps     Deps
	onChange func(from, to Phase)
}

// NewMachine 创建一个初始状态为 Idle 的状态机。
func NewMachine(deps Deps) *Machine {
	if deps.UI == nil {
		deps.UI = nopUI{}
	}
	if deps.Lookup == nil {
		deps.Lookup = func(key string) string { return key }
	}
	return &Machine{
		state: InitialState(),
		deps:  deps,
	}
}

// SetOnChange 注册阶段变化时的回调函数。
func (m *Machine) SetOnChange(fn func(from, to Phase)) {
	m.mu.Lock()
	m.onChange = fn
	m.mu.Unlock()
}

// State 返回当前状态。
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Submit 处理一次表单提交，直到得出结果并回到 Idle 后返回。
// 有提交正在进行时返回 ErrBusy。
func (m *Machine) Submit(ctx context.Context, url string) (Outcome, error) {
	m.mu.Lock()
	if !m.state.Phase.AcceptsSubmit() {
		phase := m.state.Phase
		m.mu.Unlock()
		logger.Warnf("[submission] 拒绝提交 %s: 当前阶段 %s", url, phase)
		return Outcome{}, ErrBusy
	}
	m.mu.Unlock()

	// 提交开始后不再响应调用方的取消
	ctx = context.WithoutCancel(ctx)

	var outcome Outcome
	effects, ok := m.apply(Submitted{URL: url}, &outcome)
	if !ok {
		return Outcome{}, ErrBusy
	}

	for len(effects) > 0 {
		eff := effects[0]
		effects = effects[1:]

		ev := m.run(ctx, eff)
		if ev == nil {
			continue
		}
		more, _ := m.apply(ev, &outcome)
		effects = append(effects, more...)
	}
	return outcome, nil
}

// apply 在锁内执行一次状态转换。进入 Finished/Failed 时记录结果。
// 第二个返回值为 false 表示事件被忽略（阶段不变且没有副作用）。
func (m *Machine) apply(ev Event, outcome *Outcome) ([]Effect, bool) {
	m.mu.Lock()
	prev := m.state
	next, effects := Transition(prev, ev)
	m.state = next
	onChange := m.onChange
	m.mu.Unlock()

	if next.Phase == prev.Phase {
		return effects, len(effects) > 0
	}

	logger.Infof("[submission] %s → %s (%s)", prev.Phase, next.Phase, next.URL)
	switch next.Phase {
	case PhaseFinished:
		*outcome = Outcome{Phase: PhaseFinished, URL: next.URL, Message: m.deps.Lookup(i18n.KeySuccess)}
	case PhaseFailed:
		*outcome = Outcome{Phase: PhaseFailed, URL: next.URL, Err: next.Err, Message: m.deps.Lookup(MessageKey(next.Err))}
		logger.Warnf("[submission] 提交 %s 失败: %v", next.URL, next.Err)
	}
	if onChange != nil {
		onChange(prev.Phase, next.Phase)
	}
	return effects, true
}

// run 执行一个副作用，需要继续推进状态时返回下一个事件。
func (m *Machine) run(ctx context.Context, eff Effect) Event {
	ui := m.deps.UI
	switch e := eff.(type) {
	case Validate:
		return Validated{Err: rss.Validate(e.URL, m.deps.Store.URLs())}
	case Fetch:
		content, err := m.deps.Fetcher.Fetch(ctx, e.URL)
		return Fetched{Content: content, Err: err}
	case Parse:
		result, err := m.deps.Parser.Parse(e.Content)
		return Parsed{Result: result, Err: err}
	case Commit:
		err := m.deps.Store.AddFeedAndPosts(e.URL, e.Result.Feed, e.Result.Posts)
		if err == nil {
			logger.Infof("[submission] 已添加 %s: %s，%d 条", e.URL, e.Result.Feed.Title, len(e.Result.Posts))
		}
		return Committed{Err: err}
	case LockForm:
		ui.LockForm()
	case UnlockForm:
		ui.UnlockForm()
	case MarkInput:
		ui.MarkInput(e.Invalid)
	case ClearInput:
		ui.ClearInput()
	case ShowMessage:
		ui.ShowMessage(e.Kind, m.deps.Lookup(e.Key))
	case Render:
		ui.Render(m.deps.Store.Feeds(), m.deps.Store.Posts())
	case Settle:
		return Settled{}
	}
	return nil
}

type nopUI struct{}

func (nopUI) LockForm() {}
func (nopUI) UnlockForm() {}
func (nopUI) MarkInput(bool) {}
func (nopUI) ClearInput() {}
func (nopUI) ShowMessage(MessageKind, string) {}
func (nopUI) Render([]rss.Feed, []rss.Post) {}
