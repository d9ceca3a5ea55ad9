package submission

import (
	"errors"

	"github.com/iabetor/rssreader/internal/i18n"
	"github.com/iabetor/rssreader/internal/rss"
)

// Transition 根据当前状态和事件计算下一个状态以及要执行的副作用。
// 合法的转换：
//
//	Idle/Failed → Validating  （提交）
//	Validating  → Sending     （校验通过）
//	Validating  → Failed      （校验失败）
//	Sending     → Sending     （抓取/解析成功，继续下一步）
//	Sending     → Finished    （写入成功）
//	Sending     → Failed      （抓取、解析或写入失败）
//	Finished/Failed → Idle    （结果已展示）
//
// 其余组合保持状态不变且不产生副作用，所以重复事件不会重复触发副作用。
func Transition(s State, ev Event) (State, []Effect) {
	switch e := ev.(type) {
	case Submitted:
		if !s.Phase.AcceptsSubmit() {
			return s, nil
		}
		return State{Phase: PhaseValidating, URL: e.URL, Valid: s.Valid}, []Effect{Validate{URL: e.URL}}

	case Validated:
		if s.Phase != PhaseValidating {
			return s, nil
		}
		if e.Err != nil {
			next := State{Phase: PhaseFailed, URL: s.URL, Err: e.Err, Valid: false}
			return next, append([]Effect{MarkInput{Invalid: true}}, failedEffects(e.Err)...)
		}
		next := State{Phase: PhaseSending, URL: s.URL, Valid: true}
		return next, []Effect{MarkInput{Invalid: false}, LockForm{}, Fetch{URL: s.URL}}

	case Fetched:
		if s.Phase != PhaseSending {
			return s, nil
		}
		if e.Err != nil {
			return failed(s, e.Err)
		}
		return s, []Effect{Parse{Content: e.Content}}

	case Parsed:
		if s.Phase != PhaseSending {
			return s, nil
		}
		if e.Err != nil {
			return failed(s, e.Err)
		}
		return s, []Effect{Commit{URL: s.URL, Result: e.Result}}

	case Committed:
		if s.Phase != PhaseSending {
			return s, nil
		}
		if e.Err != nil {
			return failed(s, e.Err)
		}
		next := State{Phase: PhaseFinished, URL: s.URL, Valid: true}
		return next, []Effect{
			UnlockForm{},
			ClearInput{},
			ShowMessage{Key: i18n.KeySuccess, Kind: MessageSuccess},
			Render{},
			Settle{},
		}

	case Settled:
		if s.Phase != PhaseFinished && s.Phase != PhaseFailed {
			return s, nil
		}
		return State{Phase: PhaseIdle, Valid: s.Valid}, nil
	}
	return s, nil
}

func failed(s State, err error) (State, []Effect) {
	return State{Phase: PhaseFailed, URL: s.URL, Err: err, Valid: s.Valid}, failedEffects(err)
}

func failedEffects(err error) []Effect {
	return []Effect{
		UnlockForm{},
		ShowMessage{Key: MessageKey(err), Kind: MessageDanger},
		Settle{},
	}
}

// MessageKey 返回错误对应的文案 key。
func MessageKey(err error) string {
	switch {
	case err == nil:
		return i18n.KeySuccess
	case errors.Is(err, rss.ErrRequired):
		return i18n.KeyRequired
	case errors.Is(err, rss.ErrInvalidURL):
		return i18n.KeyInvalidURL
	case errors.Is(err, rss.ErrDuplicate):
		return i18n.KeyDuplicate
	case errors.Is(err, rss.ErrNetwork):
		return i18n.KeyNetwork
	case errors.Is(err, rss.ErrParse):
		return i18n.KeyParse
	case errors.Is(err, ErrBusy):
		return i18n.KeyBusy
	}
	return i18n.KeyUnknown
}
