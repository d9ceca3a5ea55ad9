package view

import (
	"html/template"
	"io"
	"sync"

	"github.com/iabetor/rssreader/internal/logger"
	"github.com/iabetor/rssreader/internal/rss"
	"github.com/iabetor/rssreader/internal/submission"
)

// FormState 表单的显示状态。
type FormState struct {
	Value          string
	ReadOnly       bool
	SubmitDisabled bool
	Invalid        bool
	Feedback       string
	FeedbackKind   string
}

// Screen 保存一个会话的界面状态，并实现 submission.UI。
// 订阅源和文章列表在 Render 时生成并缓存，页面请求直接使用缓存。
type Screen struct {
	mu       sync.RWMutex
	renderer *Renderer
	form     FormState
	viewed   map[string]bool
	posts    []rss.Post
	feeds    template.HTML
	postList template.HTML
}

var _ submission.UI = (*Screen)(nil)

// NewScreen 创建界面并渲染空列表。
func NewScreen(r *Renderer) *Screen {
	s := &Screen{
		renderer: r,
		viewed:   make(map[string]bool),
	}
	s.Render(nil, nil)
	return s
}

// SetInput 记录用户在输入框中填写的内容。
func (s *Screen) SetInput(value string) {
	s.mu.Lock()
	s.form.Value = value
	s.mu.Unlock()
}

// Form 返回当前表单状态。
func (s *Screen) Form() FormState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.form
}

// LockForm 禁用提交按钮并将输入框设为只读。
func (s *Screen) LockForm() {
	s.mu.Lock()
	s.form.ReadOnly = true
	s.form.SubmitDisabled = true
	s.mu.Unlock()
}

// UnlockForm 恢复表单。
func (s *Screen) UnlockForm() {
	s.mu.Lock()
	s.form.ReadOnly = false
	s.form.SubmitDisabled = false
	s.mu.Unlock()
}

// MarkInput 设置输入框的 is-invalid 状态。
func (s *Screen) MarkInput(invalid bool) {
	s.mu.Lock()
	s.form.Invalid = invalid
	s.mu.Unlock()
}

// ClearInput 清空输入框。
func (s *Screen) ClearInput() {
	s.mu.Lock()
	s.form.Value = ""
	s.mu.Unlock()
}

// ShowMessage 在反馈区域显示提示。
func (s *Screen) ShowMessage(kind submission.MessageKind, text string) {
	s.mu.Lock()
	s.form.Feedback = text
	s.form.FeedbackKind = kind.String()
	s.mu.Unlock()
}

// Render 根据存储内容重新生成两个列表。
func (s *Screen) Render(feeds []rss.Feed, posts []rss.Post) {
	s.mu.Lock()
	defer s.mu.Unlock()

	feedsHTML, err := s.renderer.FeedsHTML(feeds)
	if err != nil {
		logger.Errorf("[view] %v", err)
		return
	}
	s.posts = append(s.posts[:0], posts...)
	postsHTML, err := s.renderer.PostsHTML(s.posts, s.viewed)
	if err != nil {
		logger.Errorf("[view] %v", err)
		return
	}
	s.feeds = feedsHTML
	s.postList = postsHTML
}

// MarkViewed 标记文章已查看并刷新文章列表。
func (s *Screen) MarkViewed(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.viewed[id] {
		return
	}
	s.viewed[id] = true
	postsHTML, err := s.renderer.PostsHTML(s.posts, s.viewed)
	if err != nil {
		logger.Errorf("[view] %v", err)
		return
	}
	s.postList = postsHTML
}

// Viewed 返回文章是否已查看。
func (s *Screen) Viewed(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.viewed[id]
}

// WritePage 输出整页，modal 非 nil 时打开详情弹窗。
func (s *Screen) WritePage(w io.Writer, modal *rss.Post) error {
	s.mu.RLock()
	form, feeds, posts := s.form, s.feeds, s.postList
	s.mu.RUnlock()
	return s.renderer.WritePage(w, form, feeds, posts, modal)
}
