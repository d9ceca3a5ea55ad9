package rss

import (
	"fmt"
	"html"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/mmcdole/gofeed"
)

// FeedParser 将原始内容解析为 Feed 与 Post 列表。
type FeedParser interface {
	Parse(raw string) (Parsed, error)
}

// Parser 基于 gofeed 的解析器。
// 标题和描述会去除 HTML 标签，只保留纯文本。
type Parser struct {
	mu     sync.Mutex
	fp     *gofeed.Parser
	policy *bluemonday.Policy
	newID  func() string
}

// ParserOption 解析器可选项。
type ParserOption func(*Parser)

// WithIDFunc 替换 ID 生成函数，默认使用随机 UUID。
func WithIDFunc(fn func() string) ParserOption {
	return func(p *Parser) {
		if fn != nil {
			p.newID = fn
		}
	}
}

// NewParser 创建解析器。
func NewParser(opts ...ParserOption) *Parser {
	p := &Parser{
		fp:     gofeed.NewParser(),
		policy: bluemonday.StrictPolicy(),
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse 解析 raw。内容无法识别，或者频道缺少 title/description、
// 条目缺少 title/description/link 时返回 ErrParse。
// 输出的 Posts 保持文档中 item 的顺序。
func (p *Parser) Parse(raw string) (Parsed, error) {
	p.mu.Lock()
	doc, err := p.fp.ParseString(raw)
	p.mu.Unlock()
	if err != nil {
		return Parsed{}, fmt.Errorf("%w: %v", ErrParse, err)
	}

	feed := Feed{
		Title:       p.cleanText(doc.Title),
		Description: p.cleanText(doc.Description),
	}
	if feed.Title == "" {
		return Parsed{}, fmt.Errorf("%w: feed has no title", ErrParse)
	}
	if feed.Description == "" {
		return Parsed{}, fmt.Errorf("%w: feed has no description", ErrParse)
	}

	posts := make([]Post, 0, len(doc.Items))
	for i, item := range doc.Items {
		post, err := p.convertItem(item)
		if err != nil {
			return Parsed{}, fmt.Errorf("%w: item %d: %v", ErrParse, i+1, err)
		}
		posts = append(posts, post)
	}

	// ID 在结构校验全部通过后再分配
	feed.ID = p.newID()
	for i := range posts {
		posts[i].ID = p.newID()
		posts[i].FeedID = feed.ID
	}
	return Parsed{Feed: feed, Posts: posts}, nil
}

// convertItem 将 gofeed 条目转换为 Post，描述为空时退回到正文内容。
func (p *Parser) convertItem(item *gofeed.Item) (Post, error) {
	if item == nil {
		return Post{}, fmt.Errorf("empty item")
	}

	title := p.cleanText(item.Title)
	if title == "" {
		return Post{}, fmt.Errorf("missing title")
	}

	description := p.cleanText(item.Description)
	if description == "" {
		description = p.cleanText(item.Content)
	}
	if description == "" {
		return Post{}, fmt.Errorf("missing description")
	}

	link := strings.TrimSpace(item.Link)
	if link == "" && len(item.Links) > 0 {
		link = strings.TrimSpace(item.Links[0])
	}
	if link == "" {
		return Post{}, fmt.Errorf("missing link")
	}

	return Post{
		Title:       title,
		Description: description,
		URL:         link,
	}, nil
}

// cleanText 剥离 HTML 标签、还原实体并合并连续空白。
func (p *Parser) cleanText(s string) string {
	if s == "" {
		return ""
	}
	s = p.policy.Sanitize(s)
	s = html.UnescapeString(s)
	return strings.Join(strings.Fields(s), " ")
}
