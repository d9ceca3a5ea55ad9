// Package view 负责把存储内容和表单状态渲染为 HTML。
package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/iabetor/rssreader/internal/i18n"
	"github.com/iabetor/rssreader/internal/rss"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Renderer 渲染订阅源列表、文章列表、详情弹窗和整页。
// 所有界面文字都通过 Lookup 获取。
type Renderer struct {
	tmpl *template.Template
	lang string
}

// NewRenderer 解析内嵌模板。
func NewRenderer(lang string, lookup i18n.Lookup) (*Renderer, error) {
	if lookup == nil {
		lookup = func(key string) string { return key }
	}
	tmpl, err := template.New("view").
		Funcs(template.FuncMap{"t": func(key string) string { return lookup(key) }}).
		ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("解析模板失败: %w", err)
	}
	return &Renderer{tmpl: tmpl, lang: lang}, nil
}

// postRow 文章列表中的一行。
type postRow struct {
	rss.Post
	Viewed bool
}

// FeedsHTML 渲染订阅源列表。结果只取决于 feeds。
func (r *Renderer) FeedsHTML(feeds []rss.Feed) (template.HTML, error) {
	return r.execute("feeds", feeds)
}

// PostsHTML 渲染文章列表，viewed 中的文章以普通字重显示。
func (r *Renderer) PostsHTML(posts []rss.Post, viewed map[string]bool) (template.HTML, error) {
	rows := make([]postRow, len(posts))
	for i, p := range posts {
		rows[i] = postRow{Post: p, Viewed: viewed[p.ID]}
	}
	return r.execute("posts", rows)
}

// ModalHTML 渲染单篇文章的详情弹窗。
func (r *Renderer) ModalHTML(post rss.Post) (template.HTML, error) {
	return r.execute("modal", post)
}

// page 整页模板的数据。
type page struct {
	Lang  string
	Form  FormState
	Feeds template.HTML
	Posts template.HTML
	Modal *rss.Post
}

// WritePage 渲染整页。modal 非 nil 时同时打开详情弹窗。
func (r *Renderer) WritePage(w io.Writer, form FormState, feeds, posts template.HTML, modal *rss.Post) error {
	return r.tmpl.ExecuteTemplate(w, "page", page{
		Lang:  r.lang,
		Form:  form,
		Feeds: feeds,
		Posts: posts,
		Modal: modal,
	})
}

func (r *Renderer) execute(name string, data interface{}) (template.HTML, error) {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("渲染 %s 失败: %w", name, err)
	}
	// 模板输出已经过 html/template 转义
	return template.HTML(buf.String()), nil
}
