package rss

import (
	"errors"
	"fmt"
	"testing"
)

const testAtomFeed = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>Atom Blog</title>
  <subtitle>Atom 副标题</subtitle>
  <entry>
    <title>Atom 文章</title>
    <link href="https://example.com/atom/1"/>
    <summary>Atom 格式的摘要</summary>
    <updated>2026-02-19T09:00:00+08:00</updated>
  </entry>
</feed>`

// sequenceIDs 返回可预测的 ID 生成函数。
func sequenceIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func TestParseRSS(t *testing.T) {
	p := NewParser(WithIDFunc(sequenceIDs()))
	got, err := p.Parse(testRSSFeed)
	if err != nil {
		t.Fatalf("Parse 失败: %v", err)
	}

	if got.Feed.Title != "Test Blog" || got.Feed.Description != "A test RSS feed" {
		t.Errorf("Feed 不匹配: %+v", got.Feed)
	}
	if got.Feed.ID != "id-1" {
		t.Errorf("Feed ID 不匹配: %s", got.Feed.ID)
	}
	if len(got.Posts) != 3 {
		t.Fatalf("期望 3 条，得到 %d 条", len(got.Posts))
	}

	// 保持文档顺序
	wantTitles := []string{"第一篇文章", "AI 技术前沿", "第三篇普通文章"}
	for i, post := range got.Posts {
		if post.Title != wantTitles[i] {
			t.Errorf("第 %d 条标题为 %q，期望 %q", i, post.Title, wantTitles[i])
		}
		if post.FeedID != got.Feed.ID {
			t.Errorf("第 %d 条 FeedID 不匹配: %s", i, post.FeedID)
		}
		if want := fmt.Sprintf("id-%d", i+2); post.ID != want {
			t.Errorf("第 %d 条 ID 为 %s，期望 %s", i, post.ID, want)
		}
	}
	if got.Posts[1].URL != "https://example.com/post/2" {
		t.Errorf("链接不匹配: %s", got.Posts[1].URL)
	}
}

func TestParseStripsHTML(t *testing.T) {
	p := NewParser()
	got, err := p.Parse(testRSSFeed)
	if err != nil {
		t.Fatalf("Parse 失败: %v", err)
	}
	if got.Posts[0].Description != "这是第一篇文章的内容，包含 HTML 标签。" {
		t.Errorf("HTML 应被剥离，实际: %s", got.Posts[0].Description)
	}
}

func TestParseMinimalDocument(t *testing.T) {
	// 缺少 </channel> 的最小文档也应能解析
	raw := `<rss><channel><title>T</title><description>D</description><item><title>P1</title><description>D1</description><link>https://x/1</link></item></rss>`

	got, err := NewParser().Parse(raw)
	if err != nil {
		t.Fatalf("Parse 失败: %v", err)
	}
	if got.Feed.Title != "T" || got.Feed.Description != "D" {
		t.Errorf("Feed 不匹配: %+v", got.Feed)
	}
	if len(got.Posts) != 1 {
		t.Fatalf("期望 1 条，得到 %d 条", len(got.Posts))
	}
	post := got.Posts[0]
	if post.Title != "P1" || post.Description != "D1" || post.URL != "https://x/1" {
		t.Errorf("Post 不匹配: %+v", post)
	}
}

func TestParseAtom(t *testing.T) {
	got, err := NewParser().Parse(testAtomFeed)
	if err != nil {
		t.Fatalf("Parse Atom 失败: %v", err)
	}
	if got.Feed.Title != "Atom Blog" {
		t.Errorf("Atom 标题不匹配: %s", got.Feed.Title)
	}
	if len(got.Posts) != 1 || got.Posts[0].URL != "https://example.com/atom/1" {
		t.Errorf("Atom 条目不匹配: %+v", got.Posts)
	}
}

func TestParseNoItems(t *testing.T) {
	raw := `<rss version="2.0"><channel><title>Empty</title><description>nothing yet</description></channel></rss>`
	got, err := NewParser().Parse(raw)
	if err != nil {
		t.Fatalf("没有条目的订阅源应解析成功: %v", err)
	}
	if len(got.Posts) != 0 {
		t.Errorf("期望 0 条，得到 %d 条", len(got.Posts))
	}
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"空内容", ""},
		{"不是 XML", "not xml"},
		{"HTML 页面", "<html><body><p>hello</p></body></html>"},
		{"频道缺少标题", `<rss><channel><description>D</description></channel></rss>`},
		{"频道缺少描述", `<rss><channel><title>T</title></channel></rss>`},
		{"条目缺少标题", `<rss><channel><title>T</title><description>D</description><item><description>D1</description><link>https://x/1</link></item></channel></rss>`},
		{"条目缺少描述", `<rss><channel><title>T</title><description>D</description><item><title>P1</title><link>https://x/1</link></item></channel></rss>`},
		{"条目缺少链接", `<rss><channel><title>T</title><description>D</description><item><title>P1</title><description>D1</description></item></channel></rss>`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ids := 0
			p := NewParser(WithIDFunc(func() string { ids++; return "x" }))
			_, err := p.Parse(tc.raw)
			if !errors.Is(err, ErrParse) {
				t.Fatalf("期望 ErrParse，得到 %v", err)
			}
			if ids != 0 {
				t.Errorf("解析失败时不应分配 ID，实际分配 %d 个", ids)
			}
		})
	}
}

func TestParseDefaultIDsUnique(t *testing.T) {
	p := NewParser()
	a, err := p.Parse(testRSSFeed)
	if err != nil {
		t.Fatalf("Parse 失败: %v", err)
	}
	b, err := p.Parse(testRSSFeed)
	if err != nil {
		t.Fatalf("Parse 失败: %v", err)
	}

	seen := make(map[string]bool)
	for _, parsed := range []Parsed{a, b} {
		ids := []string{parsed.Feed.ID}
		for _, post := range parsed.Posts {
			ids = append(ids, post.ID)
		}
		for _, id := range ids {
			if id == "" || seen[id] {
				t.Fatalf("ID 为空或重复: %q", id)
			}
			seen[id] = true
		}
	}
}
