// Package rss 提供订阅地址校验、经代理抓取、解析以及内存存储功能。
package rss

// Feed 订阅源信息。每次成功提交创建一个，之后不再修改。
type Feed struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Post 订阅源条目，随所属 Feed 一起批量创建。
type Post struct {
	ID          string `json:"id"`
	FeedID      string `json:"feed_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
}

// Parsed 是一次解析的结果。
type Parsed struct {
	Feed  Feed
	Posts []Post
}

// URLSet 已添加的订阅地址集合，按原始字符串精确匹配。
type URLSet map[string]struct{}

// Has 判断地址是否已存在。
func (s URLSet) Has(url string) bool {
	_, ok := s[url]
	return ok
}
