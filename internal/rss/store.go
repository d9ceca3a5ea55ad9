package rss

import (
	"fmt"
	"sync"
)

// Store 保存本次会话添加的订阅地址、订阅源和条目。
// 只追加，不提供更新和删除。
type Store interface {
	URLs() URLSet
	Feeds() []Feed
	Posts() []Post
	Post(id string) (Post, bool)
	// AddFeedAndPosts 原子地添加地址、订阅源和条目：要么全部成功，要么都不写入。
	AddFeedAndPosts(url string, feed Feed, posts []Post) error
}

// MemoryStore 纯内存存储。
type MemoryStore struct {
	mu        sync.RWMutex
	urls      map[string]string // url -> feed ID
	feeds     []Feed
	posts     []Post
	postIndex map[string]int
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore 创建空的内存存储。
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		urls:      make(map[string]string),
		feeds:     make([]Feed, 0),
		posts:     make([]Post, 0),
		postIndex: make(map[string]int),
	}
}

// AddFeedAndPosts 添加一次成功提交的结果。地址已存在时返回 ErrDuplicate。
func (s *MemoryStore) AddFeedAndPosts(url string, feed Feed, posts []Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.urls[url]; ok {
		return ErrDuplicate
	}
	batch := make(map[string]struct{}, len(posts))
	for _, p := range posts {
		_, seen := batch[p.ID]
		if _, ok := s.postIndex[p.ID]; ok || seen {
			return fmt.Errorf("条目 ID 重复: %s", p.ID)
		}
		batch[p.ID] = struct{}{}
	}

	s.urls[url] = feed.ID
	s.feeds = append(s.feeds, feed)
	for _, p := range posts {
		s.postIndex[p.ID] = len(s.posts)
		s.posts = append(s.posts, p)
	}
	return nil
}

// URLs 返回已添加地址的副本。
func (s *MemoryStore) URLs() URLSet {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make(URLSet, len(s.urls))
	for u := range s.urls {
		result[u] = struct{}{}
	}
	return result
}

// Feeds 按添加顺序列出所有订阅源。
func (s *MemoryStore) Feeds() []Feed {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]Feed, len(s.feeds))
	copy(result, s.feeds)
	return result
}

// Posts 按添加顺序列出所有条目。
func (s *MemoryStore) Posts() []Post {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]Post, len(s.posts))
	copy(result, s.posts)
	return result
}

// Post 按 ID 查找条目。
func (s *MemoryStore) Post(id string) (Post, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.postIndex[id]
	if !ok {
		return Post{}, false
	}
	return s.posts[i], true
}
