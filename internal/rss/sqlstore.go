package rss

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iabetor/rssreader/internal/database"
	"github.com/iabetor/rssreader/internal/logger"
)

// SQLStore 基于 SQLite 内存库的存储，提交在同一个事务内完成。
type SQLStore struct {
	db *database.DB
}

var _ Store = (*SQLStore)(nil)

// NewSQLStore 在已打开的数据库上创建存储并执行迁移。
func NewSQLStore(db *database.DB) (*SQLStore, error) {
	if err := db.Migrate(); err != nil {
		return nil, err
	}
	return &SQLStore{db: db}, nil
}

// AddFeedAndPosts 在事务中写入订阅源和条目。地址已存在时返回 ErrDuplicate。
func (s *SQLStore) AddFeedAndPosts(url string, feed Feed, posts []Post) (err error) {
	ctx := context.Background()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("开启事务失败: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				logger.Warnf("[rss] 回滚失败: %v", rbErr)
			}
		}
	}()

	var exists int
	err = tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM feeds WHERE url = ?`, url).Scan(&exists)
	if err != nil {
		return fmt.Errorf("查询订阅地址失败: %w", err)
	}
	if exists > 0 {
		return ErrDuplicate
	}

	if _, err = tx.ExecContext(ctx,
		`INSERT INTO feeds (id, url, title, description) VALUES (?, ?, ?, ?)`,
		feed.ID, url, feed.Title, feed.Description,
	); err != nil {
		return fmt.Errorf("写入订阅源失败: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO posts (id, feed_id, title, description, url) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("准备写入条目失败: %w", err)
	}
	defer stmt.Close()

	for _, p := range posts {
		if _, err = stmt.ExecContext(ctx, p.ID, feed.ID, p.Title, p.Description, p.URL); err != nil {
			return fmt.Errorf("写入条目失败: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("提交事务失败: %w", err)
	}
	return nil
}

// URLs 返回已添加地址的集合。
func (s *SQLStore) URLs() URLSet {
	result := make(URLSet)
	rows, err := s.db.Query(`SELECT url FROM feeds`)
	if err != nil {
		logger.Errorf("[rss] 查询订阅地址失败: %v", err)
		return result
	}
	defer rows.Close()
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			logger.Errorf("[rss] 读取订阅地址失败: %v", err)
			continue
		}
		result[u] = struct{}{}
	}
	return result
}

// Feeds 按添加顺序列出所有订阅源。
func (s *SQLStore) Feeds() []Feed {
	result := make([]Feed, 0)
	rows, err := s.db.Query(`SELECT id, title, description FROM feeds ORDER BY seq`)
	if err != nil {
		logger.Errorf("[rss] 查询订阅源失败: %v", err)
		return result
	}
	defer rows.Close()
	for rows.Next() {
		var f Feed
		if err := rows.Scan(&f.ID, &f.Title, &f.Description); err != nil {
			logger.Errorf("[rss] 读取订阅源失败: %v", err)
			continue
		}
		result = append(result, f)
	}
	return result
}

// Posts 按添加顺序列出所有条目。
func (s *SQLStore) Posts() []Post {
	result := make([]Post, 0)
	rows, err := s.db.Query(`SELECT id, feed_id, title, description, url FROM posts ORDER BY seq`)
	if err != nil {
		logger.Errorf("[rss] 查询条目失败: %v", err)
		return result
	}
	defer rows.Close()
	for rows.Next() {
		var p Post
		if err := rows.Scan(&p.ID, &p.FeedID, &p.Title, &p.Description, &p.URL); err != nil {
			logger.Errorf("[rss] 读取条目失败: %v", err)
			continue
		}
		result = append(result, p)
	}
	return result
}

// Post 按 ID 查找条目。
func (s *SQLStore) Post(id string) (Post, bool) {
	var p Post
	err := s.db.QueryRow(
		`SELECT id, feed_id, title, description, url FROM posts WHERE id = ?`, id,
	).Scan(&p.ID, &p.FeedID, &p.Title, &p.Description, &p.URL)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			logger.Errorf("[rss] 查询条目 %s 失败: %v", id, err)
		}
		return Post{}, false
	}
	return p, true
}
