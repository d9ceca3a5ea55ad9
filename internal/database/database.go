package database

import (
	"database/sql"
	"fmt"

	"github.com/iabetor/rssreader/internal/logger"
	_ "modernc.org/sqlite"
)

// memoryDSN 只存在于内存中的数据库，进程退出后数据即丢失。
const memoryDSN = ":memory:"

// DB 是 SQLite 数据库连接。
type DB struct {
	*sql.DB
}

// Open 打开一个新的内存数据库。
func Open() (*DB, error) {
	db, err := sql.Open("sqlite", memoryDSN)
	if err != nil {
		return nil, fmt.Errorf("打开数据库失败: %w", err)
	}

	// 每个连接都有独立的内存库，只能保留一个连接
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("启用外键约束失败: %w", err)
	}

	logger.Info("[database] 内存数据库已打开")
	return &DB{DB: db}, nil
}

// Migrate 创建订阅源与条目表。
func (db *DB) Migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS feeds (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			url TEXT NOT NULL UNIQUE,
			title TEXT NOT NULL,
			description TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS posts (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			feed_id TEXT NOT NULL REFERENCES feeds(id),
			title TEXT NOT NULL,
			description TEXT NOT NULL,
			url TEXT NOT NULL
		)`,
	}
	for _, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("数据库迁移失败: %w", err)
		}
	}

	if _, err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_posts_feed_id ON posts(feed_id)`); err != nil {
		logger.Warnf("[database] 创建索引失败: %v", err)
	}

	logger.Info("[database] 数据库迁移完成")
	return nil
}

// Close 关闭数据库连接。
func (db *DB) Close() error {
	if db.DB != nil {
		return db.DB.Close()
	}
	return nil
}
