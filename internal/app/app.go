// Package app 组装一个 rssreader 实例：存储、状态机、界面和文案。
package app

import (
	"context"
	"fmt"

	"github.com/iabetor/rssreader/internal/config"
	"github.com/iabetor/rssreader/internal/database"
	"github.com/iabetor/rssreader/internal/i18n"
	"github.com/iabetor/rssreader/internal/logger"
	"github.com/iabetor/rssreader/internal/rss"
	"github.com/iabetor/rssreader/internal/submission"
	"github.com/iabetor/rssreader/internal/view"
)

// App 持有一个会话的全部状态。每个实例相互独立，没有包级共享状态。
type App struct {
	cfg     *config.Config
	lookup  i18n.Lookup
	db      *database.DB
	store   rss.Store
	screen  *view.Screen
	machine *submission.Machine
}

// Option 自定义 App 的组件，主要用于测试。
type Option func(*options)

type options struct {
	fetcher rss.Fetcher
	parser  rss.FeedParser
}

// WithFetcher 替换默认的代理抓取器。
func WithFetcher(f rss.Fetcher) Option {
	return func(o *options) { o.fetcher = f }
}

// WithParser 替换默认的解析器。
func WithParser(p rss.FeedParser) Option {
	return func(o *options) { o.parser = p }
}

// New 根据配置创建 App。
func New(cfg *config.Config, opts ...Option) (*App, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	catalog, err := i18n.Load()
	if err != nil {
		return nil, fmt.Errorf("加载文案失败: %w", err)
	}
	lookup := catalog.Lookup(cfg.I18n.Lang)

	renderer, err := view.NewRenderer(cfg.I18n.Lang, lookup)
	if err != nil {
		return nil, err
	}

	a := &App{
		cfg:    cfg,
		lookup: lookup,
		screen: view.NewScreen(renderer),
	}

	if err := a.openStore(); err != nil {
		return nil, err
	}

	if o.fetcher == nil {
		f, err := rss.NewProxyFetcher(rss.ProxyOptions{
			BaseURL:      cfg.Proxy.BaseURL,
			Timeout:      cfg.Proxy.Timeout(),
			DisableCache: cfg.Proxy.CacheDisabled(),
			MaxBodyBytes: cfg.Proxy.MaxBodyBytes,
			UserAgent:    cfg.Proxy.UserAgent,
		})
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("创建抓取器失败: %w", err)
		}
		o.fetcher = f
	}
	if o.parser == nil {
		o.parser = rss.NewParser()
	}

	a.machine = submission.NewMachine(submission.Deps{
		Store:   a.store,
		Fetcher: o.fetcher,
		Parser:  o.parser,
		UI:      a.screen,
		Lookup:  lookup,
	})
	a.machine.SetOnChange(a.onPhaseChange)

	logger.Infof("[app] 已初始化 (lang=%s, available=%v, store=%s, proxy=%s)",
		cfg.I18n.Lang, catalog.Languages(), cfg.Store.Driver, cfg.Proxy.BaseURL)
	return a, nil
}

func (a *App) openStore() error {
	switch a.cfg.Store.Driver {
	case "sqlite":
		db, err := database.Open()
		if err != nil {
			return err
		}
		store, err := rss.NewSQLStore(db)
		if err != nil {
			db.Close()
			return err
		}
		a.db = db
		a.store = store
	default:
		a.store = rss.NewMemoryStore()
	}
	return nil
}

// Submit 以用户输入的地址执行一次提交。被拒绝（ErrBusy）的提交不会改动表单。
func (a *App) Submit(ctx context.Context, url string) (submission.Outcome, error) {
	return a.machine.Submit(ctx, url)
}

// onPhaseChange 在提交被状态机接受后才把地址写入表单。
func (a *App) onPhaseChange(from, to submission.Phase) {
	logger.Debugf("[app] 阶段变化 %s → %s", from, to)
	if to == submission.PhaseValidating {
		a.screen.SetInput(a.machine.State().URL)
	}
}

// ViewPost 返回文章并标记为已查看。
func (a *App) ViewPost(id string) (rss.Post, bool) {
	post, ok := a.store.Post(id)
	if !ok {
		return rss.Post{}, false
	}
	a.screen.MarkViewed(id)
	return post, true
}

// Phase 返回状态机当前阶段。
func (a *App) Phase() submission.Phase { return a.machine.State().Phase }

// Store 返回订阅存储。
func (a *App) Store() rss.Store { return a.store }

// Screen 返回界面状态。
func (a *App) Screen() *view.Screen { return a.screen }

// Lookup 返回当前语言的文案查找函数。
func (a *App) Lookup() i18n.Lookup { return a.lookup }

// Close 释放资源。
func (a *App) Close() error {
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}
