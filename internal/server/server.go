// Package server 通过 HTTP 提供订阅表单页面和 JSON 接口。
package server

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/iabetor/rssreader/internal/app"
	"github.com/iabetor/rssreader/internal/i18n"
	"github.com/iabetor/rssreader/internal/logger"
	"github.com/iabetor/rssreader/internal/rss"
	"github.com/iabetor/rssreader/internal/submission"
)

const shutdownTimeout = 10 * time.Second

// Server 把 App 暴露为 HTTP 服务。
type Server struct {
	app  *app.App
	echo *echo.Echo
}

// New 创建服务并注册路由。
func New(a *app.App) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:   true,
		LogURI:      true,
		LogError:    true,
		LogMethod:   true,
		LogLatency:  true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			if v.Error == nil {
				logger.Infow("[server] 请求完成",
					"method", v.Method,
					"uri", v.URI,
					"status", v.Status,
					"latency_ms", v.Latency.Milliseconds())
			} else {
				logger.Warnf("[server] 请求失败 %s %s -> %d (%dms): %v",
					v.Method, v.URI, v.Status, v.Latency.Milliseconds(), v.Error)
			}
			return nil
		},
	}))
	e.Use(middleware.Recover())

	s := &Server{app: a, echo: e}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.echo.GET("/", s.handleIndex)
	s.echo.POST("/", s.handleSubmitForm)
	s.echo.GET("/posts/:id", s.handleViewPost)
	s.echo.GET("/api/feeds", s.handleListFeeds)
	s.echo.POST("/api/feeds", s.handleSubmitJSON)
	s.echo.GET("/healthz", s.handleHealth)
}

// Handler 返回可直接挂载的 http.Handler。
func (s *Server) Handler() http.Handler { return s.echo }

// ListenAndServe 监听 addr，ctx 取消后优雅关闭。
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Infof("[server] 开始监听 %s", addr)
		errCh <- s.echo.Start(addr)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("[server] 正在关闭...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.echo.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}

func (s *Server) handleIndex(c echo.Context) error {
	return s.renderPage(c, http.StatusOK, nil)
}

func (s *Server) handleSubmitForm(c echo.Context) error {
	out, err := s.app.Submit(c.Request().Context(), c.FormValue("url"))
	if errors.Is(err, submission.ErrBusy) {
		return c.String(http.StatusConflict, s.app.Lookup()(i18n.KeyBusy))
	}
	if err != nil {
		return err
	}
	return s.renderPage(c, statusFor(out), nil)
}

func (s *Server) handleViewPost(c echo.Context) error {
	post, ok := s.app.ViewPost(c.Param("id"))
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "post not found")
	}
	return s.renderPage(c, http.StatusOK, &post)
}

// listResponse GET /api/feeds 的响应。
type listResponse struct {
	Feeds []rss.Feed `json:"feeds"`
	Posts []rss.Post `json:"posts"`
}

func (s *Server) handleListFeeds(c echo.Context) error {
	store := s.app.Store()
	resp := listResponse{Feeds: store.Feeds(), Posts: store.Posts()}
	if resp.Feeds == nil {
		resp.Feeds = []rss.Feed{}
	}
	if resp.Posts == nil {
		resp.Posts = []rss.Post{}
	}
	return c.JSON(http.StatusOK, resp)
}

type submitRequest struct {
	URL string `json:"url"`
}

type submitResponse struct {
	Phase   string `json:"phase"`
	Message string `json:"message"`
}

func (s *Server) handleSubmitJSON(c echo.Context) error {
	var req submitRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	out, err := s.app.Submit(c.Request().Context(), req.URL)
	if errors.Is(err, submission.ErrBusy) {
		return c.JSON(http.StatusConflict, submitResponse{
			Phase:   s.app.Phase().String(),
			Message: s.app.Lookup()(i18n.KeyBusy),
		})
	}
	if err != nil {
		return err
	}
	return c.JSON(statusFor(out), submitResponse{Phase: out.Phase.String(), Message: out.Message})
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) renderPage(c echo.Context, status int, modal *rss.Post) error {
	var buf bytes.Buffer
	if err := s.app.Screen().WritePage(&buf, modal); err != nil {
		return err
	}
	return c.HTMLBlob(status, buf.Bytes())
}

func statusFor(out submission.Outcome) int {
	if out.Phase == submission.PhaseFailed {
		return http.StatusUnprocessableEntity
	}
	return http.StatusOK
}
