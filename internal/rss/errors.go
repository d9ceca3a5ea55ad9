package rss

import "errors"

// 提交流程中可能出现的错误类型，均可通过重新提交恢复。
var (
	// ErrRequired 地址为空。
	ErrRequired = errors.New("url is required")
	// ErrInvalidURL 地址不是合法的绝对 URL。
	ErrInvalidURL = errors.New("invalid url")
	// ErrDuplicate 地址已经添加过。
	ErrDuplicate = errors.New("feed already exists")
	// ErrNetwork 请求未能完成（DNS、超时、连接被拒绝、代理不可用）。
	ErrNetwork = errors.New("network error")
	// ErrParse 内容不是合法的 XML 或缺少 RSS 必需结构。
	ErrParse = errors.New("parse error")
)

// ErrBodyTooLarge 代理响应超过 MaxBodyBytes，总是与 ErrNetwork 一起返回。
var ErrBodyTooLarge = errors.New("response body too large")
