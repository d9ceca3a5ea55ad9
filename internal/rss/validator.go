package rss

import (
	"fmt"
	"net"
	"net/url"
	"strings"
	"unicode"

	"golang.org/x/net/idna"
)

// Validate 在发起网络请求前检查候选地址。
// 检查顺序为 必填 → 格式 → 重复，遇到第一个错误即返回。
func Validate(candidate string, known URLSet) error {
	if strings.TrimSpace(candidate) == "" {
		return ErrRequired
	}
	if err := checkAbsoluteURL(candidate); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if known.Has(candidate) {
		return ErrDuplicate
	}
	return nil
}

// checkAbsoluteURL 要求 http/https 协议、非空主机，且主机名为 IP 或合法域名。
func checkAbsoluteURL(raw string) error {
	if strings.IndexFunc(raw, unicode.IsSpace) >= 0 {
		return fmt.Errorf("contains whitespace")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
	case "":
		return fmt.Errorf("missing scheme")
	default:
		return fmt.Errorf("unsupported scheme %q", u.Scheme)
	}

	host := u.Hostname()
	if host == "" {
		return fmt.Errorf("missing host")
	}
	if net.ParseIP(host) != nil {
		return nil
	}
	if _, err := idna.Lookup.ToASCII(host); err != nil {
		return fmt.Errorf("bad host %q: %w", host, err)
	}
	return nil
}
