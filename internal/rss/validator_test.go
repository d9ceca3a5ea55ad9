package rss

import (
	"errors"
	"testing"
)

func TestValidate(t *testing.T) {
	known := URLSet{"https://example.com/feed.xml": {}}

	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"空字符串", "", ErrRequired},
		{"只有空白", "   \t", ErrRequired},
		{"不是 URL", "not a url", ErrInvalidURL},
		{"缺少协议", "example.com/feed.xml", ErrInvalidURL},
		{"不支持的协议", "ftp://example.com/feed.xml", ErrInvalidURL},
		{"缺少主机", "https://", ErrInvalidURL},
		{"主机含空格", "https://exa mple.com/rss", ErrInvalidURL},
		{"已存在", "https://example.com/feed.xml", ErrDuplicate},
		{"合法地址", "https://example.com/other.xml", nil},
		{"带端口的 IP", "http://127.0.0.1:8080/rss", nil},
		{"localhost", "http://localhost/rss", nil},
		{"国际化域名", "https://例子.测试/rss", nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := Validate(tc.input, known)
			if tc.want == nil {
				if err != nil {
					t.Fatalf("Validate(%q) 期望成功，得到 %v", tc.input, err)
				}
				return
			}
			if !errors.Is(err, tc.want) {
				t.Fatalf("Validate(%q) = %v, 期望 %v", tc.input, err, tc.want)
			}
		})
	}
}

func TestValidateOrder(t *testing.T) {
	// 格式错误优先于重复检查
	known := URLSet{"not a url": {}}
	if err := Validate("not a url", known); !errors.Is(err, ErrInvalidURL) {
		t.Fatalf("期望格式错误，得到 %v", err)
	}

	// 重复检查不做规范化
	known = URLSet{"https://example.com/feed.xml": {}}
	if err := Validate("https://example.com/feed.xml/", known); err != nil {
		t.Fatalf("末尾斜杠不同应视为不同地址: %v", err)
	}
}

func TestURLSetHas(t *testing.T) {
	var empty URLSet
	if empty.Has("x") {
		t.Fatal("nil 集合不应包含任何地址")
	}
	s := URLSet{"a": {}}
	if !s.Has("a") || s.Has("b") {
		t.Fatal("Has 结果不正确")
	}
}
