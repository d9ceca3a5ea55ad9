// Package i18n 提供界面文案的多语言查找表。
package i18n

import (
	"embed"
	"fmt"
	"path"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

//go:embed locales/*.yaml
var localesFS embed.FS

// Lookup 按 key 查找文案，找不到时返回 key 本身。
type Lookup func(key string) string

// 提交结果对应的文案 key。界面标签的 key 直接写在模板中。
const (
	KeyRequired   = "errors.required"
	KeyInvalidURL = "errors.invalidUrl"
	KeyDuplicate  = "errors.duplicate"
	KeyParse      = "errors.parse"
	KeyNetwork    = "errors.network"
	KeyBusy       = "errors.busy"
	KeyUnknown    = "errors.unknown"
	KeySuccess    = "success"
)

// DefaultLang 找不到匹配语言时使用的语言。
const DefaultLang = "ru"

// Catalog 保存所有语言的文案表。
type Catalog struct {
	tags    []language.Tag
	tables  []map[string]string
	matcher language.Matcher
}

// Load 从内嵌的 locales 目录加载所有语言。默认语言排在第一位，作为匹配失败时的回退。
func Load() (*Catalog, error) {
	entries, err := localesFS.ReadDir("locales")
	if err != nil {
		return nil, fmt.Errorf("读取语言目录失败: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".yaml") {
			names = append(names, e.Name())
		}
	}
	sort.SliceStable(names, func(i, j int) bool {
		return strings.TrimSuffix(names[i], ".yaml") == DefaultLang && strings.TrimSuffix(names[j], ".yaml") != DefaultLang
	})

	c := &Catalog{}
	for _, name := range names {
		lang := strings.TrimSuffix(name, ".yaml")
		tag, err := language.Parse(lang)
		if err != nil {
			return nil, fmt.Errorf("语言文件 %s 名称无效: %w", name, err)
		}
		data, err := localesFS.ReadFile(path.Join("locales", name))
		if err != nil {
			return nil, fmt.Errorf("读取语言文件 %s 失败: %w", name, err)
		}
		table, err := parseTable(data)
		if err != nil {
			return nil, fmt.Errorf("解析语言文件 %s 失败: %w", name, err)
		}
		c.tags = append(c.tags, tag)
		c.tables = append(c.tables, table)
	}
	if len(c.tags) == 0 {
		return nil, fmt.Errorf("没有可用的语言文件")
	}
	c.matcher = language.NewMatcher(c.tags)
	return c, nil
}

// Languages 返回支持的语言标签。
func (c *Catalog) Languages() []string {
	result := make([]string, len(c.tags))
	for i, t := range c.tags {
		result[i] = t.String()
	}
	return result
}

// Lookup 返回与 lang 最匹配的语言的查找函数。lang 可以是单个标签或 Accept-Language 头。
func (c *Catalog) Lookup(lang string) Lookup {
	table := c.tables[c.match(lang)]
	fallback := c.tables[0]
	return func(key string) string {
		if s, ok := table[key]; ok {
			return s
		}
		if s, ok := fallback[key]; ok {
			return s
		}
		return key
	}
}

// match 返回匹配语言在 tags 中的下标。
func (c *Catalog) match(lang string) int {
	desired, _, err := language.ParseAcceptLanguage(lang)
	if err != nil || len(desired) == 0 {
		return 0
	}
	_, index, conf := c.matcher.Match(desired...)
	if conf == language.No {
		return 0
	}
	return index
}

// parseTable 将嵌套的 YAML 展开为 "a.b" 形式的 key。
func parseTable(data []byte) (map[string]string, error) {
	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	table := make(map[string]string)
	flatten("", raw, table)
	return table, nil
}

func flatten(prefix string, node map[string]interface{}, out map[string]string) {
	for k, v := range node {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch val := v.(type) {
		case map[string]interface{}:
			flatten(key, val, out)
		case nil:
		default:
			out[key] = fmt.Sprint(val)
		}
	}
}
