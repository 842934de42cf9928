package book

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultGenreAliases 内置的类型别名表(小写别名 → 规范名)
// 配置项genres.aliases为空时使用
func DefaultGenreAliases() map[string]string {
	return map[string]string{
		"fiction":          "Fiction",
		"nonfiction":       "Nonfiction",
		"non-fiction":      "Nonfiction",
		"mystery":          "Mystery",
		"thriller":         "Thriller",
		"romance":          "Romance",
		"romcom":           "Romantic Comedy",
		"romantic comedy":  "Romantic Comedy",
		"historical":       "Historical",
		"fantasy":          "Fantasy",
		"science fiction":  "Science Fiction",
		"sci-fi":           "Science Fiction",
		"scifi":            "Science Fiction",
		"horror":           "Horror",
		"memoir":           "Memoir",
		"biography":        "Biography",
		"self-help":        "Self-Help",
		"self help":        "Self-Help",
		"poetry":           "Poetry",
		"young adult":      "Young Adult",
		"ya":               "Young Adult",
		"children":         "Children",
		"graphic novel":    "Graphic Novel",
		"humor":            "Humor",
		"satire":           "Satire",
		"adventure":        "Adventure",
		"classic":          "Classic",
		"contemporary":     "Contemporary",
		"crime":            "Crime",
		"cozy mystery":     "Cozy Mystery",
		"paranormal":       "Paranormal",
		"urban fantasy":    "Urban Fantasy",
		"magical realism":  "Magical Realism",
		"literary fiction": "Literary Fiction",
		"short stories":    "Short Stories",
		"essays":           "Essays",
		"parenting":        "Parenting",
		"health":           "Health",
		"religion":         "Religion",
		"philosophy":       "Philosophy",
		"travel":           "Travel",
		"cooking":          "Cooking",
		"art":              "Art",
		"music":            "Music",
		"business":         "Business",
		"technology":       "Technology",
		"history":          "History",
		"politics":         "Politics",
		"science":          "Science",
		"true crime":       "True Crime",
	}
}

// GenreNormalizer 类型名规整器
// 别名表在构造时复制,之后只读,可以被多个goroutine共享
type GenreNormalizer struct {
	aliases   map[string]string
	canonical []string
}

// NewGenreNormalizer 创建规整器,aliases为空时使用内置表
func NewGenreNormalizer(aliases map[string]string) *GenreNormalizer {
	if len(aliases) == 0 {
		aliases = DefaultGenreAliases()
	}

	n := &GenreNormalizer{aliases: make(map[string]string, len(aliases))}
	seen := make(map[string]struct{})
	for alias, name := range aliases {
		n.aliases[strings.ToLower(strings.TrimSpace(alias))] = name
		if _, ok := seen[name]; !ok {
			seen[name] = struct{}{}
			n.canonical = append(n.canonical, name)
		}
	}
	sort.Strings(n.canonical)
	return n
}

// Normalize 把用户输入的类型名转换为规范名
// 1. 去空白转小写后查表
// 2. 以s结尾时去掉s再查一次(简单复数)
// 3. 查不到则返回去空白后首字母大写的原值;空输入返回空字符串
func (n *GenreNormalizer) Normalize(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}

	key := strings.ToLower(trimmed)
	if name, ok := n.aliases[key]; ok {
		return name
	}
	if strings.HasSuffix(key, "s") {
		if name, ok := n.aliases[strings.TrimSuffix(key, "s")]; ok {
			return name
		}
	}

	r, size := utf8.DecodeRuneInString(trimmed)
	return string(unicode.ToUpper(r)) + trimmed[size:]
}

// Canonical 全部规范名(已排序,返回副本)
func (n *GenreNormalizer) Canonical() []string {
	out := make([]string, len(n.canonical))
	copy(out, n.canonical)
	return out
}
