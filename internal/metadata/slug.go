package metadata

import (
	"strings"
	"unicode"
)

// Slugify 将名称转换为 URL 友好的 slug：小写、空白转连字符、
// 去掉除字母数字、下划线和连字符以外的字符，并压缩重复的连字符。
func Slugify(name string) string {
	var b strings.Builder
	lastHyphen := false
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_':
			b.WriteRune(r)
			lastHyphen = false
		case unicode.IsSpace(r) || r == '-':
			if !lastHyphen && b.Len() > 0 {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}
