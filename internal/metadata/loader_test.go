package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoad 验证 YAML 加载的各种边界情况。
func TestLoad(t *testing.T) {
	t.Run("合法映射", func(t *testing.T) {
		data, err := Load("publisher:\n  name: Ministero\n")
		require.NoError(t, err)
		assert.Contains(t, data, "publisher")
	})

	t.Run("空文档返回 ParseError", func(t *testing.T) {
		_, err := Load("")
		var perr *ParseError
		require.ErrorAs(t, err, &perr)
		assert.Equal(t, "empty document", perr.Message)
	})

	t.Run("顶层不是映射返回 ParseError", func(t *testing.T) {
		_, err := Load("- a\n- b\n")
		var perr *ParseError
		require.ErrorAs(t, err, &perr)
	})

	t.Run("语法错误带行号", func(t *testing.T) {
		_, err := Load("publisher:\n  name: [unclosed\n")
		var perr *ParseError
		require.ErrorAs(t, err, &perr)
		assert.Greater(t, perr.Line, 0)
		assert.Contains(t, perr.Error(), "syntax error")
	})

	t.Run("校验错误与传输错误可区分", func(t *testing.T) {
		_, err := Load("")
		assert.True(t, IsInvalid(err))
		assert.False(t, IsInvalid(assert.AnError))
	})
}

// TestSlugify 验证 slug 派生规则。
func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Ministero della Documentazione": "ministero-della-documentazione",
		"  spazi   multipli  ":           "spazi-multipli",
		"Già-Slug":                       "già-slug",
		"punteggiatura, via!":            "punteggiatura-via",
		"under_score":                    "under_score",
		"---":                            "",
	}
	for input, expected := range cases {
		assert.Equal(t, expected, Slugify(input), "input: %q", input)
	}
}
