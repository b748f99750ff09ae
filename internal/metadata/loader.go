package metadata

import (
	"regexp"
	"strconv"

	"gopkg.in/yaml.v3"
)

// yaml.v3 的语法错误信息形如 "yaml: line 3: could not find expected ':'"。
var yamlLineRe = regexp.MustCompile(`yaml: line (\d+):`)

// Load 将原始文本解析为一个 YAML 映射。
// 文本不是合法 YAML、解析结果为空或顶层不是映射时返回 *ParseError。
func Load(text string) (map[string]interface{}, error) {
	var parsed interface{}
	if err := yaml.Unmarshal([]byte(text), &parsed); err != nil {
		perr := &ParseError{Message: err.Error()}
		if m := yamlLineRe.FindStringSubmatch(err.Error()); m != nil {
			perr.Line, _ = strconv.Atoi(m[1])
			perr.Column = 1
		}
		return nil, perr
	}

	if parsed == nil {
		return nil, &ParseError{Message: "empty document"}
	}

	mapping, ok := parsed.(map[string]interface{})
	if !ok {
		return nil, &ParseError{Message: "top-level element is not a mapping"}
	}
	return mapping, nil
}
