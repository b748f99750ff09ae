// Package metadata 负责解析并校验发布者、项目列表与文档三类 YAML 配置文件。
package metadata

import (
	"errors"
	"fmt"
)

// ParseError 表示原始文本不是合法的 YAML，或解析结果为空。
// Line 和 Column 为 1 起始的位置信息，无法定位时为 0。
type ParseError struct {
	Message string
	Line    int
	Column  int
}

// Error 实现 error 接口。
func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("the file could not be loaded, possibly due to a syntax error (line %d, column %d)", e.Line, e.Column)
	}
	return fmt.Sprintf("the file could not be loaded: %s", e.Message)
}

// InvalidMetadataError 表示文件可以解析，但缺少必填字段或结构不符合约定。
// Field 为空时表示通用的结构错误。
type InvalidMetadataError struct {
	Kind  SettingsKind
	Field string
	In    string // 出错字段所在的片段描述，便于编辑配置的人定位
}

// Error 实现 error 接口。
func (e *InvalidMetadataError) Error() string {
	if e.Field != "" {
		if e.In != "" {
			return fmt.Sprintf(`missing required field "%s" in %s (%s)`, e.Field, e.Kind, e.In)
		}
		return fmt.Sprintf(`missing required field "%s" in %s`, e.Field, e.Kind)
	}
	return fmt.Sprintf("general error in parsing %s metadata", e.Kind)
}

// IsInvalid 判断错误是否属于元数据校验失败（语法错误或结构不符合约定）。
// 这类错误只会让当前这次摄取被跳过，与网络传输错误区分开。
func IsInvalid(err error) bool {
	var parseErr *ParseError
	var metaErr *InvalidMetadataError
	return errors.As(err, &parseErr) || errors.As(err, &metaErr)
}

// missingField 构造一个带字段名的校验错误。
func missingField(kind SettingsKind, field, in string) *InvalidMetadataError {
	return &InvalidMetadataError{Kind: kind, Field: field, In: in}
}

// generalError 构造一个不含字段名的通用校验错误，对应结构性问题。
func generalError(kind SettingsKind) *InvalidMetadataError {
	return &InvalidMetadataError{Kind: kind}
}
