package layout

import "errors"

// 以下错误均为非致命：核心总是返回尽力而为的结果，错误只挂在 ValidatedEdit.Issues 上。
var (
	ErrMeasurementUnavailable = errors.New("layout: 文本测量不可用")
	ErrDanglingReference      = errors.New("layout: 提案引用的元素不存在")
	ErrMalformedBoundingBox   = errors.New("layout: 元素包围盒无效")
	ErrTruncationExhausted    = errors.New("layout: 单个字符也无法放下")
	ErrUnresolvedOverlap      = errors.New("layout: 重叠未能消除")
)
