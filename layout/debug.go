package layout

import (
	"encoding/json"
	"os"
)

// WriteReport 将编辑结果输出为 JSON，便于调试或交给前端展示。
func WriteReport(res *EditResult, path string) error {
	if res == nil {
		return nil
	}
	return writeJSON(res, path)
}

// WriteConstraints 输出整份文档的容量提示，供外部内容提案方参考。
func (e *Engine) WriteConstraints(doc *Document, path string) error {
	return writeJSON(e.ConstraintSummaries(doc), path)
}

func writeJSON(v any, path string) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
