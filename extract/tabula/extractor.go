package tabula

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/tsawler/tabula/core"
	"github.com/tsawler/tabula/pages"
	"github.com/tsawler/tabula/reader"
	"golang.org/x/text/encoding/unicode"

	"github.com/ByLCY/pagefit/extract"
	"github.com/ByLCY/pagefit/layout"
)

// Extractor reads PDFs with github.com/tsawler/tabula.
type Extractor struct {
	// TempDir 为空时使用系统临时目录；tabula 只接受 *os.File。
	TempDir string
	// Now 用于记录提取时间，测试时可替换。
	Now func() time.Time
}

var _ extract.Extractor = (*Extractor)(nil)

// New returns an extractor using the system temp dir.
func New() *Extractor { return &Extractor{} }

// Extract 实现 extract.Extractor。
func (e *Extractor) Extract(raw []byte) (*extract.Result, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("PDF 数据为空")
	}
	f, err := os.CreateTemp(e.TempDir, "pagefit-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("创建临时文件失败: %w", err)
	}
	defer os.Remove(f.Name())
	defer f.Close()
	if _, err := f.Write(raw); err != nil {
		return nil, fmt.Errorf("写入临时文件失败: %w", err)
	}

	r, err := reader.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("解析 PDF 失败: %w", err)
	}
	count, err := r.PageCount()
	if err != nil {
		return nil, fmt.Errorf("读取页数失败: %w", err)
	}

	res := &extract.Result{Pages: make([]layout.RawPage, 0, count)}
	for i := 0; i < count; i++ {
		page, err := r.GetPage(i)
		if err != nil {
			return nil, fmt.Errorf("读取第 %d 页失败: %w", i, err)
		}
		rp, err := e.extractPage(r, page, i)
		if err != nil {
			return nil, err
		}
		res.Pages = append(res.Pages, rp)
	}

	res.Meta = readMeta(r)
	res.Meta.PageCount = count
	res.Meta.FileSize = len(raw)
	now := time.Now
	if e.Now != nil {
		now = e.Now
	}
	res.Meta.ExtractedAt = now().UTC().Format(time.RFC3339)
	return res, nil
}

func (e *Extractor) extractPage(r *reader.Reader, page *pages.Page, index int) (layout.RawPage, error) {
	width, err := page.Width()
	if err != nil {
		return layout.RawPage{}, fmt.Errorf("读取第 %d 页宽度失败: %w", index, err)
	}
	height, err := page.Height()
	if err != nil {
		return layout.RawPage{}, fmt.Errorf("读取第 %d 页高度失败: %w", index, err)
	}
	frags, err := r.ExtractTextFragments(page)
	if err != nil {
		return layout.RawPage{}, fmt.Errorf("提取第 %d 页文本失败: %w", index, err)
	}

	baseFonts := pageBaseFonts(r, page)
	rp := layout.RawPage{Index: index, Width: width, Height: height, Runs: make([]layout.GlyphRun, 0, len(frags))}
	for _, frag := range frags {
		// tabula 报告的资源名带前导斜杠，如 /F0
		name := frag.FontName
		if base, ok := baseFonts[strings.TrimPrefix(name, "/")]; ok {
			name = base
		}
		rp.Runs = append(rp.Runs, layout.GlyphRun{
			Text:      frag.Text,
			Transform: [6]float64{frag.FontSize, 0, 0, frag.FontSize, frag.X, frag.Y},
			Width:     frag.Width,
			Height:    frag.Height,
			FontName:  name,
		})
	}
	return rp, nil
}

// pageBaseFonts 将页面资源中的字体资源名（如 F1）映射到 BaseFont（如 ABCDEF+Times-Bold）。
func pageBaseFonts(r *reader.Reader, page *pages.Page) map[string]string {
	out := map[string]string{}
	res, err := page.Resources()
	if err != nil || res == nil {
		return out
	}
	fontObj, err := r.Resolve(res.Get("Font"))
	if err != nil {
		return out
	}
	fontDict, ok := fontObj.(core.Dict)
	if !ok {
		return out
	}
	for key, val := range fontDict {
		obj, err := r.Resolve(val)
		if err != nil {
			continue
		}
		dict, ok := obj.(core.Dict)
		if !ok {
			continue
		}
		if base, ok := dict.GetName("BaseFont"); ok {
			out[key] = string(base)
		}
	}
	return out
}

func readMeta(r *reader.Reader) layout.DocumentMeta {
	var meta layout.DocumentMeta
	info, err := r.GetInfo()
	if err != nil || info == nil {
		return meta
	}
	get := func(key string) string {
		obj, err := r.Resolve(info.Get(key))
		if err != nil {
			return ""
		}
		s, ok := obj.(core.String)
		if !ok {
			return ""
		}
		return decodeTextString(string(s))
	}
	meta.Title = get("Title")
	meta.Author = get("Author")
	meta.Subject = get("Subject")
	meta.Creator = get("Creator")
	for _, kw := range strings.Split(get("Keywords"), ",") {
		if kw = strings.TrimSpace(kw); kw != "" {
			meta.Keywords = append(meta.Keywords, kw)
		}
	}
	return meta
}

// decodeTextString 处理带 BOM 的 UTF-16BE 文本字符串，其余按原样返回。
func decodeTextString(s string) string {
	if !strings.HasPrefix(s, "\xfe\xff") {
		return s
	}
	out, err := unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM).NewDecoder().String(s)
	if err != nil {
		return s
	}
	return out
}
