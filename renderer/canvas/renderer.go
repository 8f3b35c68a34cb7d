package canvasrenderer

import (
	"bytes"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"

	"github.com/ByLCY/pagefit/fonts"
	"github.com/ByLCY/pagefit/layout"
	"github.com/ByLCY/pagefit/renderer"
)

// Renderer measures text and redraws reconstruction plans via github.com/tdewolff/canvas.
type Renderer struct {
	baseDir string
	table   layout.FontTable

	// injected resources
	fontBlobs map[string][]byte // by handle

	fontMu       sync.Mutex
	fontFamilies map[string]*canvas.FontFamily
	fallback     *canvas.FontFamily
}

var (
	_ renderer.Renderer = (*Renderer)(nil)
	_ layout.Measurer   = (*Renderer)(nil)
)

// Options configures the canvas renderer.
type Options struct {
	BaseDir string
	// FontTable 决定 Measure 时字体族到替代字体句柄的映射；为空时使用内置字体表。
	FontTable layout.FontTable
	// Fonts 按句柄注入字体数据，优先于内置字体与文件路径。
	Fonts map[string]Resource
}

// Resource can be provided either by Bytes or by Path.
type Resource struct {
	Bytes []byte
	Path  string
}

var (
	textColor       = color.RGBA{A: 0xff}
	backgroundColor = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
)

// NewRenderer creates a canvas-based renderer rooted at baseDir for resolving font files.
func NewRenderer(baseDir string) *Renderer { return NewRendererWithOptions(Options{BaseDir: baseDir}) }

// NewRendererWithOptions creates a renderer with injected resources.
func NewRendererWithOptions(opts Options) *Renderer {
	r := &Renderer{
		baseDir:      opts.BaseDir,
		table:        opts.FontTable,
		fontBlobs:    map[string][]byte{},
		fontFamilies: map[string]*canvas.FontFamily{},
	}
	if len(r.table) == 0 {
		r.table = layout.DefaultFontTable()
	}
	for handle, res := range opts.Fonts {
		if handle == "" {
			continue
		}
		if len(res.Bytes) > 0 {
			r.fontBlobs[handle] = res.Bytes
			continue
		}
		if res.Path != "" {
			data, _ := os.ReadFile(res.Path) // 读取失败时在使用处回退
			if len(data) > 0 {
				r.fontBlobs[handle] = data
			}
		}
	}
	return r
}

// Measure 实现 layout.Measurer：以替代字体测量单行文本宽度，返回 pt。
func (r *Renderer) Measure(text string, font layout.FontDescriptor) (float64, error) {
	if font.Size <= 0 {
		return 0, fmt.Errorf("无效字号 %v", font.Size)
	}
	face, err := r.fontFace(r.table.Handle(font), font.Size)
	if err != nil {
		return 0, err
	}
	// 字号按 pt 创建，TextWidth 返回 mm
	return face.TextWidth(text) * layout.MmToPt, nil
}

// Render 按计划逐页重绘：白色背景，元素原位绘制最终文本。
func (r *Renderer) Render(plan *layout.Plan) ([]byte, error) {
	if plan == nil {
		return nil, fmt.Errorf("重建计划为空")
	}
	if len(plan.Pages) == 0 {
		return nil, fmt.Errorf("缺少可渲染的页面")
	}

	var buf bytes.Buffer
	first := plan.Pages[0]
	writer := pdf.New(&buf, toMm(first.Width), toMm(first.Height), nil)
	r.applyMeta(writer, plan.Meta)
	for i, page := range plan.Pages {
		w, h := toMm(page.Width), toMm(page.Height)
		if i > 0 {
			writer.NewPage(w, h)
		}
		c := canvas.New(w, h)
		ctx := canvas.NewContext(c)
		ctx.SetCoordSystem(canvas.CartesianIV) // 与页面坐标一致，左上角为原点

		ctx.SetFillColor(backgroundColor)
		ctx.DrawPath(0, 0, canvas.Rectangle(w, h))
		for _, td := range page.Texts {
			if err := r.drawText(ctx, td); err != nil {
				return nil, fmt.Errorf("第 %d 页元素 %s: %w", page.Index, td.ElementID, err)
			}
		}
		c.RenderTo(writer)
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) applyMeta(writer *pdf.PDF, meta layout.DocumentMeta) {
	if writer == nil {
		return
	}
	keywords := strings.Join(meta.Keywords, ", ")
	writer.SetInfo(meta.Title, meta.Subject, keywords, meta.Author, meta.Creator)
}

// drawText 每行基线位于 bbox.y + fontSize + i*lineHeight（pt），换算为 mm 后绘制。
func (r *Renderer) drawText(ctx *canvas.Context, td layout.TextDraw) error {
	if td.Content == "" || td.Font.Size <= 0 {
		return nil
	}
	handle := td.FontHandle
	if handle == "" {
		handle = r.table.Handle(td.Font)
	}
	face, err := r.fontFace(handle, td.Font.Size)
	if err != nil {
		return err
	}
	lineHeight := td.LineHeight
	if lineHeight <= 0 {
		lineHeight = td.Font.Size
	}
	for i, line := range strings.Split(td.Content, "\n") {
		if line == "" {
			continue
		}
		baseline := td.BBox.Y + td.Font.Size + float64(i)*lineHeight
		ctx.DrawText(toMm(td.BBox.X), toMm(baseline), canvas.NewTextLine(face, line, canvas.Left))
	}
	return nil
}

func (r *Renderer) fontFace(handle string, sizePt float64) (*canvas.FontFace, error) {
	family, err := r.fontFamily(handle)
	if err != nil {
		return nil, err
	}
	return family.Face(sizePt, textColor, canvas.FontRegular, canvas.FontNormal), nil
}

// fontFamily 每个句柄只加载一次；加载失败时回退到内置常规字体。
func (r *Renderer) fontFamily(handle string) (*canvas.FontFamily, error) {
	r.fontMu.Lock()
	defer r.fontMu.Unlock()

	if family, ok := r.fontFamilies[handle]; ok {
		return family, nil
	}
	family := canvas.NewFontFamily(handle)
	data, err := r.loadFontBytes(handle)
	if err == nil {
		err = family.LoadFont(data, 0, canvas.FontRegular)
	}
	if err != nil {
		fb, fbErr := r.fallbackFamily()
		if fbErr != nil {
			return nil, err
		}
		layout.Logger().Warn("字体加载失败，使用回退字体", "handle", handle, "err", err)
		r.fontFamilies[handle] = fb
		return fb, nil
	}
	r.fontFamilies[handle] = family
	return family, nil
}

func (r *Renderer) loadFontBytes(handle string) ([]byte, error) {
	if handle == "" {
		return nil, fmt.Errorf("字体句柄为空")
	}
	if blob, ok := r.fontBlobs[handle]; ok {
		return blob, nil
	}
	if fonts.IsBuiltin(handle) {
		return fonts.Load(handle)
	}
	path := handle
	if r.baseDir == "" && !filepath.IsAbs(path) {
		return nil, fmt.Errorf("未指定资源目录时不允许直接使用字体路径：%s（请改用 builtin:）", handle)
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(r.baseDir, path)
	}
	return os.ReadFile(path)
}

func (r *Renderer) fallbackFamily() (*canvas.FontFamily, error) {
	if r.fallback != nil {
		return r.fallback, nil
	}
	data, err := fonts.Load(fonts.Fallback)
	if err != nil {
		return nil, err
	}
	family := canvas.NewFontFamily("fallback")
	if err := family.LoadFont(data, 0, canvas.FontRegular); err != nil {
		return nil, err
	}
	r.fallback = family
	return family, nil
}

// toMm 将点(pt)转换为毫米(mm)。
func toMm(pt float64) float64 { return pt * layout.PtToMm }
